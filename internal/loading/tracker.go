// Package loading tracks which entity ids have an operation in flight.
// It is purely derived state: the stores call Begin/End around their
// network calls and the rendering layer reads IsLoading to disable the
// triggering control.
package loading

import (
	"sync"

	"github.com/ashendes/storefront-client/internal/metrics"
)

// Tracker keeps at most one flag per entity id. Starting a second
// operation on an id before the first one ends overwrites the flag rather
// than stacking a counter, and a second End for an already-cleared id is a
// no-op. The UI disables controls while in flight, so one logical
// operation per id is all that can be user-triggered at a time.
type Tracker struct {
	mu       sync.RWMutex
	inFlight map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[string]struct{})}
}

// Begin marks id as in flight.
func (t *Tracker) Begin(id string) {
	t.mu.Lock()
	t.inFlight[id] = struct{}{}
	metrics.LoadingInFlight.Set(float64(len(t.inFlight)))
	t.mu.Unlock()
}

// End clears the flag for id. Clearing an id that is not in flight is a
// no-op, not an error.
func (t *Tracker) End(id string) {
	t.mu.Lock()
	delete(t.inFlight, id)
	metrics.LoadingInFlight.Set(float64(len(t.inFlight)))
	t.mu.Unlock()
}

// IsLoading reports whether id has an operation in flight.
func (t *Tracker) IsLoading(id string) bool {
	t.mu.RLock()
	_, ok := t.inFlight[id]
	t.mu.RUnlock()
	return ok
}
