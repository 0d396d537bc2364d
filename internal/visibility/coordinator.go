// Package visibility wraps the show/hide state of the storefront's
// surfaces. Controllers go through the coordinator and never touch the
// widget toolkit directly.
package visibility

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/metrics"
)

// Surface is the opaque widget capability the rendering toolkit provides
// for one UI region. The coordinator never inspects widget internals;
// animation and markup are entirely the toolkit's business.
type Surface interface {
	Show()
	Hide()
}

// Well-known surface names.
const (
	SurfaceDetail    = "detail"
	SurfaceCartPanel = "cart-panel"
)

// Coordinator is a two-state machine per registered surface: hidden or
// visible, nothing in between. Show and Hide are idempotent; the widget is
// only driven on an actual transition.
type Coordinator struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
	visible  map[string]bool
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		surfaces: make(map[string]Surface),
		visible:  make(map[string]bool),
	}
}

// Register binds a widget to a surface name, starting hidden.
func (c *Coordinator) Register(name string, surface Surface) {
	c.mu.Lock()
	c.surfaces[name] = surface
	c.visible[name] = false
	c.mu.Unlock()
	metrics.SurfaceVisible.WithLabelValues(name).Set(0)
}

// Show transitions hidden→visible. Showing an already-visible surface is a
// no-op, never a toggle.
func (c *Coordinator) Show(name string) {
	c.mu.Lock()
	surface, registered := c.surfaces[name]
	alreadyVisible := c.visible[name]
	if registered && !alreadyVisible {
		c.visible[name] = true
	}
	c.mu.Unlock()

	if !registered {
		log.WithField("surface", name).Warn("Show requested for unregistered surface")
		return
	}
	if alreadyVisible {
		return
	}

	surface.Show()
	metrics.SurfaceVisible.WithLabelValues(name).Set(1)
}

// Hide transitions visible→hidden, idempotently.
func (c *Coordinator) Hide(name string) {
	c.mu.Lock()
	surface, registered := c.surfaces[name]
	wasVisible := c.visible[name]
	if registered && wasVisible {
		c.visible[name] = false
	}
	c.mu.Unlock()

	if !registered {
		log.WithField("surface", name).Warn("Hide requested for unregistered surface")
		return
	}
	if !wasVisible {
		return
	}

	surface.Hide()
	metrics.SurfaceVisible.WithLabelValues(name).Set(0)
}

// Visible reports whether the named surface is currently shown.
func (c *Coordinator) Visible(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible[name]
}
