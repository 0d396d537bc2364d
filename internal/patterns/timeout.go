package patterns

import (
	"context"
	"time"
)

// WithTimeout creates a context with timeout for fail-fast behavior
func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// DefaultTimeout bounds every commerce API call. Timeouts live in the
// transport; the stores never wait on anything else.
const DefaultTimeout = 5 * time.Second

// StartupTimeout bounds the initial catalog and cart loads at boot.
const StartupTimeout = 10 * time.Second
