// Package checkout keeps one in-progress cart per session. Carts live only
// in memory and are thrown away after payment, on logout, or once they sit
// idle longer than a session can live.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-kasir/internal/cart"
	"go.uber.org/zap"
)

type entry struct {
	cart    *cart.Cart
	touched time.Time
}

type Registry struct {
	mu    sync.Mutex
	carts map[string]*entry
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*entry{}, now: time.Now}
}

// With runs fn on the session's cart, creating it when absent. A non-nil
// catalog replaces the cart's lookup so stock checks use the latest snapshot.
// Calls for all sessions are serialized so each cart operation runs to
// completion before the next.
func (r *Registry) With(sessionID string, catalog cart.Catalog, fn func(c *cart.Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[sessionID]
	if !ok {
		e = &entry{cart: cart.New(catalog)}
		r.carts[sessionID] = e
	} else if catalog != nil {
		e.cart.UseCatalog(catalog)
	}
	e.touched = r.now()
	return fn(e.cart)
}

// Peek returns the lines and total without creating a cart.
func (r *Registry) Peek(sessionID string) ([]cart.Line, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[sessionID]
	if !ok {
		return []cart.Line{}, 0
	}
	return e.cart.Lines(), e.cart.Total()
}

func (r *Registry) Reset(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep drops carts untouched for longer than maxIdle and returns how many
// went away.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, e := range r.carts {
		if e.touched.Before(cutoff) {
			delete(r.carts, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, every, maxIdle time.Duration, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Info("idle carts dropped", zap.Int("count", n))
			}
		}
	}
}
