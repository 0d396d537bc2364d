// Package cart holds the authoritative cart aggregate as last returned by
// the server. Every mutation ends by re-fetching the whole aggregate
// instead of applying a local delta — totals and discounts are
// server-computed, and wholesale replacement is what keeps the client from
// ever drifting from them.
package cart

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/loading"
	"github.com/ashendes/storefront-client/internal/metrics"
	"github.com/ashendes/storefront-client/internal/models"
	"github.com/ashendes/storefront-client/internal/patterns"
)

// mutationSlots bounds concurrent cart mutations. The UI disables the
// triggering control per item, so a handful of slots covers real use.
const mutationSlots = 4

// Store owns the cart aggregate. The snapshot visible to the rendering
// layer is always a complete cart from exactly one server response;
// partial or interleaved updates never surface.
type Store struct {
	mu   sync.RWMutex
	cart models.Cart

	client   *api.Client
	tracker  *loading.Tracker
	bulkhead *patterns.Bulkhead
}

func NewStore(client *api.Client, tracker *loading.Tracker) *Store {
	return &Store{
		client:   client,
		tracker:  tracker,
		bulkhead: patterns.NewBulkhead(mutationSlots, "cart-mutations", "storefront"),
	}
}

// Refresh replaces the held aggregate with the server's current cart. On
// failure the prior aggregate is kept and the error logged.
func (s *Store) Refresh(ctx context.Context) error {
	fresh, err := s.client.GetCart(ctx)
	if err != nil {
		log.Error("Failed to refresh cart: ", err)
		return err
	}

	s.mu.Lock()
	s.cart = fresh
	s.mu.Unlock()

	metrics.CartLines.Set(float64(len(fresh.Lines)))
	metrics.CartFinalTotal.Set(fresh.FinalTotal)
	return nil
}

// Add creates a cart entry for productID and reconciles. Unlike the other
// mutations, Add refreshes on failure too: the add may have landed before
// the ack was lost, and the refreshed aggregate is the only truth worth
// showing.
func (s *Store) Add(ctx context.Context, productID string, qty int) error {
	s.tracker.Begin(productID)
	defer s.tracker.End(productID)

	err := s.bulkhead.Execute(func() error {
		return s.client.AddCartItem(ctx, productID, qty)
	})

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		log.WithFields(log.Fields{
			"product_id": productID,
		}).Error("Reconciling refresh after add failed: ", refreshErr)
	}

	if err != nil {
		metrics.CartMutationsTotal.WithLabelValues("add", metrics.OutcomeFailed).Inc()
		log.WithFields(log.Fields{
			"product_id": productID,
			"qty":        qty,
		}).Error("Failed to add cart item: ", err)
		return err
	}

	metrics.CartMutationsTotal.WithLabelValues("add", metrics.OutcomeSuccess).Inc()
	return nil
}

// UpdateQty changes the quantity of an existing line and reconciles on
// success. The quantity is transmitted exactly as given — no client-side
// clamp — and the server's verdict is whatever the refreshed aggregate
// then shows.
func (s *Store) UpdateQty(ctx context.Context, lineID string, qty int) error {
	productID, ok := s.productIDForLine(lineID)
	if !ok {
		metrics.CartMutationsTotal.WithLabelValues("update", metrics.OutcomeFailed).Inc()
		return fmt.Errorf("cart line %s not in current aggregate", lineID)
	}

	err := s.bulkhead.Execute(func() error {
		return s.client.UpdateCartItem(ctx, lineID, productID, qty)
	})
	if err != nil {
		metrics.CartMutationsTotal.WithLabelValues("update", metrics.OutcomeFailed).Inc()
		log.WithFields(log.Fields{
			"line_id": lineID,
			"qty":     qty,
		}).Error("Failed to update cart item: ", err)
		return err
	}

	metrics.CartMutationsTotal.WithLabelValues("update", metrics.OutcomeSuccess).Inc()
	return s.Refresh(ctx)
}

// Remove deletes one line and reconciles on success.
func (s *Store) Remove(ctx context.Context, lineID string) error {
	err := s.bulkhead.Execute(func() error {
		return s.client.RemoveCartItem(ctx, lineID)
	})
	if err != nil {
		metrics.CartMutationsTotal.WithLabelValues("remove", metrics.OutcomeFailed).Inc()
		log.WithField("line_id", lineID).Error("Failed to remove cart item: ", err)
		return err
	}

	metrics.CartMutationsTotal.WithLabelValues("remove", metrics.OutcomeSuccess).Inc()
	return s.Refresh(ctx)
}

// Clear empties the cart and reconciles on success.
func (s *Store) Clear(ctx context.Context) error {
	err := s.bulkhead.Execute(func() error {
		return s.client.ClearCart(ctx)
	})
	if err != nil {
		metrics.CartMutationsTotal.WithLabelValues("clear", metrics.OutcomeFailed).Inc()
		log.Error("Failed to clear cart: ", err)
		return err
	}

	metrics.CartMutationsTotal.WithLabelValues("clear", metrics.OutcomeSuccess).Inc()
	return s.Refresh(ctx)
}

// Snapshot returns a deep copy of the current aggregate.
func (s *Store) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// productIDForLine resolves a line's product id from the held aggregate;
// the update endpoint wants both ids and the rendering layer only has the
// line id.
func (s *Store) productIDForLine(lineID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, line := range s.cart.Lines {
		if line.ID == lineID {
			if line.ProductID != "" {
				return line.ProductID, true
			}
			return line.Product.ID, true
		}
	}
	return "", false
}
