// Package catalog holds the current page of products and its pagination
// metadata, refreshed by page-change requests.
package catalog

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/metrics"
	"github.com/ashendes/storefront-client/internal/models"
)

// Store owns the catalog state. Only its own methods mutate it; the product
// list and pagination always come from one server response and are swapped
// together, so readers never see them disagree.
type Store struct {
	mu         sync.RWMutex
	products   []models.Product
	pagination models.Pagination

	client *api.Client
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Load fetches the first catalog page, the storefront's landing state.
func (s *Store) Load(ctx context.Context) error {
	return s.LoadPage(ctx, 1)
}

// LoadPage replaces the product list and pagination with the server's
// answer for page. The page must be positive; beyond that no client-side
// range check is done — an out-of-range page goes to the server and its
// response, possibly empty, is accepted as-is. On any failure the prior
// state is kept, so a transient error never flashes an empty catalog.
func (s *Store) LoadPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("catalog page must be positive, got %d", page)
	}

	resp, err := s.client.ListProducts(ctx, page)
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.WithFields(log.Fields{
			"page": page,
		}).Error("Failed to load catalog page: ", err)
		return err
	}

	s.mu.Lock()
	s.products = resp.Products
	s.pagination = resp.Pagination
	s.mu.Unlock()

	metrics.CatalogFetchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.WithFields(log.Fields{
		"page":        resp.Pagination.CurrentPage,
		"total_pages": resp.Pagination.TotalPages,
		"products":    len(resp.Products),
	}).Info("Catalog page loaded")
	return nil
}

// Snapshot returns copies of the current product list and pagination.
func (s *Store) Snapshot() ([]models.Product, models.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, s.pagination
}
