package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/models"
)

const (
	fakeCatalogSize = 25
	fakePageSize    = 10
)

// fakeCatalogServer serves a 25-product catalog in pages of 10, maintaining
// the pagination flags the way the commerce API does.
type fakeCatalogServer struct {
	failing  atomic.Bool
	requests atomic.Int64
}

func (f *fakeCatalogServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/teststore/products", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if f.failing.Load() {
			http.Error(w, `{"success":false}`, http.StatusInternalServerError)
			return
		}

		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)

		totalPages := (fakeCatalogSize + fakePageSize - 1) / fakePageSize
		start := (page - 1) * fakePageSize
		var products []models.Product
		for i := start; i < start+fakePageSize && i < fakeCatalogSize; i++ {
			products = append(products, models.Product{
				ID:          fmt.Sprintf("p-%d", i+1),
				Title:       fmt.Sprintf("Product %d", i+1),
				OriginPrice: 200,
				Price:       150,
			})
		}

		resp := models.ProductListResponse{
			Success:  true,
			Products: products,
			Pagination: models.Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
				HasPre:      page > 1,
				HasNext:     page < totalPages,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newTestStore(t *testing.T) (*Store, *fakeCatalogServer) {
	t.Helper()
	fake := &fakeCatalogServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewStore(api.NewClient(srv.URL, "teststore")), fake
}

func TestLoadPageTwoOfThree(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.LoadPage(context.Background(), 2))

	products, pagination := store.Snapshot()
	assert.Len(t, products, fakePageSize)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasPre)
	assert.True(t, pagination.HasNext)
}

func TestPaginationFlagsMatchPagePosition(t *testing.T) {
	store, _ := newTestStore(t)

	for page := 1; page <= 3; page++ {
		require.NoError(t, store.LoadPage(context.Background(), page))
		_, pagination := store.Snapshot()

		assert.Equal(t, page > 1, pagination.HasPre, "has_pre on page %d", page)
		assert.Equal(t, page < pagination.TotalPages, pagination.HasNext, "has_next on page %d", page)
	}

	// Last page holds the remainder.
	products, _ := store.Snapshot()
	assert.Len(t, products, fakeCatalogSize-2*fakePageSize)
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	store, fake := newTestStore(t)

	require.NoError(t, store.LoadPage(context.Background(), 1))
	before, beforePagination := store.Snapshot()
	require.NotEmpty(t, before)

	fake.failing.Store(true)
	err := store.LoadPage(context.Background(), 2)
	require.Error(t, err)

	after, afterPagination := store.Snapshot()
	assert.Equal(t, before, after, "products must survive a failed fetch")
	assert.Equal(t, beforePagination, afterPagination)
}

func TestLoadPageRejectsNonPositivePage(t *testing.T) {
	store, fake := newTestStore(t)

	assert.Error(t, store.LoadPage(context.Background(), 0))
	assert.Error(t, store.LoadPage(context.Background(), -3))
	assert.Zero(t, fake.requests.Load(), "invalid pages must not reach the server")
}

func TestOutOfRangePageAcceptedAsIs(t *testing.T) {
	store, _ := newTestStore(t)

	// Page 9 exists for the server (it just has no products); the client
	// forwards it and accepts the empty answer.
	require.NoError(t, store.LoadPage(context.Background(), 9))

	products, pagination := store.Snapshot()
	assert.Empty(t, products)
	assert.Equal(t, 9, pagination.CurrentPage)
}
