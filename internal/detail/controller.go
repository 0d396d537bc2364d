// Package detail drives the product detail view: which product is being
// inspected, the transient quantity to add, and the view's lifecycle
// around an add-to-cart.
package detail

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/cart"
	"github.com/ashendes/storefront-client/internal/loading"
	"github.com/ashendes/storefront-client/internal/models"
	"github.com/ashendes/storefront-client/internal/visibility"
)

// Controller holds the currently inspected product and the quantity the
// user intends to add. The quantity resets to 1 on every Open; it never
// carries over between products.
type Controller struct {
	mu      sync.RWMutex
	product models.Product
	qty     int

	client  *api.Client
	cart    *cart.Store
	vis     *visibility.Coordinator
	tracker *loading.Tracker
}

func NewController(client *api.Client, cartStore *cart.Store, vis *visibility.Coordinator, tracker *loading.Tracker) *Controller {
	return &Controller{
		qty:     1,
		client:  client,
		cart:    cartStore,
		vis:     vis,
		tracker: tracker,
	}
}

// Open shows the detail surface immediately — the view transition is
// optimistic — then populates it with a single-product fetch. A failed
// fetch leaves the view open with whatever product data it had; the user
// can close and reopen to retry.
func (c *Controller) Open(ctx context.Context, productID string) error {
	c.vis.Show(visibility.SurfaceDetail)

	c.mu.Lock()
	c.qty = 1
	c.mu.Unlock()

	c.tracker.Begin(productID)
	defer c.tracker.End(productID)

	product, err := c.client.GetProduct(ctx, productID)
	if err != nil {
		log.WithField("product_id", productID).Error("Failed to load product detail: ", err)
		return err
	}

	c.mu.Lock()
	c.product = product
	c.mu.Unlock()
	return nil
}

// Close hides the detail surface without touching the cart.
func (c *Controller) Close() {
	c.vis.Hide(visibility.SurfaceDetail)
}

// Increment raises the quantity by one. The rendering layer may cap what
// it displays; the core enforces no ceiling.
func (c *Controller) Increment() {
	c.mu.Lock()
	c.qty++
	c.mu.Unlock()
}

// Decrement lowers the quantity by one, but never below 1; at the floor it
// is a no-op.
func (c *Controller) Decrement() {
	c.mu.Lock()
	if c.qty > 1 {
		c.qty--
	}
	c.mu.Unlock()
}

// SetQuantity sets the quantity directly, floored at 1.
func (c *Controller) SetQuantity(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.qty = n
	c.mu.Unlock()
}

// Quantity returns the quantity the user would add.
func (c *Controller) Quantity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.qty
}

// Product returns the currently inspected product snapshot.
func (c *Controller) Product() models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.product
}

// ConfirmAdd delegates to the cart store with the current product and
// quantity, then closes the detail view whether or not the add succeeded.
func (c *Controller) ConfirmAdd(ctx context.Context) error {
	c.mu.RLock()
	productID := c.product.ID
	qty := c.qty
	c.mu.RUnlock()

	defer c.vis.Hide(visibility.SurfaceDetail)
	return c.cart.Add(ctx, productID, qty)
}
