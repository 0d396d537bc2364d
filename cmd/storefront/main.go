package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/cart"
	"github.com/ashendes/storefront-client/internal/catalog"
	"github.com/ashendes/storefront-client/internal/config"
	"github.com/ashendes/storefront-client/internal/detail"
	"github.com/ashendes/storefront-client/internal/loading"
	"github.com/ashendes/storefront-client/internal/metrics"
	"github.com/ashendes/storefront-client/internal/models"
	"github.com/ashendes/storefront-client/internal/order"
	"github.com/ashendes/storefront-client/internal/patterns"
	"github.com/ashendes/storefront-client/internal/visibility"
)

// Storefront wires the stores and controllers behind the state gateway.
// The gateway is the rendering layer: read-only snapshots out, controller
// commands in.
type Storefront struct {
	api     *api.Client
	catalog *catalog.Store
	cart    *cart.Store
	detail  *detail.Controller
	orders  *order.Submission
	tracker *loading.Tracker
	vis     *visibility.Coordinator
}

var storefront *Storefront

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

// logSurface stands in for a widget on the JSON gateway: there is no
// toolkit on this side, visibility reaches clients in the state payload.
type logSurface struct {
	name string
}

func (s logSurface) Show() {
	log.WithField("surface", s.name).Debug("Surface shown")
}

func (s logSurface) Hide() {
	log.WithField("surface", s.name).Debug("Surface hidden")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	client := api.NewClient(cfg.APIBase, cfg.APIPath)
	tracker := loading.NewTracker()

	vis := visibility.NewCoordinator()
	vis.Register(visibility.SurfaceDetail, logSurface{name: visibility.SurfaceDetail})
	vis.Register(visibility.SurfaceCartPanel, logSurface{name: visibility.SurfaceCartPanel})

	cartStore := cart.NewStore(client, tracker)
	storefront = &Storefront{
		api:     client,
		catalog: catalog.NewStore(client),
		cart:    cartStore,
		detail:  detail.NewController(client, cartStore, vis, tracker),
		orders:  order.NewSubmission(client, cartStore),
		tracker: tracker,
		vis:     vis,
	}

	// Initial catalog and cart loads, the same pair the page issues on
	// mount. Failures are logged and left for the first user retry.
	ctx, cancel := patterns.WithTimeout(patterns.StartupTimeout)
	if err := storefront.catalog.Load(ctx); err != nil {
		log.Error("Initial catalog load failed: ", err)
	}
	if err := storefront.cart.Refresh(ctx); err != nil {
		log.Error("Initial cart load failed: ", err)
	}
	cancel()

	router := gin.Default()

	// Add Prometheus middleware
	router.Use(metrics.PrometheusMiddleware("storefront"))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Read-only snapshots
	router.GET("/state", getState)
	router.GET("/catalog", getCatalog)
	router.GET("/cart", getCart)
	router.GET("/loading/:id", getLoading)

	// Catalog commands
	router.POST("/catalog/page/:page", changePage)

	// Detail view commands
	router.POST("/detail/open/:productId", openDetail)
	router.POST("/detail/close", closeDetail)
	router.POST("/detail/quantity", setQuantity)
	router.POST("/detail/quantity/increment", incrementQuantity)
	router.POST("/detail/quantity/decrement", decrementQuantity)
	router.POST("/detail/confirm", confirmAdd)

	// Cart commands
	router.POST("/cart/items", addCartItem)
	router.PUT("/cart/items/:id", updateCartItem)
	router.DELETE("/cart/items/:id", removeCartItem)
	router.DELETE("/cart", clearCart)
	router.POST("/cart-panel/open", openCartPanel)
	router.POST("/cart-panel/close", closeCartPanel)

	// Order submission
	router.POST("/order", submitOrder)

	// Circuit breaker diagnostics
	router.GET("/circuits", getCircuitStatus)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.WithFields(log.Fields{
		"listen_addr": cfg.ListenAddr,
		"api_base":    cfg.APIBase,
	}).Info("Storefront state gateway starting")

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// getState returns everything a renderer needs in one snapshot.
func getState(c *gin.Context) {
	products, pagination := storefront.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": pagination,
		"cart":       storefront.cart.Snapshot(),
		"detail": gin.H{
			"product":  storefront.detail.Product(),
			"quantity": storefront.detail.Quantity(),
			"visible":  storefront.vis.Visible(visibility.SurfaceDetail),
		},
		"cart_panel_visible": storefront.vis.Visible(visibility.SurfaceCartPanel),
	})
}

func getCatalog(c *gin.Context) {
	products, pagination := storefront.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": pagination,
	})
}

func getCart(c *gin.Context) {
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

// getLoading lets renderers disable the control that triggered an
// operation while it is still in flight.
func getLoading(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"loading": storefront.tracker.IsLoading(id),
	})
}

// changePage mirrors the pagination widget: requests for page < 1 are the
// disabled prev-anchor case and rejected outright; out-of-range pages are
// the server's to answer.
func changePage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}

	if err := storefront.catalog.LoadPage(c.Request.Context(), page); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	products, pagination := storefront.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": pagination,
	})
}

func openDetail(c *gin.Context) {
	productID := c.Param("productId")

	if err := storefront.detail.Open(c.Request.Context(), productID); err != nil {
		// The view stays open with incomplete data; report the failure but
		// also the resulting visibility so renderers stay in sync.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   err.Error(),
			"visible": storefront.vis.Visible(visibility.SurfaceDetail),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  storefront.detail.Product(),
		"quantity": storefront.detail.Quantity(),
	})
}

func closeDetail(c *gin.Context) {
	storefront.detail.Close()
	c.JSON(http.StatusOK, gin.H{"visible": false})
}

type quantityRequest struct {
	Qty int `json:"qty" binding:"required,gt=0"`
}

func setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	storefront.detail.SetQuantity(req.Qty)
	c.JSON(http.StatusOK, gin.H{"quantity": storefront.detail.Quantity()})
}

func incrementQuantity(c *gin.Context) {
	storefront.detail.Increment()
	c.JSON(http.StatusOK, gin.H{"quantity": storefront.detail.Quantity()})
}

func decrementQuantity(c *gin.Context) {
	storefront.detail.Decrement()
	c.JSON(http.StatusOK, gin.H{"quantity": storefront.detail.Quantity()})
}

func confirmAdd(c *gin.Context) {
	if err := storefront.detail.ConfirmAdd(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"cart":  storefront.cart.Snapshot(),
		})
		return
	}
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Qty       int    `json:"qty" binding:"required,gt=0"`
}

func addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := storefront.cart.Add(c.Request.Context(), req.ProductID, req.Qty); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"cart":  storefront.cart.Snapshot(),
		})
		return
	}
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

// updateItemRequest takes a pointer so qty: 0 survives binding; the core
// transmits the value unclamped and lets the server judge it.
type updateItemRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

func updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := storefront.cart.UpdateQty(c.Request.Context(), c.Param("id"), *req.Qty); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

func removeCartItem(c *gin.Context) {
	if err := storefront.cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

func clearCart(c *gin.Context) {
	if err := storefront.cart.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, storefront.cart.Snapshot())
}

func openCartPanel(c *gin.Context) {
	storefront.vis.Show(visibility.SurfaceCartPanel)
	c.JSON(http.StatusOK, gin.H{"visible": true})
}

func closeCartPanel(c *gin.Context) {
	storefront.vis.Hide(visibility.SurfaceCartPanel)
	c.JSON(http.StatusOK, gin.H{"visible": false})
}

// getCircuitStatus returns the state of the commerce API circuit breakers.
func getCircuitStatus(c *gin.Context) {
	c.JSON(http.StatusOK, storefront.api.CircuitStates())
}

func submitOrder(c *gin.Context) {
	var form models.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	violations, err := storefront.orders.Submit(c.Request.Context(), form)
	if len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"violations": violations})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": storefront.cart.Snapshot()})
}
