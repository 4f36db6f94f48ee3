package api

import (
	"net/http"
	"strconv"
	"time"

	"taruvae-orders/internal/reconcile"
	"taruvae-orders/internal/service"
	"taruvae-orders/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService *service.OrderService
	adminToken   string
}

// NewHandler creates a new HTTP handler
func NewHandler(orderService *service.OrderService, adminToken string) *Handler {
	return &Handler{
		orderService: orderService,
		adminToken:   adminToken,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", h.placeOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id/tracking", h.getTracking)
	}

	admin := v1.Group("/admin")
	admin.Use(h.adminGate())
	{
		admin.GET("/orders", h.listAllOrders)
		admin.PATCH("/orders/:id/status", h.updateStatus)
		admin.GET("/customers", h.listCustomers)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// identity pulls the requesting user from the auth headers the
// storefront gateway forwards. Auth itself lives upstream.
func identity(c *gin.Context) reconcile.Identity {
	return reconcile.Identity{
		ID:    c.GetHeader("X-User-Id"),
		Email: c.GetHeader("X-User-Email"),
	}
}

// placeOrder handles checkout submissions
func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	if req.UserID == "" {
		req.UserID = c.GetHeader("X-User-Id")
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// listOrders returns the requesting user's reconciled order list
func (h *Handler) listOrders(c *gin.Context) {
	user := identity(c)
	if user.ID == "" && user.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Missing user identity",
		})
		return
	}

	result := h.orderService.ListOrders(c.Request.Context(), user)

	c.JSON(http.StatusOK, gin.H{
		"orders":  result.Orders,
		"partial": result.Partial,
	})
}

// getTracking returns the fulfillment timeline for one order
func (h *Handler) getTracking(c *gin.Context) {
	user := identity(c)
	if user.ID == "" && user.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Missing user identity",
		})
		return
	}

	info, err := h.orderService.GetTracking(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, info)
}

// adminGate guards the admin surface with the shared panel token
func (h *Handler) adminGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminToken == "" || c.GetHeader("X-Admin-Token") != h.adminToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access denied",
			})
			return
		}
		c.Next()
	}
}

// listAllOrders returns every order for the admin panel
func (h *Handler) listAllOrders(c *gin.Context) {
	result := h.orderService.ListAllOrders(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"orders":  result.Orders,
		"partial": result.Partial,
	})
}

type updateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message,omitempty"`
}

// updateStatus moves an order through the fulfillment timeline
func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// listCustomers returns aggregated customer summaries
func (h *Handler) listCustomers(c *gin.Context) {
	customers := h.orderService.ListCustomers(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
