package api

import (
	"context"
	"net/http"
	"time"

	"gadget-rental/internal/rental"
	"gadget-rental/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the application services the HTTP layer calls
type Services struct {
	Accounts      *service.AccountService
	Catalog       *service.CatalogService
	Cart          *service.CartService
	Checkout      *service.CheckoutService
	Payments      *service.PaymentService
	Orders        *service.OrderService
	Reviews       *service.ReviewService
	Wishlist      *service.WishlistService
	Notifications *service.NotificationService
	Feedback      *service.FeedbackService
	Admin         *service.AdminService
}

var orderActions = []rental.Action{
	rental.ActionApprove,
	rental.ActionReject,
	rental.ActionActivate,
	rental.ActionDeliver,
	rental.ActionReturn,
	rental.ActionCancel,
}

// Pinger is a backend the readiness probe checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	svc    Services
	checks map[string]Pinger
	now    func() time.Time
}

// NewHandler creates a new HTTP handler. checks are pinged by /ready.
func NewHandler(svc Services, checks map[string]Pinger) *Handler {
	return &Handler{
		svc:    svc,
		checks: checks,
		now:    time.Now,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)
		v1.POST("/auth/admin/login", h.adminLogin)
		v1.GET("/home", h.home)
		v1.GET("/gadgets", h.browseGadgets)
		v1.GET("/gadgets/:id", h.gadgetDetail)
		v1.GET("/reviews", h.listReviews)
	}

	customer := v1.Group("", h.requireAuth())
	{
		customer.POST("/auth/logout", h.logout)
		customer.GET("/profile", h.profile)
		customer.PUT("/profile", h.updateProfile)

		customer.GET("/cart", h.viewCart)
		customer.POST("/cart/items", h.addToCart)
		customer.PATCH("/cart/items/:id", h.updateCartItem)
		customer.DELETE("/cart/items/:id", h.removeCartItem)
		customer.DELETE("/cart", h.clearCart)
		customer.POST("/cart/quote", h.quoteCart)

		customer.POST("/checkout", h.checkout)
		customer.POST("/payments", h.pay)

		customer.GET("/orders", h.listOrders)
		customer.GET("/orders/:id", h.getOrder)
		customer.POST("/orders/:id/cancel", h.cancelOrder)
		customer.POST("/orders/:id/review", h.submitReview)

		customer.GET("/wishlist", h.listWishlist)
		customer.POST("/wishlist/:id", h.addToWishlist)
		customer.DELETE("/wishlist/:id", h.removeFromWishlist)
		customer.POST("/wishlist/:id/move-to-cart", h.moveToCart)

		customer.GET("/notifications", h.listNotifications)
		customer.POST("/notifications/:id/read", h.markNotificationRead)

		customer.POST("/feedback", h.submitFeedback)
	}

	admin := v1.Group("/admin", h.requireAuth(), requireAdmin())
	{
		admin.GET("/dashboard", h.dashboard)

		admin.GET("/orders", h.adminListOrders)
		for _, action := range orderActions {
			admin.POST("/orders/:id/"+string(action), h.transitionOrder(action))
		}
		admin.POST("/orders/:id/refund-deposit", h.refundDeposit)

		admin.GET("/feedback", h.listFeedback)
		admin.POST("/feedback/:id/resolve", h.resolveFeedback)

		admin.GET("/users", h.listCustomers)
		admin.POST("/users/:id/verify", h.verifyUser)
		admin.POST("/users/:id/deactivate", h.deactivateUser)
		admin.GET("/users/:id/orders", h.userHistory)
		admin.POST("/users/:id/cart-reminder", h.sendCartReminder)

		admin.GET("/gadgets", h.adminListGadgets)
		admin.POST("/gadgets", h.createGadget)
		admin.PUT("/gadgets/:id", h.updateGadget)
		admin.DELETE("/gadgets/:id", h.deleteGadget)
		admin.POST("/gadgets/:id/feature", h.toggleFeatured)

		admin.GET("/reports/daily-revenue", h.dailyRevenueReport)
		admin.GET("/reports/most-rented", h.mostRentedReport)
		admin.GET("/reports/user-activity", h.userActivityReport)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   h.now().Unix(),
	})
}

// readinessCheck pings every backend and reports the ones that are down
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   h.now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   h.now().Unix(),
	})
}
