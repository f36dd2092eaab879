package api

import (
	"net/http"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	res, err := h.svc.Checkout.Checkout(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// pay answers 402 when the gateway declines, so clients can retry
func (h *Handler) pay(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.svc.Payments.Pay(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if res.PaymentStatus == models.PaymentStatusFailed {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, res)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.Cancel(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// adminListOrders serves ?status=all|booked|approved|...
func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListForAdmin(c.Request.Context(), c.DefaultQuery("status", "all"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) transitionOrder(action rental.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		order, err := h.svc.Orders.Transition(c.Request.Context(), id, action)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func (h *Handler) refundDeposit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.RefundDeposit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) userHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, orders, err := h.svc.Orders.UserHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "orders": orders})
}
