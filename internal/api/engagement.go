package api

import (
	"net/http"

	"gadget-rental/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) submitReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.svc.Reviews.Submit(c.Request.Context(), currentUser(c).ID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listWishlist(c *gin.Context) {
	items, err := h.svc.Wishlist.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// addToWishlist takes the gadget id; a gadget already saved answers 200
func (h *Handler) addToWishlist(c *gin.Context) {
	gadgetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	added, err := h.svc.Wishlist.Add(c.Request.Context(), currentUser(c).ID, gadgetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, gin.H{"added": false, "message": "Already in your wishlist"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true, "message": "Added to wishlist"})
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Wishlist.Remove(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) moveToCart(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	item, err := h.svc.Wishlist.MoveToCart(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) listNotifications(c *gin.Context) {
	notes, err := h.svc.Notifications.ListAndMarkRead(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Notifications.MarkRead(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitFeedback(c *gin.Context) {
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fb, err := h.svc.Feedback.Submit(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) listFeedback(c *gin.Context) {
	items, err := h.svc.Feedback.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": items})
}

func (h *Handler) resolveFeedback(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Feedback.Resolve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
