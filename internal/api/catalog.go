package api

import (
	"net/http"
	"strconv"

	"gadget-rental/internal/service"
	"gadget-rental/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) home(c *gin.Context) {
	page, err := h.svc.Catalog.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// browseGadgets serves ?category=&search=&min_price=&max_price=&sort_by=
func (h *Handler) browseGadgets(c *gin.Context) {
	filter := store.GadgetFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sort_by", store.SortPopularity),
	}
	for name, dst := range map[string]*int64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
			return
		}
		*dst = v
	}

	gadgets, err := h.svc.Catalog.Browse(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gadgets": gadgets})
}

func (h *Handler) gadgetDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.Catalog.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) listReviews(c *gin.Context) {
	reviews, err := h.svc.Reviews.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) adminListGadgets(c *gin.Context) {
	gadgets, err := h.svc.Catalog.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gadgets": gadgets})
}

func (h *Handler) createGadget(c *gin.Context) {
	var in service.GadgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	gadget, err := h.svc.Catalog.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gadget)
}

func (h *Handler) updateGadget(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.GadgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	gadget, err := h.svc.Catalog.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gadget)
}

func (h *Handler) deleteGadget(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleFeatured(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	featured, err := h.svc.Catalog.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_featured": featured})
}
