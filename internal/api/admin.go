package api

import (
	"net/http"

	"gadget-rental/internal/report"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.svc.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) listCustomers(c *gin.Context) {
	users, err := h.svc.Accounts.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) verifyUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Accounts.VerifyUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deactivateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Accounts.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sendCartReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	sent, err := h.svc.Cart.SendReminder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

func (h *Handler) dailyRevenueReport(c *gin.Context) {
	rows, err := h.svc.Admin.DailyRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeReport(c, rows, func() *report.Table { return report.DailyRevenueTable(rows) })
}

func (h *Handler) mostRentedReport(c *gin.Context) {
	rows, err := h.svc.Admin.MostRented(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeReport(c, rows, func() *report.Table { return report.MostRentedTable(rows) })
}

func (h *Handler) userActivityReport(c *gin.Context) {
	rows, err := h.svc.Admin.UserActivity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeReport(c, rows, func() *report.Table { return report.UserActivityTable(rows) })
}

// writeReport answers with JSON rows, or a CSV/PDF attachment per ?format=
func (h *Handler) writeReport(c *gin.Context, rows interface{}, table func() *report.Table) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format", "details": err.Error()})
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case report.FormatJSON:
		c.JSON(http.StatusOK, gin.H{"rows": rows})
		return
	case report.FormatCSV:
		t := table()
		body, err = t.WriteCSV()
		contentType = "text/csv"
		c.Header("Content-Disposition", "attachment; filename="+t.Filename+".csv")
	case report.FormatPDF:
		t := table()
		body, err = t.RenderPDF(h.now())
		contentType = "application/pdf"
		c.Header("Content-Disposition", "attachment; filename="+t.Filename+".pdf")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}
