package api

import (
	"errors"
	"net/http"
	"strconv"

	"gadget-rental/internal/rental"
	"gadget-rental/internal/service"
	"gadget-rental/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorTitles = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusUnauthorized:        "Authentication required",
	http.StatusForbidden:           "Access denied",
	http.StatusNotFound:            "Not found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Action not allowed",
	http.StatusInternalServerError: "Internal server error",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, rental.ErrInvalidTransition),
		errors.Is(err, rental.ErrDepositNotRefundable),
		errors.Is(err, rental.ErrNotPayable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error onto a status and the
// {"error", "details"} body. Internal errors are logged, not echoed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": errorTitles[status]}
	if status == http.StatusInternalServerError {
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	} else {
		body["details"] = err.Error()
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// idParam parses a numeric path parameter, answering 400 when it is not one
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}
