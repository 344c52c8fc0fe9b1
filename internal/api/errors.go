package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/eyewear-store/internal/orders"
	"github.com/safar/eyewear-store/internal/store"
)

// respondError maps pipeline and store failures onto the uniform error
// shape: 400 validation/stock, 404 not found, 503 upstream unavailable,
// 500 everything else. Internal detail is redacted outside development.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *orders.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"message": "one or more fields are invalid",
			"details": verr.Fields,
		})
		return
	}

	var serr *orders.StockError
	if errors.As(err, &serr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Insufficient stock",
			"message":   serr.Error(),
			"errors":    serr.Result.Errors,
			"stockInfo": serr.Result.StockInfo,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "product not found",
		})
	case errors.Is(err, store.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "order not found",
		})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Insufficient stock",
			"message": err.Error(),
		})
	case errors.Is(err, store.ErrUnknownStore):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": err.Error(),
		})
	case errors.Is(err, store.ErrUpstreamUnavailable):
		log.Printf("upstream error: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Data source unavailable",
			"message": h.redact(err, "the data source is temporarily unavailable"),
		})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": h.redact(err, "an unexpected error occurred"),
		})
	}
}

func (h *Handler) redact(err error, fallback string) string {
	if h.cfg.IsDevelopment() {
		return err.Error()
	}
	return fallback
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"message": message,
	})
}
