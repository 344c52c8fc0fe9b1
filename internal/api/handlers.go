package api

import (
	"log"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/safar/eyewear-store/internal/catalog"
	"github.com/safar/eyewear-store/internal/config"
	"github.com/safar/eyewear-store/internal/models"
	"github.com/safar/eyewear-store/internal/orders"
	"github.com/safar/eyewear-store/internal/store"
	"github.com/shopspring/decimal"
)

type Handler struct {
	cfg    *config.Config
	data   *store.DataService
	orders *orders.Service
	mock   *store.MockStore
	start  time.Time
}

func NewHandler(cfg *config.Config, data *store.DataService, orderSvc *orders.Service, mock *store.MockStore) *Handler {
	return &Handler{
		cfg:    cfg,
		data:   data,
		orders: orderSvc,
		mock:   mock,
		start:  time.Now(),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(h.start).Seconds(),
		"environment": h.cfg.Environment,
	})
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.data.ConnectionStatus(c.Request.Context()),
	})
}

type productQuery struct {
	Category  string   `form:"category"`
	MinPrice  *float64 `form:"minPrice"`
	MaxPrice  *float64 `form:"maxPrice"`
	InStock   *bool    `form:"inStock"`
	Search    string   `form:"search"`
	Limit     int      `form:"limit"`
	Offset    int      `form:"offset"`
	SortBy    string   `form:"sortBy,default=name"`
	SortOrder string   `form:"sortOrder,default=asc"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	products, err := h.data.GetProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	filter := catalog.Filter{
		Category: q.Category,
		InStock:  q.InStock,
		Search:   q.Search,
	}
	if q.MinPrice != nil {
		d := decimal.NewFromFloat(*q.MinPrice)
		filter.MinPrice = &d
	}
	if q.MaxPrice != nil {
		d := decimal.NewFromFloat(*q.MaxPrice)
		filter.MaxPrice = &d
	}
	sorting := catalog.Sorting{By: q.SortBy, Order: q.SortOrder}

	result := catalog.Query(products, filter, sorting, catalog.Page{Limit: q.Limit, Offset: q.Offset})

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Items,
		"pagination": gin.H{
			"total":   result.Total,
			"limit":   result.Limit,
			"offset":  result.Offset,
			"hasMore": result.HasMore,
		},
		"filters": gin.H{
			"category": q.Category,
			"minPrice": q.MinPrice,
			"maxPrice": q.MaxPrice,
			"inStock":  q.InStock,
			"search":   q.Search,
		},
		"sorting": gin.H{
			"sortBy":    q.SortBy,
			"sortOrder": q.SortOrder,
		},
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "product id must be a positive integer")
		return
	}

	product, err := h.data.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

func (h *Handler) ListCategories(c *gin.Context) {
	products, err := h.data.GetProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": catalog.Categories(products)})
}

func (h *Handler) SearchSuggestions(c *gin.Context) {
	q := c.Query("q")
	if utf8.RuneCountInString(q) < 2 {
		badRequest(c, "query must be at least 2 characters")
		return
	}
	products, err := h.data.GetProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": catalog.Suggestions(products, q)})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req orders.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	confirmation, err := h.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": confirmation})
}

func (h *Handler) ValidateStock(c *gin.Context) {
	var req struct {
		Items []models.StockRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.orders.ValidateStock(c.Request.Context(), req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// ResetData restores the mock catalog to its seeded state. Development only.
func (h *Handler) ResetData(c *gin.Context) {
	h.mock.ResetData()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "mock data reset to seed state"})
}

// SwitchStore forces a different backend for the process. Development only;
// no data migrates between backends.
func (h *Handler) SwitchStore(c *gin.Context) {
	var req struct {
		Store string `json:"store"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Store == "" {
		badRequest(c, "store name is required")
		return
	}

	backend, err := h.data.Switch(req.Store)
	if err != nil {
		h.respondError(c, err)
		return
	}
	log.Printf("active store switched to %s", backend.Name())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"activeStore": backend.Name(),
			"backends":    h.data.Backends(),
		},
	})
}
