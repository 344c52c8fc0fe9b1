// Package api wires the HTTP surface: routing, request binding and the
// mapping from pipeline errors to response codes.
package api

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler) *gin.Engine {
	if !h.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", h.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", h.Status)

		products := apiGroup.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.GET("/categories/list", h.ListCategories)
			products.GET("/search/suggestions", h.SearchSuggestions)
		}

		ordersGroup := apiGroup.Group("/orders")
		{
			ordersGroup.POST("", h.PlaceOrder)
			ordersGroup.POST("/validate-stock", h.ValidateStock)
		}

		if h.cfg.IsDevelopment() {
			dev := apiGroup.Group("/dev")
			dev.POST("/reset", h.ResetData)
			dev.POST("/switch-store", h.SwitchStore)
		}
	}

	return r
}
