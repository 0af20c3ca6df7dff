package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Validate(c *gin.Context)
	Cancel(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// DELETE is a soft delete restricted to managers.
//
// Usage:
//
//	handler := handlers.NewWarehouseHandler(baseHandler, services.Warehouses)
//	RegisterCatalogRoutes(rg.Group("/warehouses"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", middleware.RequireRole(RoleAdmin, RoleManager), handler.Delete)
}

// RegisterDocumentRoutes registers standard CRUD + lifecycle routes for a document kind.
//
// Usage:
//
//	handler := handlers.NewReceiptHandler(baseHandler, services.Receipts)
//	RegisterDocumentRoutes(rg.Group("/receipts"), handler)
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.POST("/:id/validate", handler.Validate)
	group.POST("/:id/cancel", handler.Cancel)
}
