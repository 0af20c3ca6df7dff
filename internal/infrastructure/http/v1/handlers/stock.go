package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// StockHandler serves current stock levels and projections.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetLevel handles GET /stock/level?productId=&warehouseId=&locationId=
func (h *StockHandler) GetLevel(c *gin.Context) {
	var q dto.StockLevelQuery
	if !h.BindQuery(c, &q) {
		return
	}

	productID := dto.ParseID(q.ProductID)
	warehouseID := dto.ParseOptionalID(&q.WarehouseID)
	locationID := dto.ParseOptionalID(&q.LocationID)

	qty, err := h.service.GetStockLevel(c.Request.Context(), productID, warehouseID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.StockLevelResponse{ProductID: productID.String(), Quantity: qty}
	if warehouseID != nil {
		resp.WarehouseID = &q.WarehouseID
	}
	if locationID != nil {
		resp.LocationID = &q.LocationID
	}
	h.OK(c, resp)
}

// ProductBreakdown handles GET /stock/products/:id - balances per warehouse and location.
func (h *StockHandler) ProductBreakdown(c *gin.Context) {
	productID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	h.balances(c, func() ([]entity.StockBalance, error) {
		return h.service.Breakdown(c.Request.Context(), productID)
	})
}

// WarehouseStock handles GET /stock/warehouses/:id
func (h *StockHandler) WarehouseStock(c *gin.Context) {
	warehouseID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	h.balances(c, func() ([]entity.StockBalance, error) {
		return h.service.WarehouseStock(c.Request.Context(), warehouseID)
	})
}

func (h *StockHandler) balances(c *gin.Context, load func() ([]entity.StockBalance, error)) {
	items, err := load()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(items))
}

// Levels handles GET /stock/levels - every active product with its total.
func (h *StockHandler) Levels(c *gin.Context) {
	h.projection(c, h.service.Levels)
}

// LowStock handles GET /stock/low - products at or below their reorder level.
func (h *StockHandler) LowStock(c *gin.Context) {
	h.projection(c, h.service.LowStock)
}

// OutOfStock handles GET /stock/out-of-stock
func (h *StockHandler) OutOfStock(c *gin.Context) {
	h.projection(c, h.service.OutOfStock)
}

func (h *StockHandler) projection(c *gin.Context, load func(ctx context.Context) ([]stock.ProductStock, error)) {
	items, err := load(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(dto.FromProductStocks(items)))
}

// Value handles GET /stock/value
func (h *StockHandler) Value(c *gin.Context) {
	value, err := h.service.StockValue(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockValueResponse{Value: value})
}
