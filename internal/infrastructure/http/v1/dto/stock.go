package dto

import (
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
)

// StockLevelQuery selects the scope of a stock level.
type StockLevelQuery struct {
	ProductID   string `form:"productId" binding:"required,uuid"`
	WarehouseID string `form:"warehouseId" binding:"omitempty,uuid"`
	LocationID  string `form:"locationId" binding:"omitempty,uuid"`
}

// StockLevelResponse is the quantity of a product in the requested scope.
type StockLevelResponse struct {
	ProductID   string         `json:"productId"`
	WarehouseID *string        `json:"warehouseId,omitempty"`
	LocationID  *string        `json:"locationId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
}

// ProductStockResponse is a product with its total and reorder flags.
type ProductStockResponse struct {
	Product    *ProductResponse `json:"product"`
	Total      types.Quantity   `json:"total"`
	LowStock   bool             `json:"lowStock"`
	OutOfStock bool             `json:"outOfStock"`
}

// FromProductStocks converts a stock projection.
func FromProductStocks(items []stock.ProductStock) []ProductStockResponse {
	out := make([]ProductStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ProductStockResponse{
			Product:    FromProduct(it.Product),
			Total:      it.Total,
			LowStock:   it.LowStock,
			OutOfStock: it.OutOfStock,
		})
	}
	return out
}

// StockValueResponse is Σ total × cost over active products.
type StockValueResponse struct {
	Value types.Money `json:"value"`
}

// HistoryQuery filters ledger history.
type HistoryQuery struct {
	ProductID       string     `form:"productId" binding:"omitempty,uuid"`
	WarehouseID     string     `form:"warehouseId" binding:"omitempty,uuid"`
	LocationID      string     `form:"locationId" binding:"omitempty,uuid"`
	ReferenceID     string     `form:"referenceId" binding:"omitempty,uuid"`
	TransactionType string     `form:"type"`
	From            *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To              *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit           int        `form:"limit" binding:"omitempty,min=1"`
}

// ToFilter converts the query to a ledger filter. The service applies the default limit.
func (q *HistoryQuery) ToFilter() stock.HistoryFilter {
	f := stock.HistoryFilter{
		ProductID:   optionalQueryID(q.ProductID),
		WarehouseID: optionalQueryID(q.WarehouseID),
		LocationID:  optionalQueryID(q.LocationID),
		ReferenceID: optionalQueryID(q.ReferenceID),
		From:        q.From,
		To:          q.To,
		Limit:       q.Limit,
	}
	if q.TransactionType != "" {
		t := entity.TransactionType(q.TransactionType)
		f.TransactionType = &t
	}
	return f
}

func optionalQueryID(s string) *id.ID {
	if s == "" {
		return nil
	}
	return ParseOptionalID(&s)
}
