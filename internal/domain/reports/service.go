// Package reports provides read-only summaries across catalogs, documents and the ledger.
package reports

import (
	"context"
	"fmt"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
)

// DocumentCounter counts documents of one kind by status.
type DocumentCounter interface {
	Count(ctx context.Context, statuses ...entity.DocumentStatus) (int64, error)
}

// Dashboard holds the headline inventory KPIs.
type Dashboard struct {
	ActiveProducts     int         `json:"activeProducts"`
	LowStock           int         `json:"lowStock"`
	OutOfStock         int         `json:"outOfStock"`
	PendingReceipts    int64       `json:"pendingReceipts"`
	PendingDeliveries  int64       `json:"pendingDeliveries"`
	ScheduledTransfers int64       `json:"scheduledTransfers"`
	StockValue         types.Money `json:"stockValue"`
}

// Service provides report generation operations.
type Service struct {
	stock      *stock.Service
	receipts   DocumentCounter
	deliveries DocumentCounter
	transfers  DocumentCounter
}

// NewService creates a new reports service.
func NewService(stockSvc *stock.Service, receipts, deliveries, transfers DocumentCounter) *Service {
	return &Service{
		stock:      stockSvc,
		receipts:   receipts,
		deliveries: deliveries,
		transfers:  transfers,
	}
}

// GetDashboard computes the KPIs from current data.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	levels, err := s.stock.Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}

	d := &Dashboard{
		ActiveProducts: len(levels),
		StockValue:     types.ZeroMoney(),
	}
	for _, l := range levels {
		if l.LowStock {
			d.LowStock++
		}
		if l.OutOfStock {
			d.OutOfStock++
		}
		if l.Total.IsPositive() {
			d.StockValue = d.StockValue.Add(l.Total.MulMoney(l.Product.Cost))
		}
	}

	if d.PendingReceipts, err = s.receipts.Count(ctx, entity.StatusDraft); err != nil {
		return nil, fmt.Errorf("count receipts: %w", err)
	}
	if d.PendingDeliveries, err = s.deliveries.Count(ctx, delivery.PendingStatuses...); err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	if d.ScheduledTransfers, err = s.transfers.Count(ctx, transfer.ScheduledStatuses...); err != nil {
		return nil, fmt.Errorf("count transfers: %w", err)
	}

	return d, nil
}
