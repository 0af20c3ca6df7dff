package memory

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/app"
	"github.com/ravikhokle/oddostock/internal/core/numerator"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
)

// Store bundles every in-memory repository around one transaction manager.
type Store struct {
	TxManager   *TxManager
	Products    *ProductRepo
	Warehouses  *WarehouseRepo
	Locations   *LocationRepo
	Ledger      *LedgerRepo
	Receipts    receipt.Repository
	Deliveries  delivery.Repository
	Transfers   transfer.Repository
	Adjustments adjustment.Repository
	Numbers     *numerator.MemoryGenerator
	Audit       *AuditRecorder
}

func NewStore() *Store {
	txm := NewTxManager()
	return &Store{
		TxManager:   txm,
		Products:    NewProductRepo(),
		Warehouses:  NewWarehouseRepo(),
		Locations:   NewLocationRepo(),
		Ledger:      NewLedgerRepo(txm),
		Receipts:    NewReceiptRepo(txm),
		Deliveries:  NewDeliveryRepo(txm),
		Transfers:   NewTransferRepo(txm),
		Adjustments: NewAdjustmentRepo(txm),
		Numbers:     numerator.NewMemoryGenerator(),
		Audit:       NewAuditRecorder(),
	}
}

// Ping always succeeds; it lets the store serve readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// Repositories exposes the store to app.New.
func (s *Store) Repositories() app.Repositories {
	return app.Repositories{
		TxManager:   s.TxManager,
		Products:    s.Products,
		Warehouses:  s.Warehouses,
		Locations:   s.Locations,
		Ledger:      s.Ledger,
		Receipts:    s.Receipts,
		Deliveries:  s.Deliveries,
		Transfers:   s.Transfers,
		Adjustments: s.Adjustments,
		Numbers:     s.Numbers,
		Audit:       s.Audit,
	}
}
