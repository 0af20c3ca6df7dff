// Package app assembles the domain services on top of a storage backend.
package app

import (
	"github.com/ravikhokle/oddostock/internal/core/numerator"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
	"github.com/ravikhokle/oddostock/internal/domain/events"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/internal/domain/reports"
)

// Repositories is what a storage backend provides.
type Repositories struct {
	TxManager   tx.Manager
	Products    product.Repository
	Warehouses  warehouse.Repository
	Locations   location.Repository
	Ledger      stock.Repository
	Receipts    receipt.Repository
	Deliveries  delivery.Repository
	Transfers   transfer.Repository
	Adjustments adjustment.Repository
	Numbers     numerator.Generator
	Audit       audit.Recorder
}

// Services are the domain services exposed to transports.
type Services struct {
	Products    *product.Service
	Warehouses  *warehouse.Service
	Locations   *location.Service
	Stock       *stock.Service
	Reports     *reports.Service
	Receipts    *receipt.Service
	Deliveries  *delivery.Service
	Transfers   *transfer.Service
	Adjustments *adjustment.Service
	Engine      *posting.Engine
}

// New wires services. publisher receives events after commit.
func New(repos Repositories, publisher events.Publisher) *Services {
	products := product.NewService(repos.Products, repos.TxManager)
	warehouses := warehouse.NewService(repos.Warehouses, repos.TxManager)
	locations := location.NewService(repos.Locations, repos.Warehouses, repos.TxManager)
	stockSvc := stock.NewService(repos.Ledger, repos.Products)
	engine := posting.NewEngine(repos.Ledger, repos.TxManager)

	deps := documents.Deps{
		TxManager: repos.TxManager,
		Engine:    engine,
		Sequencer: numerator.NewSequencer(repos.Numbers),
		Products:  repos.Products,
		Places:    locations,
		Publisher: publisher,
		Audit:     repos.Audit,
	}

	receipts := receipt.NewService(repos.Receipts, deps)
	deliveries := delivery.NewService(repos.Deliveries, deps)
	transfers := transfer.NewService(repos.Transfers, deps)

	return &Services{
		Products:    products,
		Warehouses:  warehouses,
		Locations:   locations,
		Stock:       stockSvc,
		Reports:     reports.NewService(stockSvc, receipts, deliveries, transfers),
		Receipts:    receipts,
		Deliveries:  deliveries,
		Transfers:   transfers,
		Adjustments: adjustment.NewService(repos.Adjustments, deps),
		Engine:      engine,
	}
}
