// Package storage opens the configured storage backend and exposes it as app repositories.
package storage

import (
	"context"
	"fmt"

	"github.com/ravikhokle/oddostock/internal/app"
	"github.com/ravikhokle/oddostock/internal/config"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
	"github.com/ravikhokle/oddostock/internal/domain/events"
	"github.com/ravikhokle/oddostock/internal/infrastructure/numerator"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/memory"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres/document_repo"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres/register_repo"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

// AuditHistory reads back audit records, newest first.
type AuditHistory interface {
	History(ctx context.Context, entityID id.ID, limit int) ([]audit.Record, error)
}

// Backend is an opened storage backend.
type Backend struct {
	Driver string
	Repos  app.Repositories

	// Bus receives every committed event in-process.
	Bus *events.Bus

	// Publisher is handed to app.New: the bus, plus the outbox on postgres.
	Publisher events.Publisher

	Audit AuditHistory

	// Postgres only; nil for the memory driver.
	Pool        *postgres.Pool
	TxManager   *postgres.TxManager
	Idempotency *postgres.IdempotencyStore

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return openMemory(ctx), nil
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// OpenMemory returns a fresh in-memory backend.
func OpenMemory() *Backend {
	return openMemory(context.Background())
}

func openMemory(ctx context.Context) *Backend {
	store := memory.NewStore()
	bus := events.NewBus()
	bus.Subscribe(events.LogHandler)

	logger.Warn(ctx, "using in-memory storage; data is lost on restart")

	return &Backend{
		Driver:    config.DriverMemory,
		Repos:     store.Repositories(),
		Bus:       bus,
		Publisher: bus,
		Audit:     store.Audit,
		ping:      store.Ping,
		close:     func() {},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}
	if cfg.App.Name != "" {
		poolCfg.ApplicationName = cfg.App.Name
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	txm := postgres.NewTxManager(pool)

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, txm); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit service: %w", err)
	}

	bus := events.NewBus()

	return &Backend{
		Driver: config.DriverPostgres,
		Repos: app.Repositories{
			TxManager:   txm,
			Products:    catalog_repo.NewProductRepo(txm),
			Warehouses:  catalog_repo.NewWarehouseRepo(txm),
			Locations:   catalog_repo.NewLocationRepo(txm),
			Ledger:      register_repo.NewStockRepo(txm),
			Receipts:    document_repo.NewReceiptRepo(txm),
			Deliveries:  document_repo.NewDeliveryRepo(txm),
			Transfers:   document_repo.NewTransferRepo(txm),
			Adjustments: document_repo.NewAdjustmentRepo(txm),
			Numbers:     numerator.New(pool.Pool),
			Audit:       auditSvc,
		},
		Bus:         bus,
		Publisher:   events.Multi{postgres.NewOutboxPublisher(txm), bus},
		Audit:       auditSvc,
		Pool:        pool,
		TxManager:   txm,
		Idempotency: postgres.NewIdempotencyStore(txm, 0),
		ping:        pool.Ping,
		close:       pool.Close,
	}, nil
}

// Ping reports whether the backend can serve requests.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases connections.
func (b *Backend) Close() {
	b.close()
}
