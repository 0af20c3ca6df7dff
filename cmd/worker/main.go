// Package main is the entry point for the oddostock background worker.
// It relays outbox events and purges expired idempotency keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ravikhokle/oddostock/internal/config"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

const (
	cleanupInterval    = time.Hour
	publishedRetention = 7 * 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetDefault(log)

	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalw("worker requires the postgres storage driver", "driver", cfg.Storage.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	relay := postgres.NewOutboxRelay(backend.TxManager, cfg.Outbox.BatchSize, cfg.Outbox.MaxRetries,
		postgres.OutboxHandlerFunc(postgres.LogOutboxHandler))

	worker := &Worker{
		relay:       relay,
		idempotency: backend.Idempotency,
		interval:    cfg.Outbox.Interval,
		log:         log.WithComponent("worker"),
	}

	log.Infow("starting oddostock worker", "interval", cfg.Outbox.Interval, "batch_size", cfg.Outbox.BatchSize)
	worker.Run(ctx)
	log.Info("worker stopped")
}

// Worker drives the outbox relay and periodic cleanup.
type Worker struct {
	relay       *postgres.OutboxRelay
	idempotency *postgres.IdempotencyStore
	interval    time.Duration
	log         *logger.Logger
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainOutbox(ctx)
		case <-cleanupTicker.C:
			w.cleanup(ctx)
		}
	}
}

// drainOutbox processes full batches back to back until the queue is short.
func (w *Worker) drainOutbox(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.relay.ProcessBatch(ctx)
		if err != nil {
			w.log.Errorw("outbox batch failed", "error", err)
			return
		}
		if n > 0 {
			w.log.Debugw("relayed outbox batch", "count", n)
		}
		if n == 0 {
			return
		}
	}
}

func (w *Worker) cleanup(ctx context.Context) {
	if moved, err := w.relay.MoveToDLQ(ctx); err != nil {
		w.log.Errorw("move failed outbox messages", "error", err)
	} else if moved > 0 {
		w.log.Warnw("moved failed outbox messages to dead letter table", "count", moved)
	}

	if purged, err := w.relay.PurgePublished(ctx, publishedRetention); err != nil {
		w.log.Errorw("purge published outbox messages", "error", err)
	} else if purged > 0 {
		w.log.Infow("purged published outbox messages", "count", purged)
	}

	if removed, err := w.idempotency.CleanupExpired(ctx); err != nil {
		w.log.Errorw("cleanup idempotency keys", "error", err)
	} else if removed > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", removed)
	}
}
