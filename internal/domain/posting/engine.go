package posting

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

// Postable is a document that can move stock.
type Postable interface {
	GetID() id.ID
	GetNumber() string
	GetDocumentType() string

	// CanPost returns AlreadyValidated or InvalidStateTransition when validation is not allowed.
	CanPost() error

	// GenerateMovements returns the movements in line order.
	GenerateMovements(ctx context.Context) (*MovementSet, error)

	// MarkPosted flips the document to done.
	MarkPosted(userID id.ID, at time.Time)
}

// Result is what a successful posting wrote.
type Result struct {
	Entries  []entity.LedgerEntry
	Balances []entity.StockBalance
}

// Engine posts documents to the stock ledger.
type Engine struct {
	repo      stock.Repository
	txManager tx.Manager
	tracer    trace.Tracer
	now       func() time.Time
}

// NewEngine creates a posting engine.
func NewEngine(repo stock.Repository, txManager tx.Manager) *Engine {
	return &Engine{
		repo:      repo,
		txManager: txManager,
		tracer:    otel.Tracer("oddostock/posting"),
		now:       time.Now,
	}
}

// Post writes the ledger entries of doc and marks it done, all in one transaction.
// The caller is expected to hold the document row lock (the transaction is joined when ctx carries one).
//
// Movements are applied in line order against balances locked for the whole transaction, so a
// line sees the balance left by earlier lines of the same document. Any shortage on a delivery
// or transfer-out aborts everything.
func (e *Engine) Post(ctx context.Context, doc Postable, userID id.ID) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "posting.Post", trace.WithAttributes(
		attribute.String("document.type", doc.GetDocumentType()),
		attribute.String("document.id", doc.GetID().String()),
		attribute.String("document.number", doc.GetNumber()),
	))
	defer span.End()

	if err := doc.CanPost(); err != nil {
		return nil, err
	}

	set, err := doc.GenerateMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate movements: %w", err)
	}

	var result *Result
	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = e.apply(ctx, doc, set, userID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("ledger.entries", len(result.Entries)))
	logger.Info(ctx, "document posted",
		"document_type", doc.GetDocumentType(),
		"number", doc.GetNumber(),
		"entries", len(result.Entries),
	)
	return result, nil
}

func (e *Engine) apply(ctx context.Context, doc Postable, set *MovementSet, userID id.ID) (*Result, error) {
	now := e.now().UTC()
	result := &Result{}

	if !set.IsEmpty() {
		keys := set.Keys()
		current, err := e.repo.LockBalances(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("lock balances: %w", err)
		}

		staged := make(map[entity.StockKey]types.Quantity, len(keys))
		for _, k := range keys {
			staged[k] = current[k]
		}

		for _, m := range set.Movements() {
			prev := staged[m.StockKey]
			if m.Type.RequiresStock() && m.Quantity.IsNegative() && prev < m.Quantity.Neg() {
				return nil, apperror.NewInsufficientStock(m.ProductID.String(), m.Quantity.Neg().String(), prev.String()).
					WithDetail("warehouse_id", m.WarehouseID.String()).
					WithDetail("location_id", m.LocationID.String()).
					WithDetail("lineNo", m.LineNo)
			}
			next := prev + m.Quantity
			staged[m.StockKey] = next

			result.Entries = append(result.Entries, entity.LedgerEntry{
				ID:              id.New(),
				StockKey:        m.StockKey,
				Quantity:        m.Quantity,
				RunningBalance:  next,
				TransactionType: m.Type,
				ReferenceType:   doc.GetDocumentType(),
				ReferenceID:     doc.GetID(),
				ReferenceNumber: doc.GetNumber(),
				UserID:          userID,
				Note:            m.Note,
				CreatedAt:       now,
			})
		}

		if err := e.repo.AppendEntries(ctx, result.Entries); err != nil {
			return nil, fmt.Errorf("append ledger entries: %w", err)
		}

		result.Balances = make([]entity.StockBalance, 0, len(keys))
		for _, k := range keys {
			result.Balances = append(result.Balances, entity.StockBalance{
				StockKey:  k,
				Quantity:  staged[k],
				UpdatedAt: now,
			})
		}
		if err := e.repo.SaveBalances(ctx, result.Balances); err != nil {
			return nil, fmt.Errorf("save balances: %w", err)
		}
	}

	doc.MarkPosted(userID, now)
	return result, nil
}
