package documents

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/numerator"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/events"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

// ProductLookup loads products referenced by lines.
type ProductLookup interface {
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error)
}

// PlaceResolver checks that a location exists, is active and belongs to the warehouse.
type PlaceResolver interface {
	Resolve(ctx context.Context, warehouseID, locationID id.ID) (*location.Location, error)
}

// Deps are the collaborators shared by all document kinds.
type Deps struct {
	TxManager tx.Manager
	Engine    *posting.Engine
	Sequencer *numerator.Sequencer
	Products  ProductLookup
	Places    PlaceResolver
	Publisher events.Publisher
	Audit     audit.Recorder
}

// Config wires a Service.
type Config[T Document] struct {
	Deps

	DocumentType string
	Numbering    numerator.Config
	Repo         Repository[T]
}

// Service runs the create/update/cancel/validate lifecycle of one document kind.
// Kind packages embed it and add their own transitions through Transition.
type Service[T Document] struct {
	docType   string
	numbering numerator.Config
	repo      Repository[T]
	txManager tx.Manager
	engine    *posting.Engine
	sequencer *numerator.Sequencer
	products  ProductLookup
	places    PlaceResolver
	publisher events.Publisher
	audit     audit.Recorder
	tracer    trace.Tracer
}

func NewService[T Document](cfg Config[T]) *Service[T] {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NewBus()
	}
	recorder := cfg.Audit
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service[T]{
		docType:   cfg.DocumentType,
		numbering: cfg.Numbering,
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		engine:    cfg.Engine,
		sequencer: cfg.Sequencer,
		products:  cfg.Products,
		places:    cfg.Places,
		publisher: publisher,
		audit:     recorder,
		tracer:    otel.Tracer("oddostock/documents"),
	}
}

// DocumentType returns the kind served, e.g. "receipt".
func (s *Service[T]) DocumentType() string { return s.docType }

// Create validates a new draft, assigns its number and stores it.
func (s *Service[T]) Create(ctx context.Context, doc T) error {
	if err := s.validate(ctx, doc); err != nil {
		return err
	}

	// Numbers are drawn outside the transaction: a failed counter must not abort the insert.
	doc.SetNumber(s.sequencer.Next(ctx, s.numbering))

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", s.docType, err)
		}
		return s.record(ctx, doc, audit.ActionCreate, appctx.GetUserID(ctx))
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, s.documentEvent(events.DocumentCreated, doc, appctx.GetUserID(ctx)))
	logger.Info(ctx, s.docType+" created", "id", doc.GetID(), "number", doc.GetNumber())
	return nil
}

// Get retrieves a document with its lines.
func (s *Service[T]) Get(ctx context.Context, docID id.ID) (T, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return doc, s.normalizeGetErr(err, docID)
	}
	return doc, nil
}

// List retrieves documents with filtering.
func (s *Service[T]) List(ctx context.Context, filter ListFilter) (domain.ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Count returns the number of documents in the given statuses.
func (s *Service[T]) Count(ctx context.Context, statuses ...entity.DocumentStatus) (int64, error) {
	return s.repo.Count(ctx, statuses...)
}

// Update applies edit to a draft (or in-progress) document and stores it.
// Done and cancelled documents yield InvalidStateTransition. The ledger is never touched.
func (s *Service[T]) Update(ctx context.Context, docID id.ID, edit func(doc T) error) (T, error) {
	return s.mutate(ctx, docID, audit.ActionUpdate, func(ctx context.Context, doc T) error {
		if err := doc.CanModify(); err != nil {
			return err
		}
		if err := edit(doc); err != nil {
			return err
		}
		return s.validate(ctx, doc)
	})
}

// Transition runs a kind-specific status change (pick, pack, dispatch) under the row lock.
// step must check the current status itself.
func (s *Service[T]) Transition(ctx context.Context, docID id.ID, operation string, step func(doc T) error) (T, error) {
	doc, err := s.mutate(ctx, docID, audit.Action(operation), func(ctx context.Context, doc T) error {
		if err := step(doc); err != nil {
			return err
		}
		if err := doc.Validate(ctx); err != nil {
			return normalizeValidationErr(err)
		}
		return nil
	})
	if err != nil {
		return doc, err
	}
	logger.Info(ctx, s.docType+" "+operation, "id", docID, "number", doc.GetNumber(), "status", doc.GetStatus())
	return doc, nil
}

// Cancel moves the document to cancelled. Done documents yield InvalidStateTransition;
// an already cancelled document is returned as is, without a write or an event.
func (s *Service[T]) Cancel(ctx context.Context, docID id.ID) (T, error) {
	unchanged := false
	doc, err := s.mutate(ctx, docID, audit.ActionCancel, func(_ context.Context, doc T) error {
		if doc.GetStatus() == entity.StatusCancelled {
			unchanged = true
			return errUnchanged
		}
		return doc.Cancel()
	})
	if err != nil || unchanged {
		return doc, err
	}

	s.publisher.Publish(ctx, s.documentEvent(events.DocumentCancelled, doc, appctx.GetUserID(ctx)))
	logger.Info(ctx, s.docType+" cancelled", "id", docID, "number", doc.GetNumber())
	return doc, nil
}

// Validate posts the document to the ledger and flips it to done, exactly once.
//
// Errors come in this order: NotFound, AlreadyValidated (or InvalidStateTransition when cancelled),
// then InsufficientStock. On any error nothing is written and the document is unchanged.
func (s *Service[T]) Validate(ctx context.Context, docID id.ID, userID id.ID) (T, error) {
	ctx, span := s.tracer.Start(ctx, "documents.Validate", trace.WithAttributes(
		attribute.String("document.type", s.docType),
		attribute.String("document.id", docID.String()),
	))
	defer span.End()

	var (
		doc    T
		result *posting.Result
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return s.normalizeGetErr(err, docID)
		}

		result, err = s.engine.Post(ctx, doc, userID)
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", s.docType, err)
		}
		return s.record(ctx, doc, audit.ActionValidate, userID)
	})
	if err != nil {
		span.RecordError(err)
		var zero T
		return zero, err
	}

	published := make([]events.Event, 0, len(result.Balances)+1)
	published = append(published, s.documentEvent(events.DocumentValidated, doc, userID))
	for _, b := range result.Balances {
		published = append(published, events.NewStockUpdated(b, doc.GetID(), doc.GetNumber()))
	}
	s.publisher.Publish(ctx, published...)

	logger.Info(ctx, s.docType+" validated",
		"id", docID,
		"number", doc.GetNumber(),
		"entries", len(result.Entries),
		"validated_by", userID,
	)
	return doc, nil
}

// mutate loads the document under a row lock, applies fn and stores the result in one transaction.
// errUnchanged lets a mutation step finish without writing.
var errUnchanged = errors.New("document unchanged")

func (s *Service[T]) mutate(ctx context.Context, docID id.ID, action audit.Action, fn func(ctx context.Context, doc T) error) (T, error) {
	var doc T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return s.normalizeGetErr(err, docID)
		}
		if err := fn(ctx, doc); err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}
			return err
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", s.docType, err)
		}
		return s.record(ctx, doc, action, appctx.GetUserID(ctx))
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

// validate runs self-validation and checks every referenced catalog row.
func (s *Service[T]) validate(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return normalizeValidationErr(err)
	}

	refs := doc.References()

	for _, p := range refs.Places {
		loc, err := s.places.Resolve(ctx, p.WarehouseID, p.LocationID)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeValidation {
				return appErr.WithDetail("field", p.FieldName("locationId"))
			}
			return fmt.Errorf("resolve %s location: %w", p.Field, err)
		}
		if namer, ok := any(doc).(PlaceNamer); ok {
			namer.SetPlaceName(p.Field, loc.Name)
		}
	}

	if len(refs.Products) == 0 {
		return nil
	}
	ids := make([]id.ID, 0, len(refs.Products))
	for _, lp := range refs.Products {
		ids = append(ids, lp.ProductID)
	}
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	for _, lp := range refs.Products {
		p, ok := products[lp.ProductID]
		if !ok {
			return LineError("product not found", lp.LineNo, "productId").
				WithDetail("value", lp.ProductID.String())
		}
		if !p.IsActive() {
			return LineError("product is inactive", lp.LineNo, "productId").
				WithDetail("value", lp.ProductID.String())
		}
	}
	return nil
}

func (s *Service[T]) record(ctx context.Context, doc T, action audit.Action, userID id.ID) error {
	err := s.audit.Record(ctx, audit.Record{
		EntityType: s.docType,
		EntityID:   doc.GetID(),
		Action:     action,
		UserID:     userID,
		Snapshot:   doc,
	})
	if err != nil {
		return fmt.Errorf("audit %s %s: %w", action, s.docType, err)
	}
	return nil
}

func (s *Service[T]) documentEvent(t events.Type, doc T, userID id.ID) events.Event {
	return events.NewDocumentEvent(t, s.docType, doc.GetID(), doc.GetNumber(), doc.GetStatus(), userID)
}

func (s *Service[T]) normalizeGetErr(err error, docID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.docType, docID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.docType).WithDetail("id", docID.String())
}

func normalizeValidationErr(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}
