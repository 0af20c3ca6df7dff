package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
)

type cloneableDocument[T any] interface {
	documents.Document
	Clone() T
}

// documentStore is the generic in-memory document repository.
// warehouses returns the warehouse ids a document touches, for ListFilter.WarehouseID.
type documentStore[T cloneableDocument[T]] struct {
	mu         sync.RWMutex
	rows       map[id.ID]T
	docType    string
	txm        *TxManager
	warehouses func(T) []id.ID
	createdAt  func(T) time.Time
}

func newDocumentStore[T cloneableDocument[T]](docType string, txm *TxManager, warehouses func(T) []id.ID, createdAt func(T) time.Time) *documentStore[T] {
	return &documentStore[T]{
		rows:       make(map[id.ID]T),
		docType:    docType,
		txm:        txm,
		warehouses: warehouses,
		createdAt:  createdAt,
	}
}

func (s *documentStore[T]) Create(ctx context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.GetNumber() == doc.GetNumber() {
			return apperror.NewDuplicate(s.docType, "number", doc.GetNumber())
		}
	}
	s.rows[doc.GetID()] = doc.Clone()

	key := doc.GetID()
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.rows, key)
		s.mu.Unlock()
	})
	return nil
}

func (s *documentStore[T]) GetByID(_ context.Context, docID id.ID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[docID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(s.docType, docID.String())
	}
	return row.Clone(), nil
}

// GetForUpdate locks the document for the rest of the transaction, then reads it.
func (s *documentStore[T]) GetForUpdate(ctx context.Context, docID id.ID) (T, error) {
	if err := s.txm.Lock(ctx, "doc:"+docID.String()); err != nil {
		var zero T
		return zero, err
	}
	return s.GetByID(ctx, docID)
}

func (s *documentStore[T]) Update(ctx context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rows[doc.GetID()]
	if !ok {
		return apperror.NewNotFound(s.docType, doc.GetID().String())
	}
	if prev.GetVersion() != doc.GetVersion() {
		return apperror.NewConcurrentModification(s.docType, doc.GetID().String())
	}

	doc.SetVersion(prev.GetVersion() + 1)
	if ts, ok := any(doc).(timestamped); ok {
		ts.SetUpdatedAt(time.Now().UTC())
	}
	s.rows[doc.GetID()] = doc.Clone()

	onRollback(ctx, func() {
		s.mu.Lock()
		s.rows[prev.GetID()] = prev
		s.mu.Unlock()
	})
	return nil
}

func (s *documentStore[T]) List(_ context.Context, filter documents.ListFilter) (domain.ListResult[T], error) {
	s.mu.RLock()
	items := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if !s.matches(row, filter) {
			continue
		}
		items = append(items, row.Clone())
	}
	s.mu.RUnlock()

	asc := filter.OrderBy != "" && !strings.HasPrefix(filter.OrderBy, "-")
	sort.SliceStable(items, func(i, j int) bool {
		a, b := s.createdAt(items[i]), s.createdAt(items[j])
		if a.Equal(b) {
			return items[i].GetNumber() > items[j].GetNumber() != asc
		}
		return a.After(b) != asc
	})

	return paginate(items, filter.Limit, filter.Offset), nil
}

func (s *documentStore[T]) matches(row T, filter documents.ListFilter) bool {
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, row.GetStatus()) {
		return false
	}
	if filter.WarehouseID != nil && !containsID(s.warehouses(row), *filter.WarehouseID) {
		return false
	}
	if len(filter.IDs) > 0 && !containsID(filter.IDs, row.GetID()) {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(row.GetNumber()), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

func (s *documentStore[T]) Count(_ context.Context, statuses ...entity.DocumentStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, row := range s.rows {
		if len(statuses) == 0 || containsStatus(statuses, row.GetStatus()) {
			n++
		}
	}
	return n, nil
}

func containsStatus(statuses []entity.DocumentStatus, v entity.DocumentStatus) bool {
	for _, s := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// NewReceiptRepo returns an in-memory receipt.Repository.
func NewReceiptRepo(txm *TxManager) receipt.Repository {
	return newDocumentStore(documents.TypeReceipt, txm,
		func(r *receipt.Receipt) []id.ID { return []id.ID{r.WarehouseID} },
		func(r *receipt.Receipt) time.Time { return r.CreatedAt },
	)
}

// NewDeliveryRepo returns an in-memory delivery.Repository.
func NewDeliveryRepo(txm *TxManager) delivery.Repository {
	return newDocumentStore(documents.TypeDelivery, txm,
		func(d *delivery.Delivery) []id.ID { return []id.ID{d.WarehouseID} },
		func(d *delivery.Delivery) time.Time { return d.CreatedAt },
	)
}

// NewTransferRepo returns an in-memory transfer.Repository.
func NewTransferRepo(txm *TxManager) transfer.Repository {
	return newDocumentStore(documents.TypeTransfer, txm,
		func(t *transfer.Transfer) []id.ID { return []id.ID{t.SourceWarehouseID, t.DestinationWarehouseID} },
		func(t *transfer.Transfer) time.Time { return t.CreatedAt },
	)
}

// NewAdjustmentRepo returns an in-memory adjustment.Repository.
func NewAdjustmentRepo(txm *TxManager) adjustment.Repository {
	return newDocumentStore(documents.TypeAdjustment, txm,
		func(a *adjustment.Adjustment) []id.ID { return []id.ID{a.WarehouseID} },
		func(a *adjustment.Adjustment) time.Time { return a.CreatedAt },
	)
}
