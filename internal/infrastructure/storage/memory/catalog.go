package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
)

// cloneable is a catalog entity that can hand out private copies.
type cloneable[T any] interface {
	domain.CatalogEntity
	Clone() T
}

type timestamped interface {
	SetUpdatedAt(at time.Time)
}

// catalogStore is the generic in-memory catalog repository.
// search returns the text matched by ListFilter.Search; sortKey orders list results.
type catalogStore[T cloneable[T]] struct {
	mu         sync.RWMutex
	rows       map[id.ID]T
	entityName string
	search     func(T) string
	sortKey    func(T) string
}

func newCatalogStore[T cloneable[T]](entityName string, search, sortKey func(T) string) *catalogStore[T] {
	return &catalogStore[T]{
		rows:       make(map[id.ID]T),
		entityName: entityName,
		search:     search,
		sortKey:    sortKey,
	}
}

func (s *catalogStore[T]) Create(ctx context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[e.GetID()]; ok {
		return apperror.NewDuplicate(s.entityName, "id", e.GetID().String())
	}
	s.rows[e.GetID()] = e.Clone()

	key := e.GetID()
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.rows, key)
		s.mu.Unlock()
	})
	return nil
}

func (s *catalogStore[T]) GetByID(_ context.Context, entityID id.ID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(s.entityName, entityID.String())
	}
	return row.Clone(), nil
}

// Update stores e when its version matches the stored one, then bumps the version.
func (s *catalogStore[T]) Update(ctx context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rows[e.GetID()]
	if !ok {
		return apperror.NewNotFound(s.entityName, e.GetID().String())
	}
	if prev.GetVersion() != e.GetVersion() {
		return apperror.NewConcurrentModification(s.entityName, e.GetID().String())
	}

	e.SetVersion(prev.GetVersion() + 1)
	if ts, ok := any(e).(timestamped); ok {
		ts.SetUpdatedAt(time.Now().UTC())
	}
	s.rows[e.GetID()] = e.Clone()

	onRollback(ctx, func() {
		s.mu.Lock()
		s.rows[prev.GetID()] = prev
		s.mu.Unlock()
	})
	return nil
}

func (s *catalogStore[T]) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	items := s.find(func(row T) bool {
		if !filter.IncludeInactive && !row.IsActive() {
			return false
		}
		if len(filter.IDs) > 0 && !containsID(filter.IDs, row.GetID()) {
			return false
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.search(row)), strings.ToLower(filter.Search)) {
			return false
		}
		return true
	})

	desc := strings.HasPrefix(filter.OrderBy, "-")
	sort.SliceStable(items, func(i, j int) bool {
		a, b := s.sortKey(items[i]), s.sortKey(items[j])
		if desc {
			return a > b
		}
		return a < b
	})

	return paginate(items, filter.Limit, filter.Offset), nil
}

func (s *catalogStore[T]) Exists(_ context.Context, entityID id.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[entityID]
	return ok, nil
}

// find returns clones of the rows matching keep.
func (s *catalogStore[T]) find(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row.Clone())
		}
	}
	return out
}

// first returns a clone of any row matching keep, or NotFound.
func (s *catalogStore[T]) first(keep func(T) bool, field, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.rows {
		if keep(row) {
			return row.Clone(), nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(s.entityName, value).WithDetail("field", field)
}

func paginate[T any](items []T, limit, offset int) domain.ListResult[T] {
	total := int64(len(items))
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return domain.ListResult[T]{
		Items:      items,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}
}

func containsID(ids []id.ID, v id.ID) bool {
	for _, x := range ids {
		if x == v {
			return true
		}
	}
	return false
}
