package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
)

// LedgerRepo implements stock.Repository.
type LedgerRepo struct {
	txm *TxManager

	mu       sync.RWMutex
	entries  []entity.LedgerEntry
	balances map[entity.StockKey]entity.StockBalance
	seq      int64
}

func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:      txm,
		balances: make(map[entity.StockKey]entity.StockBalance),
	}
}

// LockBalances takes one lock per key in Compare order and reports the current balances.
func (r *LedgerRepo) LockBalances(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]types.Quantity, error) {
	sorted := append([]entity.StockKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) < 0 })

	names := make([]string, len(sorted))
	for i, k := range sorted {
		names[i] = "stock:" + k.String()
	}
	if err := r.txm.Lock(ctx, names...); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[entity.StockKey]types.Quantity, len(sorted))
	for _, k := range sorted {
		out[k] = r.balances[k].Quantity
	}
	return out, nil
}

// AppendEntries stages entries; readers see them only after the transaction commits.
func (r *LedgerRepo) AppendEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	staged := append([]entity.LedgerEntry(nil), entries...)

	afterCommit(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, e := range staged {
			r.seq++
			e.Seq = r.seq
			r.entries = append(r.entries, e)
		}
	})
	return nil
}

// SaveBalances stages balance rows the same way as AppendEntries.
func (r *LedgerRepo) SaveBalances(ctx context.Context, balances []entity.StockBalance) error {
	staged := append([]entity.StockBalance(nil), balances...)

	afterCommit(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, b := range staged {
			r.balances[b.StockKey] = b
		}
	})
	return nil
}

func (r *LedgerRepo) SumQuantity(_ context.Context, scope stock.Scope) (stock.Sum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum stock.Sum
	for _, e := range r.entries {
		if e.ProductID != scope.ProductID {
			continue
		}
		if scope.WarehouseID != nil && e.WarehouseID != *scope.WarehouseID {
			continue
		}
		if scope.LocationID != nil && e.LocationID != *scope.LocationID {
			continue
		}
		sum.Quantity += e.Quantity
		sum.Entries++
	}
	return sum, nil
}

func (r *LedgerRepo) ProductTotals(_ context.Context) (map[id.ID]stock.Sum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[id.ID]stock.Sum)
	for _, e := range r.entries {
		s := out[e.ProductID]
		s.Quantity += e.Quantity
		s.Entries++
		out[e.ProductID] = s
	}
	return out, nil
}

func (r *LedgerRepo) GetBalances(_ context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	r.mu.RLock()
	out := make([]entity.StockBalance, 0)
	for k, b := range r.balances {
		if filter.ProductID != nil && k.ProductID != *filter.ProductID {
			continue
		}
		if filter.WarehouseID != nil && k.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.LocationID != nil && k.LocationID != *filter.LocationID {
			continue
		}
		if filter.ExcludeZero && b.Quantity.IsZero() {
			continue
		}
		out = append(out, b)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StockKey.Compare(out[j].StockKey) < 0 })
	return out, nil
}

func (r *LedgerRepo) ListEntries(_ context.Context, filter stock.HistoryFilter) ([]entity.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.LedgerEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !entryMatches(e, filter) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func entryMatches(e entity.LedgerEntry, f stock.HistoryFilter) bool {
	switch {
	case f.ProductID != nil && e.ProductID != *f.ProductID:
		return false
	case f.WarehouseID != nil && e.WarehouseID != *f.WarehouseID:
		return false
	case f.LocationID != nil && e.LocationID != *f.LocationID:
		return false
	case f.ReferenceID != nil && e.ReferenceID != *f.ReferenceID:
		return false
	case f.TransactionType != nil && e.TransactionType != *f.TransactionType:
		return false
	case f.From != nil && e.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && e.CreatedAt.After(*f.To):
		return false
	}
	return true
}

var _ stock.Repository = (*LedgerRepo)(nil)
