// Package stock provides the stock ledger register and the projections derived from it.
package stock

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

// Repository defines operations for the stock ledger.
// Entries are append-only; balances mirror the latest running balance per key.
type Repository interface {
	// Posting operations (called inside the validation transaction)

	// LockBalances locks the balance of every key until the transaction ends, taking the
	// locks in StockKey.Compare order. Keys without a balance yet report zero.
	LockBalances(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]types.Quantity, error)

	// AppendEntries writes ledger entries in slice order.
	AppendEntries(ctx context.Context, entries []entity.LedgerEntry) error

	// SaveBalances upserts the latest balance of each key.
	SaveBalances(ctx context.Context, balances []entity.StockBalance) error

	// Projection

	// SumQuantity returns the sum of deltas and the number of entries in scope.
	SumQuantity(ctx context.Context, scope Scope) (Sum, error)

	// ProductTotals returns per-product sums for every product that has entries.
	ProductTotals(ctx context.Context) (map[id.ID]Sum, error)

	// GetBalances returns balance rows matching the filter.
	GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error)

	// ListEntries returns ledger entries newest first.
	ListEntries(ctx context.Context, filter HistoryFilter) ([]entity.LedgerEntry, error)
}

// Scope narrows a quantity sum to a product and optionally a warehouse and location.
type Scope struct {
	ProductID   id.ID
	WarehouseID *id.ID
	LocationID  *id.ID
}

// IsProductWide reports whether no warehouse or location narrows the scope.
func (s Scope) IsProductWide() bool {
	return s.WarehouseID == nil && s.LocationID == nil
}

// Sum is an aggregated quantity.
type Sum struct {
	Quantity types.Quantity `db:"quantity"`
	Entries  int64          `db:"entries"`
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID
	LocationID  *id.ID
	ExcludeZero bool
}

// HistoryFilter for filtering ledger history.
type HistoryFilter struct {
	ProductID       *id.ID
	WarehouseID     *id.ID
	LocationID      *id.ID
	ReferenceID     *id.ID
	TransactionType *entity.TransactionType
	From            *time.Time
	To              *time.Time
	Limit           int
}
