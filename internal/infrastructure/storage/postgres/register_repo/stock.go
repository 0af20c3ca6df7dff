// Package register_repo provides the PostgreSQL stock ledger.
package register_repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const (
	ledgerTable   = "stock_ledger"
	balancesTable = "stock_balances"
)

var ledgerColumns = []string{
	"id", "product_id", "warehouse_id", "location_id",
	"quantity", "running_balance", "transaction_type",
	"reference_type", "reference_id", "reference_number",
	"user_id", "note", "created_at",
}

var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository.
// stock_ledger is append-only; stock_balances holds one row per key and doubles as the lock row.
type StockRepo struct {
	txm *postgres.TxManager
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{txm: txm}
}

// LockBalances creates missing balance rows, then locks all of them with FOR UPDATE.
// Keys are sorted first so that concurrent validations lock in the same order.
func (r *StockRepo) LockBalances(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]types.Quantity, error) {
	out := make(map[entity.StockKey]types.Quantity, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	sorted := append([]entity.StockKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) < 0 })

	querier := r.txm.GetQuerier(ctx)
	now := time.Now().UTC()

	ins := postgres.Builder().
		Insert(balancesTable).
		Columns("product_id", "warehouse_id", "location_id", "quantity", "updated_at")
	match := make(squirrel.Or, 0, len(sorted))
	for _, k := range sorted {
		ins = ins.Values(k.ProductID, k.WarehouseID, k.LocationID, types.Quantity(0), now)
		match = append(match, squirrel.Eq{
			"product_id":   k.ProductID,
			"warehouse_id": k.WarehouseID,
			"location_id":  k.LocationID,
		})
	}

	sql, args, err := ins.Suffix("ON CONFLICT (product_id, warehouse_id, location_id) DO NOTHING").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("create balance rows: %w", err)
	}

	sql, args, err = postgres.Builder().
		Select("product_id", "warehouse_id", "location_id", "quantity", "updated_at").
		From(balancesTable).
		Where(match).
		OrderBy("product_id", "warehouse_id", "location_id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("lock balances: %w", err)
	}

	for _, k := range sorted {
		out[k] = 0
	}
	for _, b := range balances {
		out[b.StockKey] = b.Quantity
	}
	return out, nil
}

// AppendEntries writes entries with COPY in slice order; seq follows that order.
func (r *StockRepo) AppendEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.ID, e.ProductID, e.WarehouseID, e.LocationID,
			e.Quantity, e.RunningBalance, e.TransactionType,
			e.ReferenceType, e.ReferenceID, e.ReferenceNumber,
			e.UserID, e.Note, e.CreatedAt,
		})
	}

	if _, err := r.txm.CopyRows(ctx, ledgerTable, ledgerColumns, rows); err != nil {
		return fmt.Errorf("copy ledger entries: %w", err)
	}
	return nil
}

// SaveBalances upserts balances in one batch round-trip.
func (r *StockRepo) SaveBalances(ctx context.Context, balances []entity.StockBalance) error {
	const upsert = `
		INSERT INTO stock_balances (product_id, warehouse_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`

	queries := make([]postgres.BatchQuery, 0, len(balances))
	for _, b := range balances {
		queries = append(queries, postgres.BatchQuery{
			SQL:  upsert,
			Args: []any{b.ProductID, b.WarehouseID, b.LocationID, b.Quantity, b.UpdatedAt},
		})
	}

	if err := r.txm.ExecBatch(ctx, queries); err != nil {
		return fmt.Errorf("save balances: %w", err)
	}
	return nil
}

// SumQuantity sums ledger deltas in scope.
func (r *StockRepo) SumQuantity(ctx context.Context, scope stock.Scope) (stock.Sum, error) {
	q := postgres.Builder().
		Select("COALESCE(SUM(quantity), 0)::bigint AS quantity", "COUNT(*) AS entries").
		From(ledgerTable).
		Where(squirrel.Eq{"product_id": scope.ProductID})
	if scope.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *scope.WarehouseID})
	}
	if scope.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *scope.LocationID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return stock.Sum{}, fmt.Errorf("build query: %w", err)
	}

	var sum stock.Sum
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sum, sql, args...); err != nil {
		return stock.Sum{}, fmt.Errorf("sum quantity: %w", err)
	}
	return sum, nil
}

type productSum struct {
	ProductID id.ID `db:"product_id"`
	stock.Sum
}

// ProductTotals sums the ledger per product.
func (r *StockRepo) ProductTotals(ctx context.Context) (map[id.ID]stock.Sum, error) {
	sql, args, err := postgres.Builder().
		Select("product_id", "SUM(quantity)::bigint AS quantity", "COUNT(*) AS entries").
		From(ledgerTable).
		GroupBy("product_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productSum
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}

	out := make(map[id.ID]stock.Sum, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Sum
	}
	return out, nil
}

// GetBalances returns balance rows in key order.
func (r *StockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := postgres.Builder().
		Select("product_id", "warehouse_id", "location_id", "quantity", "updated_at").
		From(balancesTable)
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": 0})
	}

	sql, args, err := q.OrderBy("product_id", "warehouse_id", "location_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	balances := make([]entity.StockBalance, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	return balances, nil
}

// ListEntries returns ledger entries newest first.
func (r *StockRepo) ListEntries(ctx context.Context, filter stock.HistoryFilter) ([]entity.LedgerEntry, error) {
	q := historyQuery(filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entries := make([]entity.LedgerEntry, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

func historyQuery(filter stock.HistoryFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(append(append([]string(nil), ledgerColumns...), "seq")...).
		From(ledgerTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}
	if filter.TransactionType != nil {
		q = q.Where(squirrel.Eq{"transaction_type": string(*filter.TransactionType)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}

	q = q.OrderBy("seq DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q
}
