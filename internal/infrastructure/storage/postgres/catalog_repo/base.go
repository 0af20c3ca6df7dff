// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

type timestamped interface {
	SetUpdatedAt(at time.Time)
}

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T entity.Identifiable] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	searchCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
// searchCols are matched by ListFilter.Search with ILIKE.
func NewBaseCatalogRepo[T entity.Identifiable](
	txm *postgres.TxManager,
	tableName, entityName string,
	selectCols, searchCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		searchCols: searchCols,
		newFn:      newFn,
	}
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %s", r.entityName)
	}

	values := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Insert(r.tableName).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapWriteError(err)
	}
	return nil
}

// Update modifies an existing entity with optimistic locking.
// On success the entity carries the new version and updated_at.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	data := postgres.StructToMap(e)

	values := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", "created_at", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Update(r.tableName).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.GetID()}).
		Where(squirrel.Eq{"version": e.GetVersion()}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var (
		version   int
		updatedAt time.Time
	)
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&version, &updatedAt)
	if err == pgx.ErrNoRows {
		exists, existsErr := r.Exists(ctx, e.GetID())
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperror.NewNotFound(r.entityName, e.GetID().String())
		}
		return apperror.NewConcurrentModification(r.entityName, e.GetID().String())
	}
	if err != nil {
		return r.mapWriteError(err)
	}

	e.SetVersion(version)
	if ts, ok := any(e).(timestamped); ok {
		ts.SetUpdatedAt(updatedAt.UTC())
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID. Inactive rows are returned.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1))
	if apperror.IsNotFound(err) {
		return e, apperror.NewNotFound(r.entityName, entityID.String())
	}
	return e, err
}

// GetMany loads rows by id in one query.
func (r *BaseCatalogRepo[T]) GetMany(ctx context.Context, ids []id.ID) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.FindMany(ctx, r.baseSelect().Where(squirrel.Eq{"id": ids}))
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return r.ListWhere(ctx, filter, nil)
}

// ListWhere is List with an additional condition.
func (r *BaseCatalogRepo[T]) ListWhere(ctx context.Context, filter domain.ListFilter, extra squirrel.Sqlizer) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.applyFilter(r.baseSelect(), filter)
	if extra != nil {
		q = q.Where(extra)
	}

	countSQL, countArgs, err := postgres.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, r.selectCols, "name ASC")
	if err != nil {
		return result, err
	}
	q = postgres.Paginate(q.OrderBy(orderBy, "id"), filter.Limit, filter.Offset)

	items, err := r.FindMany(ctx, q)
	if err != nil {
		return result, err
	}
	result.Items = items
	return result, nil
}

func (r *BaseCatalogRepo[T]) applyFilter(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if !filter.IncludeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	return q
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	sql, args, err := postgres.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	e := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.entityName, "matching query")
		}
		return e, fmt.Errorf("find %s: %w", r.entityName, err)
	}
	return e, nil
}

// FindMany executes a SELECT query and returns all rows.
func (r *BaseCatalogRepo[T]) FindMany(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.entityName, err)
	}
	return items, nil
}

// mapWriteError turns unique violations into Duplicate errors. Constraints are named
// <table>_<column>_key so the column can be reported.
func (r *BaseCatalogRepo[T]) mapWriteError(err error) error {
	if postgres.IsUniqueViolation(err) {
		field := postgres.ConstraintName(err)
		if c := uniqueField[field]; c != "" {
			field = c
		}
		return apperror.NewDuplicate(r.entityName, field, "").WithCause(err)
	}
	if postgres.IsForeignKeyViolation(err) {
		return apperror.NewValidation("referenced record does not exist").
			WithDetail("entity", r.entityName).
			WithDetail("constraint", postgres.ConstraintName(err)).
			WithCause(err)
	}
	return fmt.Errorf("write %s: %w", r.tableName, err)
}

// uniqueField maps unique constraint names from the migrations to API field names.
var uniqueField = map[string]string{
	"products_sku_key":             "sku",
	"warehouses_code_key":          "code",
	"warehouses_name_key":          "name",
	"locations_warehouse_name_key": "name",
}
