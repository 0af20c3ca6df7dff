// Package document_repo provides PostgreSQL implementations for document repositories.
// Every kind is a header table plus a lines table keyed by document_id.
package document_repo

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
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

// Table describes the storage of one document kind.
type Table[T documents.Document, L any] struct {
	DocType   string
	Header    string
	Lines     string
	NewFn     func() T
	GetLines  func(T) []L
	SetLines  func(T, []L)
	LineDocID func(L) id.ID

	// WarehouseCols are matched by ListFilter.WarehouseID (any of them)
	WarehouseCols []string
}

// BaseDocumentRepo provides common CRUD operations for document entities.
type BaseDocumentRepo[T documents.Document, L any] struct {
	txm        *postgres.TxManager
	table      Table[T, L]
	selectCols []string
	lineCols   []string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T documents.Document, L any](
	txm *postgres.TxManager,
	table Table[T, L],
	selectCols, lineCols []string,
) *BaseDocumentRepo[T, L] {
	return &BaseDocumentRepo[T, L]{
		txm:        txm,
		table:      table,
		selectCols: selectCols,
		lineCols:   lineCols,
	}
}

func (r *BaseDocumentRepo[T, L]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts the header and its lines in the caller's transaction.
func (r *BaseDocumentRepo[T, L]) Create(ctx context.Context, doc T) error {
	data := postgres.StructToMap(doc)

	values := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Insert(r.table.Header).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(r.table.DocType, "number", doc.GetNumber()).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.table.Header, err)
	}

	return r.saveLines(ctx, doc.GetID(), r.table.GetLines(doc))
}

// Update replaces header and lines when the stored version matches.
// On success doc carries the new version and updated_at.
func (r *BaseDocumentRepo[T, L]) Update(ctx context.Context, doc T) error {
	data := postgres.StructToMap(doc)

	values := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "number", "created_at", "created_by", "version", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Update(r.table.Header).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doc.GetID()}).
		Where(squirrel.Eq{"version": doc.GetVersion()}).
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
		if _, getErr := r.getHeader(ctx, doc.GetID(), false); getErr != nil {
			return getErr
		}
		return apperror.NewConcurrentModification(r.table.DocType, doc.GetID().String())
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table.Header, err)
	}

	if err := r.saveLines(ctx, doc.GetID(), r.table.GetLines(doc)); err != nil {
		return err
	}

	doc.SetVersion(version)
	if ts, ok := any(doc).(interface{ SetUpdatedAt(time.Time) }); ok {
		ts.SetUpdatedAt(updatedAt.UTC())
	}
	return nil
}

// saveLines replaces all lines of the document (delete existing + insert new).
func (r *BaseDocumentRepo[T, L]) saveLines(ctx context.Context, docID id.ID, lines []L) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + r.table.Lines + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := postgres.Builder().
		Insert(r.table.Lines).
		Columns(r.lineCols...)

	for _, line := range lines {
		data := postgres.StructToMap(line)
		data["document_id"] = docID
		q = q.Values(postgres.Values(data, r.lineCols)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *BaseDocumentRepo[T, L]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.table.Header)
}

func (r *BaseDocumentRepo[T, L]) getHeader(ctx context.Context, docID id.ID, forUpdate bool) (T, error) {
	doc := r.table.NewFn()

	q := r.baseSelect().Where(squirrel.Eq{"id": docID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.table.DocType, docID.String())
		}
		return doc, fmt.Errorf("get %s: %w", r.table.DocType, err)
	}
	return doc, nil
}

// GetByID retrieves a document with its lines.
func (r *BaseDocumentRepo[T, L]) GetByID(ctx context.Context, docID id.ID) (T, error) {
	return r.get(ctx, docID, false)
}

// GetForUpdate retrieves a document with a row lock held until the transaction ends.
func (r *BaseDocumentRepo[T, L]) GetForUpdate(ctx context.Context, docID id.ID) (T, error) {
	return r.get(ctx, docID, true)
}

func (r *BaseDocumentRepo[T, L]) get(ctx context.Context, docID id.ID, forUpdate bool) (T, error) {
	doc, err := r.getHeader(ctx, docID, forUpdate)
	if err != nil {
		return doc, err
	}
	if err := r.attachLines(ctx, []T{doc}); err != nil {
		return doc, err
	}
	return doc, nil
}

// attachLines loads the lines of all docs in one query.
func (r *BaseDocumentRepo[T, L]) attachLines(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]id.ID, len(docs))
	for i, d := range docs {
		ids[i] = d.GetID()
	}

	sql, args, err := postgres.Builder().
		Select(r.lineCols...).
		From(r.table.Lines).
		Where(squirrel.Expr("document_id = ANY(?)", ids)).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	var lines []L
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return fmt.Errorf("get lines: %w", err)
	}

	byDoc := make(map[id.ID][]L, len(docs))
	for _, l := range lines {
		docID := r.table.LineDocID(l)
		byDoc[docID] = append(byDoc[docID], l)
	}
	for _, d := range docs {
		ls := byDoc[d.GetID()]
		if ls == nil {
			ls = make([]L, 0)
		}
		r.table.SetLines(d, ls)
	}
	return nil
}

// List retrieves documents with lines, newest first by default.
func (r *BaseDocumentRepo[T, L]) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.applyFilter(r.baseSelect(), filter)

	countSQL, countArgs, err := postgres.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, r.selectCols, "created_at DESC")
	if err != nil {
		return result, err
	}
	q = postgres.Paginate(q.OrderBy(orderBy, "number DESC"), filter.Limit, filter.Offset)

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.table.DocType, err)
	}

	if err := r.attachLines(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

func (r *BaseDocumentRepo[T, L]) applyFilter(q squirrel.SelectBuilder, filter documents.ListFilter) squirrel.SelectBuilder {
	if len(filter.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": filter.Statuses})
	}
	if filter.WarehouseID != nil && len(r.table.WarehouseCols) > 0 {
		or := make(squirrel.Or, 0, len(r.table.WarehouseCols))
		for _, col := range r.table.WarehouseCols {
			or = append(or, squirrel.Eq{col: *filter.WarehouseID})
		}
		q = q.Where(or)
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	return q
}

// Count returns the number of documents in any of the statuses (all when none given).
func (r *BaseDocumentRepo[T, L]) Count(ctx context.Context, statuses ...entity.DocumentStatus) (int64, error) {
	q := postgres.Builder().Select("COUNT(*)").From(r.table.Header)
	if len(statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": statuses})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.DocType, err)
	}
	return n, nil
}
