package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const locationTable = "locations"

var _ location.Repository = (*LocationRepo)(nil)

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*BaseCatalogRepo[*location.Location]
}

func NewLocationRepo(txm *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			locationTable,
			"location",
			postgres.ExtractDBColumns[location.Location](),
			[]string{"name"},
			func() *location.Location { return &location.Location{} },
		),
	}
}

// GetByName matches the name case-insensitively within the warehouse.
func (r *LocationRepo) GetByName(ctx context.Context, warehouseID id.ID, name string) (*location.Location, error) {
	l, err := r.FindOne(ctx, r.baseSelect().
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("location", name).
			WithDetail("field", "name").
			WithDetail("warehouse_id", warehouseID.String())
	}
	return l, err
}

// ListByWarehouse returns the active locations of a warehouse by name.
func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*location.Location, error) {
	return r.FindMany(ctx, r.baseSelect().
		Where(squirrel.Eq{"warehouse_id": warehouseID, "active": true}).
		OrderBy("name"))
}
