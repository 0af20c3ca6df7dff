package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const warehouseTable = "warehouses"

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			warehouseTable,
			"warehouse",
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			[]string{"name", "code"},
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	code = warehouse.NormalizeCode(code)
	w, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"code": code}).Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("warehouse", code).WithDetail("field", "code")
	}
	return w, err
}

func (r *WarehouseRepo) GetByName(ctx context.Context, name string) (*warehouse.Warehouse, error) {
	w, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Expr("lower(name) = lower(?)", name)).Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("warehouse", name).WithDetail("field", "name")
	}
	return w, err
}
