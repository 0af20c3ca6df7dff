package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const productTable = "products"

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable,
			"product",
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "sku"},
			func() *product.Product { return &product.Product{} },
		),
	}
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	sku = product.NormalizeSKU(sku)
	p, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"sku": sku}).Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("product", sku).WithDetail("field", "sku")
	}
	return p, err
}

func (r *ProductRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	rows, err := r.BaseCatalogRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[id.ID]*product.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
