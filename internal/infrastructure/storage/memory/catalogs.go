package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*catalogStore[*product.Product]
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{newCatalogStore("product",
		func(p *product.Product) string { return p.Name + " " + p.SKU },
		func(p *product.Product) string { return p.SKU },
	)}
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*product.Product, error) {
	sku = product.NormalizeSKU(sku)
	return r.first(func(p *product.Product) bool { return p.SKU == sku }, "sku", sku)
}

func (r *ProductRepo) GetMany(_ context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	rows := r.find(func(p *product.Product) bool { return containsID(ids, p.ID) })
	out := make(map[id.ID]*product.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*catalogStore[*warehouse.Warehouse]
}

func NewWarehouseRepo() *WarehouseRepo {
	return &WarehouseRepo{newCatalogStore("warehouse",
		func(w *warehouse.Warehouse) string { return w.Name + " " + w.Code },
		func(w *warehouse.Warehouse) string { return w.Name },
	)}
}

func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*warehouse.Warehouse, error) {
	code = warehouse.NormalizeCode(code)
	return r.first(func(w *warehouse.Warehouse) bool { return w.Code == code }, "code", code)
}

func (r *WarehouseRepo) GetByName(_ context.Context, name string) (*warehouse.Warehouse, error) {
	return r.first(func(w *warehouse.Warehouse) bool { return strings.EqualFold(w.Name, name) }, "name", name)
}

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*catalogStore[*location.Location]
}

func NewLocationRepo() *LocationRepo {
	return &LocationRepo{newCatalogStore("location",
		func(l *location.Location) string { return l.Name },
		func(l *location.Location) string { return l.Name },
	)}
}

func (r *LocationRepo) GetByName(_ context.Context, warehouseID id.ID, name string) (*location.Location, error) {
	return r.first(func(l *location.Location) bool {
		return l.WarehouseID == warehouseID && strings.EqualFold(l.Name, name)
	}, "name", name)
}

func (r *LocationRepo) ListByWarehouse(_ context.Context, warehouseID id.ID) ([]*location.Location, error) {
	locs := r.find(func(l *location.Location) bool { return l.WarehouseID == warehouseID })
	sort.Slice(locs, func(i, j int) bool { return locs[i].Name < locs[j].Name })
	return locs, nil
}

var (
	_ product.Repository   = (*ProductRepo)(nil)
	_ warehouse.Repository = (*WarehouseRepo)(nil)
	_ location.Repository  = (*LocationRepo)(nil)
)
