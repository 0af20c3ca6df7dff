package dto

import (
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
)

// --- Product ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU             string                `json:"sku" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	CategoryID      *string               `json:"categoryId" binding:"omitempty,uuid"`
	Description     string                `json:"description"`
	UnitOfMeasure   product.UnitOfMeasure `json:"unitOfMeasure"`
	Cost            types.Money           `json:"cost"`
	Price           types.Money           `json:"price"`
	ReorderLevel    types.Quantity        `json:"reorderLevel"`
	ReorderQuantity types.Quantity        `json:"reorderQuantity"`
	InitialStock    types.Quantity        `json:"initialStock"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.SKU, r.Name)
	p.CategoryID = ParseOptionalID(r.CategoryID)
	p.Description = r.Description
	if r.UnitOfMeasure != "" {
		p.UnitOfMeasure = r.UnitOfMeasure
	}
	p.Cost = r.Cost
	p.Price = r.Price
	p.ReorderLevel = r.ReorderLevel
	p.ReorderQuantity = r.ReorderQuantity
	p.InitialStock = r.InitialStock
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	SKU             string                `json:"sku" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	CategoryID      *string               `json:"categoryId" binding:"omitempty,uuid"`
	Description     string                `json:"description"`
	UnitOfMeasure   product.UnitOfMeasure `json:"unitOfMeasure" binding:"required"`
	Cost            types.Money           `json:"cost"`
	Price           types.Money           `json:"price"`
	ReorderLevel    types.Quantity        `json:"reorderLevel"`
	ReorderQuantity types.Quantity        `json:"reorderQuantity"`
	InitialStock    types.Quantity        `json:"initialStock"`
	Active          *bool                 `json:"active"`
	Version         int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.SKU = product.NormalizeSKU(r.SKU)
	p.Name = r.Name
	p.CategoryID = ParseOptionalID(r.CategoryID)
	p.Description = r.Description
	p.UnitOfMeasure = r.UnitOfMeasure
	p.Cost = r.Cost
	p.Price = r.Price
	p.ReorderLevel = r.ReorderLevel
	p.ReorderQuantity = r.ReorderQuantity
	p.InitialStock = r.InitialStock
	if r.Active != nil {
		p.Active = *r.Active
	}
	p.Version = r.Version
}

// ProductResponse is the response body for a product.
type ProductResponse struct {
	CatalogResponse
	SKU             string                `json:"sku"`
	CategoryID      *string               `json:"categoryId,omitempty"`
	Description     string                `json:"description,omitempty"`
	UnitOfMeasure   product.UnitOfMeasure `json:"unitOfMeasure"`
	Cost            types.Money           `json:"cost"`
	Price           types.Money           `json:"price"`
	ReorderLevel    types.Quantity        `json:"reorderLevel"`
	ReorderQuantity types.Quantity        `json:"reorderQuantity"`
	InitialStock    types.Quantity        `json:"initialStock"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		SKU:             p.SKU,
		CategoryID:      optionalString(p.CategoryID),
		Description:     p.Description,
		UnitOfMeasure:   p.UnitOfMeasure,
		Cost:            p.Cost,
		Price:           p.Price,
		ReorderLevel:    p.ReorderLevel,
		ReorderQuantity: p.ReorderQuantity,
		InitialStock:    p.InitialStock,
	}
}

// --- Warehouse ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Address = r.Address
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Active  *bool  `json:"active"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = warehouse.NormalizeCode(r.Code)
	wh.Name = r.Name
	wh.Address = r.Address
	if r.Active != nil {
		wh.Active = *r.Active
	}
	wh.Version = r.Version
}

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	CatalogResponse
	Code    string `json:"code"`
	Address string `json:"address,omitempty"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		CatalogResponse: FromCatalog(wh.Catalog),
		Code:            wh.Code,
		Address:         wh.Address,
	}
}

// --- Location ---

// CreateLocationRequest is the request body for creating a location.
type CreateLocationRequest struct {
	WarehouseID string        `json:"warehouseId" binding:"required,uuid"`
	Name        string        `json:"name" binding:"required"`
	Type        location.Type `json:"type"`
	ParentID    *string       `json:"parentId" binding:"omitempty,uuid"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLocationRequest) ToEntity() *location.Location {
	loc := location.NewLocation(ParseID(r.WarehouseID), r.Name)
	if r.Type != "" {
		loc.Type = r.Type
	}
	loc.ParentID = ParseOptionalID(r.ParentID)
	return loc
}

// UpdateLocationRequest is the request body for updating a location.
// The warehouse of a location never changes.
type UpdateLocationRequest struct {
	Name     string        `json:"name" binding:"required"`
	Type     location.Type `json:"type" binding:"required"`
	ParentID *string       `json:"parentId" binding:"omitempty,uuid"`
	Active   *bool         `json:"active"`
	Version  int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateLocationRequest) ApplyTo(loc *location.Location) {
	loc.Name = r.Name
	loc.Type = r.Type
	loc.ParentID = ParseOptionalID(r.ParentID)
	if r.Active != nil {
		loc.Active = *r.Active
	}
	loc.Version = r.Version
}

// LocationResponse is the response body for a location.
type LocationResponse struct {
	CatalogResponse
	WarehouseID string        `json:"warehouseId"`
	Type        location.Type `json:"type"`
	ParentID    *string       `json:"parentId,omitempty"`
}

// FromLocation creates response DTO from domain entity.
func FromLocation(loc *location.Location) *LocationResponse {
	return &LocationResponse{
		CatalogResponse: FromCatalog(loc.Catalog),
		WarehouseID:     loc.WarehouseID.String(),
		Type:            loc.Type,
		ParentID:        optionalString(loc.ParentID),
	}
}
