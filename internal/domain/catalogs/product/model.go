// Package product provides the Product catalog: the items whose stock the ledger tracks.
package product

import (
	"context"
	"strings"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

// UnitOfMeasure defines how a product is counted.
type UnitOfMeasure string

const (
	UnitPieces UnitOfMeasure = "pcs"
	UnitBox    UnitOfMeasure = "box"
	UnitKg     UnitOfMeasure = "kg"
	UnitLiter  UnitOfMeasure = "liter"
	UnitMeter  UnitOfMeasure = "meter"
)

const maxSKULength = 50

// Product is a stock-keeping item.
type Product struct {
	entity.Catalog

	// SKU is unique across products, stored trimmed and upper-cased
	SKU string `db:"sku" json:"sku"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	Description string `db:"description" json:"description,omitempty"`

	UnitOfMeasure UnitOfMeasure `db:"unit_of_measure" json:"unitOfMeasure"`

	Cost  types.Money `db:"cost" json:"cost"`
	Price types.Money `db:"price" json:"price"`

	// ReorderLevel is the total at or below which the product counts as low stock
	ReorderLevel    types.Quantity `db:"reorder_level" json:"reorderLevel"`
	ReorderQuantity types.Quantity `db:"reorder_quantity" json:"reorderQuantity"`

	// InitialStock is the product-wide total reported until the first ledger entry is written
	InitialStock types.Quantity `db:"initial_stock" json:"initialStock"`
}

// NewProduct creates an active product counted in pieces.
func NewProduct(sku, name string) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(name),
		SKU:           NormalizeSKU(sku),
		UnitOfMeasure: UnitPieces,
		Cost:          types.ZeroMoney(),
		Price:         types.ZeroMoney(),
	}
}

// NormalizeSKU trims and upper-cases a SKU.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	p.SKU = NormalizeSKU(p.SKU)
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if len(p.SKU) > maxSKULength {
		return apperror.NewValidation("sku is too long").
			WithDetail("field", "sku").
			WithDetail("max", maxSKULength)
	}

	if p.UnitOfMeasure == "" {
		p.UnitOfMeasure = UnitPieces
	}
	if !isValidUnit(p.UnitOfMeasure) {
		return apperror.NewValidation("invalid unit of measure").
			WithDetail("field", "unitOfMeasure").
			WithDetail("value", string(p.UnitOfMeasure))
	}

	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	for field, q := range map[string]types.Quantity{
		"reorderLevel":    p.ReorderLevel,
		"reorderQuantity": p.ReorderQuantity,
		"initialStock":    p.InitialStock,
	} {
		if q.IsNegative() {
			return apperror.NewValidation(field+" cannot be negative").
				WithDetail("field", field)
		}
	}

	return nil
}

// IsLowStock reports whether total is at or below the reorder level.
func (p *Product) IsLowStock(total types.Quantity) bool {
	return total <= p.ReorderLevel
}

// IsOutOfStock reports whether nothing is on hand.
func (p *Product) IsOutOfStock(total types.Quantity) bool {
	return total <= 0
}

// Clone returns a deep copy. In-memory storage hands out clones only.
func (p *Product) Clone() *Product {
	cp := *p
	if p.CategoryID != nil {
		c := *p.CategoryID
		cp.CategoryID = &c
	}
	return &cp
}

func isValidUnit(u UnitOfMeasure) bool {
	switch u {
	case UnitPieces, UnitBox, UnitKg, UnitLiter, UnitMeter:
		return true
	}
	return false
}
