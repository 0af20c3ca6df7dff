// Package location provides the Location catalog: places inside a warehouse that hold stock.
package location

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
)

// Type classifies a location.
type Type string

const (
	TypeStorage    Type = "storage"
	TypeProduction Type = "production"
	TypeTransit    Type = "transit"
	TypeVendor     Type = "vendor"
	TypeCustomer   Type = "customer"
)

// Location belongs to exactly one warehouse and is unique by name within it.
type Location struct {
	entity.Catalog

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	Type Type `db:"type" json:"type"`

	// ParentID is an optional enclosing location of the same warehouse
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`
}

// NewLocation creates an active storage location.
func NewLocation(warehouseID id.ID, name string) *Location {
	return &Location{
		Catalog:     entity.NewCatalog(name),
		WarehouseID: warehouseID,
		Type:        TypeStorage,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(l.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if l.Type == "" {
		l.Type = TypeStorage
	}
	if !isValidType(l.Type) {
		return apperror.NewValidation("invalid location type").
			WithDetail("field", "type").
			WithDetail("value", string(l.Type))
	}

	if l.ParentID != nil && *l.ParentID == l.ID {
		return apperror.NewValidation("location cannot be its own parent").
			WithDetail("field", "parentId")
	}

	return nil
}

// Clone returns a deep copy.
func (l *Location) Clone() *Location {
	cp := *l
	if l.ParentID != nil {
		p := *l.ParentID
		cp.ParentID = &p
	}
	return &cp
}

func isValidType(t Type) bool {
	switch t {
	case TypeStorage, TypeProduction, TypeTransit, TypeVendor, TypeCustomer:
		return true
	}
	return false
}
