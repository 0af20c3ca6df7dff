package entity

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
)

const maxNameLength = 100

// Catalog is the base type for reference data: products, warehouses, locations.
// Catalog rows are never hard-deleted; Active=false is the soft delete.
type Catalog struct {
	BaseEntity
	Timestamps

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Active is false once the record has been soft-deleted
	Active bool `db:"active" json:"active"`
}

// NewCatalog creates a new active Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Timestamps: newTimestamps(),
		Name:       strings.TrimSpace(name),
		Active:     true,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if utf8.RuneCountInString(c.Name) > maxNameLength {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", maxNameLength)
	}
	return nil
}

// Deactivate soft-deletes the record.
func (c *Catalog) Deactivate() {
	c.Active = false
}

func (c *Catalog) IsActive() bool { return c.Active }
