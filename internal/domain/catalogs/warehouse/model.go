// Package warehouse provides the Warehouse catalog.
// A warehouse groups the locations that hold stock.
package warehouse

import (
	"context"
	"strings"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
)

const maxCodeLength = 10

// Warehouse represents a physical site.
type Warehouse struct {
	entity.Catalog

	// Code is the short unique code, e.g. WH1 (upper-cased)
	Code string `db:"code" json:"code"`

	Address string `db:"address" json:"address,omitempty"`
}

// NewWarehouse creates a new active Warehouse.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(name),
		Code:    NormalizeCode(code),
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	w.Code = NormalizeCode(w.Code)
	if w.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if len(w.Code) > maxCodeLength {
		return apperror.NewValidation("code is too long").
			WithDetail("field", "code").
			WithDetail("max", maxCodeLength)
	}

	w.Address = strings.TrimSpace(w.Address)
	return nil
}

// Clone returns a copy safe to hand out from in-memory storage.
func (w *Warehouse) Clone() *Warehouse {
	cp := *w
	return &cp
}
