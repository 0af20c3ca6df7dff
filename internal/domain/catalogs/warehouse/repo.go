package warehouse

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// GetByCode returns NotFound when no warehouse has the code.
	GetByCode(ctx context.Context, code string) (*Warehouse, error)

	// GetByName returns NotFound when no warehouse has the name (case-insensitive).
	GetByName(ctx context.Context, name string) (*Warehouse, error)
}
