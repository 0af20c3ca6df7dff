package location

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// GetByName returns NotFound when the warehouse has no location with the name.
	GetByName(ctx context.Context, warehouseID id.ID, name string) (*Location, error)

	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error)
}
