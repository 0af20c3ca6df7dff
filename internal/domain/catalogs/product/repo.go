package product

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetBySKU returns NotFound when no product carries the (normalized) SKU.
	GetBySKU(ctx context.Context, sku string) (*Product, error)

	// GetMany loads the given products in one round trip; unknown ids are simply absent.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)
}
