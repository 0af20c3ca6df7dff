package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
)

func newTestRepo() *BaseCatalogRepo[*product.Product] {
	return NewBaseCatalogRepo[*product.Product](nil, "products", "product",
		[]string{"id", "name", "sku", "active"},
		[]string{"name", "sku"},
		func() *product.Product { return &product.Product{} },
	)
}

func TestApplyFilter(t *testing.T) {
	repo := newTestRepo()
	someID := id.New()

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "active only by default",
			filter:   domain.ListFilter{},
			wantSQL:  "SELECT id, name, sku, active FROM products WHERE active = $1",
			wantArgs: []any{true},
		},
		{
			name:    "include inactive",
			filter:  domain.ListFilter{IncludeInactive: true},
			wantSQL: "SELECT id, name, sku, active FROM products",
		},
		{
			name:     "search spans search columns",
			filter:   domain.ListFilter{IncludeInactive: true, Search: "wid"},
			wantSQL:  "SELECT id, name, sku, active FROM products WHERE (name ILIKE $1 OR sku ILIKE $2)",
			wantArgs: []any{"%wid%", "%wid%"},
		},
		{
			name:     "ids",
			filter:   domain.ListFilter{IncludeInactive: true, IDs: []id.ID{someID}},
			wantSQL:  "SELECT id, name, sku, active FROM products WHERE id IN ($1)",
			wantArgs: []any{someID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.applyFilter(repo.baseSelect(), tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}
