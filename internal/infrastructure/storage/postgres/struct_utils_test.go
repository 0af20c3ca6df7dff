package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
)

func TestExtractDBColumns_EmbeddedCatalog(t *testing.T) {
	cols := ExtractDBColumns[product.Product]()

	for _, expected := range []string{"id", "version", "created_at", "updated_at", "name", "active", "sku", "cost", "initial_stock"} {
		assert.Contains(t, cols, expected)
	}
	assert.Equal(t, "id", cols[0])
}

func TestExtractDBColumns_SkipsIgnoredFields(t *testing.T) {
	cols := ExtractDBColumns[receipt.Receipt]()

	assert.Contains(t, cols, "supplier")
	assert.Contains(t, cols, "number")
	assert.NotContains(t, cols, "lines")
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_Document(t *testing.T) {
	now := time.Now().UTC()
	r := receipt.NewReceipt(id.New(), id.New(), id.New(), entity.Partner{Name: "Acme"})
	r.Number = "RCP-000007"
	r.Version = 3
	r.CompletedAt = &now

	m := StructToMap(r)

	assert.Equal(t, r.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "RCP-000007", m["number"])
	assert.Equal(t, entity.StatusDraft, m["status"])
	assert.Equal(t, &now, m["completed_at"])
	assert.Equal(t, entity.Partner{Name: "Acme"}, m["supplier"])
	_, hasLines := m["lines"]
	assert.False(t, hasLines)
}

func TestStructToMap_NilPointer(t *testing.T) {
	var p *product.Product
	assert.Nil(t, StructToMap(p))
}

func TestValues_KeepsColumnOrder(t *testing.T) {
	line := receipt.Line{LineNo: 2, QuantityReceived: types.NewQuantity(5)}
	vals := Values(StructToMap(line), []string{"line_no", "quantity_received", "missing"})

	assert.Equal(t, []any{2, types.NewQuantity(5), nil}, vals)
}
