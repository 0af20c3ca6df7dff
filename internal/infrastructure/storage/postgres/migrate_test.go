package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0001_catalogs.sql",
		"0002_documents.sql",
		"0003_ledger.sql",
		"0004_system.sql",
	}, names)
}

// Every column the repositories write must exist in the schema.
func TestMigrations_CoverEntityColumns(t *testing.T) {
	var schema strings.Builder
	names, err := MigrationNames()
	require.NoError(t, err)
	for _, n := range names {
		body, err := migrationsFS.ReadFile("migrations/" + n)
		require.NoError(t, err)
		schema.Write(body)
	}
	sql := schema.String()

	for _, cols := range [][]string{
		ExtractDBColumns[product.Product](),
		ExtractDBColumns[delivery.Delivery](),
		ExtractDBColumns[delivery.Line](),
	} {
		for _, col := range cols {
			assert.Contains(t, sql, "\n    "+col+" ", "column %s", col)
		}
	}
}
