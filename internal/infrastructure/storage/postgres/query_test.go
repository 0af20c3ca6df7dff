package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	allowed := []string{"name", "created_at"}

	tests := []struct {
		in   string
		want string
	}{
		{"", "name ASC"},
		{"name", "name ASC"},
		{"+name", "name ASC"},
		{"-created_at", "created_at DESC"},
		{" -name ", "name DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrderBy(tt.in, allowed, "name ASC")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	_, err := ParseOrderBy("name; DROP TABLE products", []string{"name"}, "name ASC")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestPaginate(t *testing.T) {
	q := Paginate(Builder().Select("id").From("products"), 10, 20)
	sql, _, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM products LIMIT 10 OFFSET 20", sql)

	sql, _, err = Paginate(Builder().Select("id").From("products"), 0, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM products", sql)
}
