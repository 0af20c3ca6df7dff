package register_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
)

const selectEntries = "SELECT id, product_id, warehouse_id, location_id, quantity, running_balance, transaction_type, " +
	"reference_type, reference_id, reference_number, user_id, note, created_at, seq FROM stock_ledger"

func TestHistoryQuery_NewestFirst(t *testing.T) {
	sql, args, err := historyQuery(stock.HistoryFilter{Limit: 100}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, selectEntries+" ORDER BY seq DESC LIMIT 100", sql)
	assert.Empty(t, args)
}

func TestHistoryQuery_Filters(t *testing.T) {
	productID := id.New()
	txType := entity.TransactionDelivery
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := historyQuery(stock.HistoryFilter{
		ProductID:       &productID,
		TransactionType: &txType,
		From:            &from,
		Limit:           10,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, selectEntries+
		" WHERE product_id = $1 AND transaction_type = $2 AND created_at >= $3 ORDER BY seq DESC LIMIT 10", sql)
	require.Len(t, args, 3)
	assert.Equal(t, "delivery", args[1])
	assert.Equal(t, from, args[2])
}
