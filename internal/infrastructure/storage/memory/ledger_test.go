package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
)

func newLedgerFixture() (*TxManager, *LedgerRepo, entity.StockKey) {
	txm := NewTxManager()
	key := entity.StockKey{ProductID: id.New(), WarehouseID: id.New(), LocationID: id.New()}
	return txm, NewLedgerRepo(txm), key
}

func stage(ctx context.Context, t *testing.T, repo *LedgerRepo, key entity.StockKey, qty int64) {
	t.Helper()
	entry := entity.LedgerEntry{
		ID:              id.New(),
		StockKey:        key,
		Quantity:        types.NewQuantity(qty),
		RunningBalance:  types.NewQuantity(qty),
		TransactionType: entity.TransactionReceipt,
	}
	require.NoError(t, repo.AppendEntries(ctx, []entity.LedgerEntry{entry}))
	require.NoError(t, repo.SaveBalances(ctx, []entity.StockBalance{{StockKey: key, Quantity: entry.RunningBalance}}))
}

func visible(t *testing.T, repo *LedgerRepo, key entity.StockKey) (stock.Sum, []entity.LedgerEntry, []entity.StockBalance) {
	t.Helper()
	ctx := context.Background()

	sum, err := repo.SumQuantity(ctx, stock.Scope{ProductID: key.ProductID})
	require.NoError(t, err)
	entries, err := repo.ListEntries(ctx, stock.HistoryFilter{ProductID: &key.ProductID})
	require.NoError(t, err)
	balances, err := repo.GetBalances(ctx, stock.BalanceFilter{ProductID: &key.ProductID})
	require.NoError(t, err)
	return sum, entries, balances
}

func TestLedgerRepo_StagedWritesHiddenUntilCommit(t *testing.T) {
	txm, repo, key := newLedgerFixture()

	err := txm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		stage(ctx, t, repo, key, 5)

		// readers outside the transaction
		sum, entries, balances := visible(t, repo, key)
		assert.Zero(t, sum.Entries)
		assert.Empty(t, entries)
		assert.Empty(t, balances)
		return nil
	})
	require.NoError(t, err)

	sum, entries, balances := visible(t, repo, key)
	assert.Equal(t, int64(1), sum.Entries)
	assert.Equal(t, types.NewQuantity(5), sum.Quantity)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Seq)
	require.Len(t, balances, 1)
	assert.Equal(t, types.NewQuantity(5), balances[0].Quantity)
}

func TestLedgerRepo_AbortedWritesNeverVisible(t *testing.T) {
	txm, repo, key := newLedgerFixture()
	boom := errors.New("boom")

	err := txm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		stage(ctx, t, repo, key, 5)
		return boom
	})
	require.ErrorIs(t, err, boom)

	sum, entries, balances := visible(t, repo, key)
	assert.Zero(t, sum.Entries)
	assert.Empty(t, entries)
	assert.Empty(t, balances)
}

func TestLedgerRepo_WritesOutsideTransactionApplyAtOnce(t *testing.T) {
	_, repo, key := newLedgerFixture()

	stage(context.Background(), t, repo, key, 3)

	sum, _, _ := visible(t, repo, key)
	assert.Equal(t, types.NewQuantity(3), sum.Quantity)
}
