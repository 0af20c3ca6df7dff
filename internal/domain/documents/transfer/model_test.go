package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

func TestTransfer_GenerateMovementsOutThenIn(t *testing.T) {
	wh := id.New()
	src, dst := id.New(), id.New()
	tr := NewTransfer(id.New(), wh, src, wh, dst)
	tr.SetPlaceName(placeSource, "Dock")
	tr.SetPlaceName(placeDestination, "Rack 7")
	tr.AddLine(id.New(), types.NewQuantity(5))
	tr.AddLine(id.New(), types.NewQuantity(3))
	tr.Lines[1].QuantityTransferred = types.NewQuantity(2)

	set, err := tr.GenerateMovements(context.Background())
	require.NoError(t, err)
	moves := set.Movements()
	require.Len(t, moves, 4)

	assert.Equal(t, entity.TransactionTransferOut, moves[0].Type)
	assert.Equal(t, src, moves[0].LocationID)
	assert.Equal(t, types.NewQuantity(-5), moves[0].Quantity)
	assert.Equal(t, "Transfer to Rack 7", moves[0].Note)

	assert.Equal(t, entity.TransactionTransferIn, moves[1].Type)
	assert.Equal(t, dst, moves[1].LocationID)
	assert.Equal(t, "Transfer from Dock", moves[1].Note)

	assert.Equal(t, types.NewQuantity(-2), moves[2].Quantity)
	assert.Equal(t, types.NewQuantity(2), moves[3].Quantity)
}

func TestTransfer_Dispatch(t *testing.T) {
	tr := NewTransfer(id.New(), id.New(), id.New(), id.New(), id.New())
	require.NoError(t, tr.Dispatch())
	assert.Equal(t, StatusInTransit, tr.Status)

	err := tr.Dispatch()
	assert.True(t, apperror.Is(err, apperror.CodeInvalidStateTransition))

	require.NoError(t, tr.CanPost())
}

func TestTransfer_UnnamedPlaceFallsBackToID(t *testing.T) {
	dst := id.New()
	tr := NewTransfer(id.New(), id.New(), id.New(), id.New(), dst)
	tr.AddLine(id.New(), types.NewQuantity(1))

	set, err := tr.GenerateMovements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Transfer to "+dst.String(), set.Movements()[0].Note)
}
