package adjustment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

func TestAdjustment_ValidateRecomputesDifference(t *testing.T) {
	a := NewAdjustment(id.New(), id.New(), id.New())
	a.AddLine(id.New(), types.NewQuantity(100), types.NewQuantity(80), ReasonCycleCount, "  recount ")
	a.Lines[0].Difference = types.NewQuantity(999)

	require.NoError(t, a.Validate(context.Background()))
	assert.Equal(t, types.NewQuantity(-20), a.Lines[0].Difference)
	assert.Equal(t, "recount", a.Lines[0].Notes)
}

func TestAdjustment_RejectsInvalidReason(t *testing.T) {
	a := NewAdjustment(id.New(), id.New(), id.New())
	a.AddLine(id.New(), types.NewQuantity(1), types.NewQuantity(2), Reason("bored"), "")

	err := a.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "lines.reason", appErr.Details["field"])
	assert.Equal(t, 1, appErr.Details["lineNo"])
}

func TestAdjustment_EqualCountsProduceNoMovement(t *testing.T) {
	a := NewAdjustment(id.New(), id.New(), id.New())
	a.AddLine(id.New(), types.NewQuantity(7), types.NewQuantity(7), ReasonOther, "")
	a.AddLine(id.New(), types.NewQuantity(7), types.NewQuantity(9), ReasonFound, "shelf")

	set, err := a.GenerateMovements(context.Background())
	require.NoError(t, err)
	moves := set.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, types.NewQuantity(2), moves[0].Quantity)
	assert.Equal(t, 2, moves[0].LineNo)
	assert.Equal(t, "Stock adjustment - found: shelf", moves[0].Note)
}
