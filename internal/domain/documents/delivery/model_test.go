package delivery

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

func newTestDelivery(ordered ...int64) *Delivery {
	d := NewDelivery(id.New(), id.New(), id.New(), entity.Partner{Name: "Jane"})
	for _, q := range ordered {
		d.AddLine(id.New(), types.NewQuantity(q), types.MustMoney("1.5"))
	}
	return d
}

func qty(n int64) types.Quantity { return types.NewQuantity(n) }

func TestDelivery_PickPackReady(t *testing.T) {
	d := newTestDelivery(10, 4)

	require.NoError(t, d.Pick([]Progress{{LineNo: 1, Quantity: qty(10)}}))
	assert.Equal(t, StatusPicking, d.Status)

	require.NoError(t, d.Pick([]Progress{{LineNo: 2, Quantity: qty(4)}}))
	require.NoError(t, d.Pack([]Progress{{LineNo: 1, Quantity: qty(10)}}))
	assert.Equal(t, StatusPacking, d.Status)
	assert.Equal(t, qty(10), d.Lines[0].QuantityDelivered)

	require.NoError(t, d.Pack([]Progress{{LineNo: 2, Quantity: qty(4)}}))
	assert.Equal(t, StatusReady, d.Status)
	assert.True(t, d.TotalAmount().Equal(types.MustMoney("21")))
}

func TestDelivery_PartialPackStaysPacking(t *testing.T) {
	d := newTestDelivery(10)
	require.NoError(t, d.Pick([]Progress{{LineNo: 1, Quantity: qty(8)}}))
	require.NoError(t, d.Pack([]Progress{{LineNo: 1, Quantity: qty(5)}}))
	assert.Equal(t, StatusPacking, d.Status)

	require.NoError(t, d.Pack([]Progress{{LineNo: 1, Quantity: qty(8)}}))
	assert.Equal(t, StatusReady, d.Status)
	assert.Equal(t, qty(8), d.Lines[0].QuantityDelivered)
}

func TestDelivery_ZeroOrderedLineCountsAsPacked(t *testing.T) {
	d := newTestDelivery(3, 0)
	require.NoError(t, d.Pick([]Progress{{LineNo: 1, Quantity: qty(3)}}))
	require.NoError(t, d.Pack([]Progress{{LineNo: 1, Quantity: qty(3)}}))
	assert.Equal(t, StatusReady, d.Status)
}

func TestDelivery_ProgressLimits(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *Delivery)
		run   func(d *Delivery) error
		field string
	}{
		{
			name:  "pick above ordered",
			run:   func(d *Delivery) error { return d.Pick([]Progress{{LineNo: 1, Quantity: qty(11)}}) },
			field: "lines.quantityPicked",
		},
		{
			name:  "pack above picked",
			setup: func(d *Delivery) { _ = d.Pick([]Progress{{LineNo: 1, Quantity: qty(2)}}) },
			run:   func(d *Delivery) error { return d.Pack([]Progress{{LineNo: 1, Quantity: qty(3)}}) },
			field: "lines.quantityPacked",
		},
		{
			name: "pick below packed",
			setup: func(d *Delivery) {
				_ = d.Pick([]Progress{{LineNo: 1, Quantity: qty(5)}})
				_ = d.Pack([]Progress{{LineNo: 1, Quantity: qty(4)}})
				d.Status = StatusPicking
			},
			run:   func(d *Delivery) error { return d.Pick([]Progress{{LineNo: 1, Quantity: qty(3)}}) },
			field: "lines.quantityPicked",
		},
		{
			name:  "unknown line",
			run:   func(d *Delivery) error { return d.Pick([]Progress{{LineNo: 2, Quantity: qty(1)}}) },
			field: "items",
		},
		{
			name:  "no items",
			run:   func(d *Delivery) error { return d.Pick(nil) },
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDelivery(10)
			if tt.setup != nil {
				tt.setup(d)
			}
			err := tt.run(d)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "expected AppError, got %v", err)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestDelivery_TransitionsFromWrongStatus(t *testing.T) {
	d := newTestDelivery(1)
	err := d.Pack([]Progress{{LineNo: 1, Quantity: qty(1)}})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidStateTransition))

	d.Status = StatusReady
	err = d.Pick([]Progress{{LineNo: 1, Quantity: qty(1)}})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidStateTransition))
}

func TestDelivery_Validate(t *testing.T) {
	d := newTestDelivery(5)
	d.Lines[0].QuantityDelivered = qty(6)
	err := d.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "lines.quantityDelivered", appErr.Details["field"])

	d = newTestDelivery()
	assert.True(t, apperror.Is(d.Validate(context.Background()), apperror.CodeValidation))

	d = newTestDelivery(1)
	d.Customer.Name = " "
	assert.True(t, apperror.Is(d.Validate(context.Background()), apperror.CodeValidation))
}

func TestDelivery_GenerateMovements(t *testing.T) {
	d := newTestDelivery(5, 3)
	d.Lines[0].QuantityDelivered = qty(5)

	set, err := d.GenerateMovements(context.Background())
	require.NoError(t, err)

	moves := set.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, qty(-5), moves[0].Quantity)
	assert.Equal(t, entity.TransactionDelivery, moves[0].Type)
	assert.Equal(t, "Delivery to Jane", moves[0].Note)
}
