package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

func TestMovementSet_DropsZeroQuantities(t *testing.T) {
	set := NewMovementSet()
	set.Add(Movement{Quantity: 0, Type: entity.TransactionReceipt})
	assert.True(t, set.IsEmpty())
	assert.Empty(t, set.Keys())
}

func TestMovementSet_KeysAreSortedAndUnique(t *testing.T) {
	a := entity.StockKey{ProductID: id.New(), WarehouseID: id.New(), LocationID: id.New()}
	b := entity.StockKey{ProductID: id.New(), WarehouseID: id.New(), LocationID: id.New()}

	set := NewMovementSet()
	set.Add(Movement{StockKey: b, Quantity: types.NewQuantity(1), LineNo: 1})
	set.Add(Movement{StockKey: a, Quantity: types.NewQuantity(2), LineNo: 2})
	set.Add(Movement{StockKey: b, Quantity: types.NewQuantity(-1), LineNo: 3})

	keys := set.Keys()
	assert.Len(t, keys, 2)
	assert.Negative(t, keys[0].Compare(keys[1]))

	moves := set.Movements()
	assert.Equal(t, []int{1, 2, 3}, []int{moves[0].LineNo, moves[1].LineNo, moves[2].LineNo})
}
