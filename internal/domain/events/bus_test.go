package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	var a, b []Type
	bus.Subscribe(func(_ context.Context, e Event) { a = append(a, e.Type) })
	bus.Subscribe(func(_ context.Context, e Event) { b = append(b, e.Type) })

	docID := id.New()
	bus.Publish(context.Background(),
		NewDocumentEvent(DocumentCreated, "receipt", docID, "RCP-000001", entity.StatusDraft, id.New()),
		NewDocumentEvent(DocumentValidated, "receipt", docID, "RCP-000001", entity.StatusDone, id.New()),
	)

	assert.Equal(t, []Type{DocumentCreated, DocumentValidated}, a)
	assert.Equal(t, a, b)
}

func TestBus_RecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus()
	delivered := 0
	bus.Subscribe(func(context.Context, Event) { panic("boom") })
	bus.Subscribe(func(context.Context, Event) { delivered++ })

	balance := entity.StockBalance{
		StockKey: entity.StockKey{ProductID: id.New(), WarehouseID: id.New(), LocationID: id.New()},
		Quantity: types.NewQuantity(70),
	}

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), NewStockUpdated(balance, id.New(), "DEL-000001"))
	})
	assert.Equal(t, 1, delivered)
}

func TestNewStockUpdated_CarriesBalance(t *testing.T) {
	key := entity.StockKey{ProductID: id.New(), WarehouseID: id.New(), LocationID: id.New()}
	e := NewStockUpdated(entity.StockBalance{StockKey: key, Quantity: types.NewQuantity(5)}, id.New(), "RCP-000002")

	payload, ok := e.Payload.(StockPayload)
	assert.True(t, ok)
	assert.Equal(t, StockUpdated, e.Type)
	assert.Equal(t, key, payload.StockKey)
	assert.Equal(t, types.NewQuantity(5), payload.Quantity)
	assert.Equal(t, key.ProductID, e.AggregateID)
}
