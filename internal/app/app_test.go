package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/app"
	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/product"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
	"github.com/ravikhokle/oddostock/internal/domain/events"
	"github.com/ravikhokle/oddostock/internal/domain/registers/stock"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/memory"
)

var ctx = context.Background()

type fixture struct {
	store *memory.Store
	svc   *app.Services
	user  id.ID

	wh    *warehouse.Warehouse
	main  *location.Location
	shelf *location.Location

	widget *product.Product
	gadget *product.Product

	mu     sync.Mutex
	events []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: memory.NewStore(), user: id.New()}
	bus := events.NewBus()
	bus.Subscribe(func(_ context.Context, e events.Event) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.events = append(f.events, e)
	})
	f.svc = app.New(f.store.Repositories(), bus)

	f.wh = warehouse.NewWarehouse("WH", "Main Warehouse")
	require.NoError(t, f.svc.Warehouses.Create(ctx, f.wh))

	f.main = location.NewLocation(f.wh.ID, "Stock")
	require.NoError(t, f.svc.Locations.Create(ctx, f.main))
	f.shelf = location.NewLocation(f.wh.ID, "Shelf A")
	require.NoError(t, f.svc.Locations.Create(ctx, f.shelf))

	f.widget = product.NewProduct("wid-1", "Widget")
	f.widget.Cost = types.MustMoney("2.50")
	f.widget.ReorderLevel = types.NewQuantity(10)
	require.NoError(t, f.svc.Products.Create(ctx, f.widget))

	f.gadget = product.NewProduct("gad-1", "Gadget")
	require.NoError(t, f.svc.Products.Create(ctx, f.gadget))

	return f
}

func (f *fixture) receive(t *testing.T, p *product.Product, loc *location.Location, qty int64) *receipt.Receipt {
	t.Helper()
	r := receipt.NewReceipt(f.user, f.wh.ID, loc.ID, entity.Partner{Name: "Acme Supplies"})
	r.AddLine(p.ID, types.NewQuantity(qty), types.NewQuantity(qty), types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, r))
	done, err := f.svc.Receipts.Validate(ctx, r.ID, f.user)
	require.NoError(t, err)
	return done
}

// readyDelivery creates a delivery and picks and packs every line in full.
func (f *fixture) readyDelivery(t *testing.T, lines map[*product.Product]int64) *delivery.Delivery {
	t.Helper()
	d := delivery.NewDelivery(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Jane Customer"})
	var items []delivery.Progress
	for p, qty := range lines {
		d.AddLine(p.ID, types.NewQuantity(qty), types.ZeroMoney())
		items = append(items, delivery.Progress{LineNo: len(d.Lines), Quantity: types.NewQuantity(qty)})
	}
	require.NoError(t, f.svc.Deliveries.Create(ctx, d))
	_, err := f.svc.Deliveries.Pick(ctx, d.ID, items)
	require.NoError(t, err)
	packed, err := f.svc.Deliveries.Pack(ctx, d.ID, items)
	require.NoError(t, err)
	require.Equal(t, delivery.StatusReady, packed.Status)
	return packed
}

func (f *fixture) level(t *testing.T, p *product.Product, loc *location.Location) types.Quantity {
	t.Helper()
	var whID, locID *id.ID
	if loc != nil {
		whID, locID = &f.wh.ID, &loc.ID
	}
	q, err := f.svc.Stock.GetStockLevel(ctx, p.ID, whID, locID)
	require.NoError(t, err)
	return q
}

func (f *fixture) entries(t *testing.T, refID id.ID) []entity.LedgerEntry {
	t.Helper()
	out, err := f.svc.Stock.History(ctx, stock.HistoryFilter{ReferenceID: &refID})
	require.NoError(t, err)
	return out
}

func (f *fixture) eventTypes() []events.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.Type, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func defaultFilter() documents.ListFilter {
	return documents.DefaultListFilter()
}

func assertCode(t *testing.T, err error, code string) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestReceiveDeliverAndShortage(t *testing.T) {
	f := newFixture(t)

	r := f.receive(t, f.widget, f.main, 100)
	assert.Equal(t, entity.StatusDone, r.Status)
	assert.Equal(t, "RCP-000001", r.Number)
	assert.Equal(t, types.NewQuantity(100), f.level(t, f.widget, nil))

	d1 := f.readyDelivery(t, map[*product.Product]int64{f.widget: 30})
	done, err := f.svc.Deliveries.Validate(ctx, d1.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, done.Status)
	assert.Equal(t, types.NewQuantity(70), f.level(t, f.widget, f.main))

	d2 := f.readyDelivery(t, map[*product.Product]int64{f.widget: 200})
	_, err = f.svc.Deliveries.Validate(ctx, d2.ID, f.user)
	appErr := assertCode(t, err, apperror.CodeInsufficientStock)
	assert.Equal(t, f.widget.ID.String(), appErr.Details["product_id"])
	assert.Equal(t, "200", appErr.Details["requested"])
	assert.Equal(t, "70", appErr.Details["available"])

	assert.Equal(t, types.NewQuantity(70), f.level(t, f.widget, nil))
	assert.Empty(t, f.entries(t, d2.ID))

	stored, err := f.svc.Deliveries.Get(ctx, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusReady, stored.Status)
	assert.Nil(t, stored.ValidatedBy)
}

func TestValidateIsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	r := f.receive(t, f.widget, f.main, 5)

	_, err := f.svc.Receipts.Validate(ctx, r.ID, f.user)
	assertCode(t, err, apperror.CodeAlreadyValidated)

	assert.Len(t, f.entries(t, r.ID), 1)
	assert.Equal(t, types.NewQuantity(5), f.level(t, f.widget, nil))
}

func TestValidateErrorOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Deliveries.Validate(ctx, id.New(), f.user)
	assertCode(t, err, apperror.CodeNotFound)

	// Done is reported before any shortage.
	f.receive(t, f.widget, f.main, 10)
	d := f.readyDelivery(t, map[*product.Product]int64{f.widget: 10})
	_, err = f.svc.Deliveries.Validate(ctx, d.ID, f.user)
	require.NoError(t, err)
	_, err = f.svc.Deliveries.Validate(ctx, d.ID, f.user)
	assertCode(t, err, apperror.CodeAlreadyValidated)
}

func TestConcurrentValidationOfSameDocument(t *testing.T) {
	f := newFixture(t)
	r := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.widget.ID, types.NewQuantity(7), types.NewQuantity(7), types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, r))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		already   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Receipts.Validate(ctx, r.ID, f.user)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.Is(err, apperror.CodeAlreadyValidated):
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, already)
	assert.Equal(t, types.NewQuantity(7), f.level(t, f.widget, nil))
}

func TestConcurrentDeliveriesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 10)

	deliveries := make([]*delivery.Delivery, 20)
	for i := range deliveries {
		deliveries[i] = f.readyDelivery(t, map[*product.Product]int64{f.widget: 1})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for _, d := range deliveries {
		wg.Add(1)
		go func(docID id.ID) {
			defer wg.Done()
			_, err := f.svc.Deliveries.Validate(ctx, docID, f.user)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.Is(err, apperror.CodeInsufficientStock):
				short++
			}
		}(d.ID)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, short)
	assert.Equal(t, types.Quantity(0), f.level(t, f.widget, f.main))

	history, err := f.svc.Stock.History(ctx, stock.HistoryFilter{ProductID: &f.widget.ID})
	require.NoError(t, err)
	require.Len(t, history, 11)
	// Newest first: running balances count down 0..9 then the receipt at 10.
	for i, e := range history {
		assert.Equal(t, types.NewQuantity(int64(i)), e.RunningBalance)
	}
}

func TestFailedValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 50)
	f.receive(t, f.gadget, f.main, 1)

	d := delivery.NewDelivery(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Jane"})
	d.AddLine(f.widget.ID, types.NewQuantity(20), types.ZeroMoney())
	d.AddLine(f.gadget.ID, types.NewQuantity(5), types.ZeroMoney())
	require.NoError(t, f.svc.Deliveries.Create(ctx, d))
	items := []delivery.Progress{
		{LineNo: 1, Quantity: types.NewQuantity(20)},
		{LineNo: 2, Quantity: types.NewQuantity(5)},
	}
	_, err := f.svc.Deliveries.Pick(ctx, d.ID, items)
	require.NoError(t, err)
	_, err = f.svc.Deliveries.Pack(ctx, d.ID, items)
	require.NoError(t, err)

	before := len(f.eventTypes())
	_, err = f.svc.Deliveries.Validate(ctx, d.ID, f.user)
	appErr := assertCode(t, err, apperror.CodeInsufficientStock)
	assert.Equal(t, 2, appErr.Details["lineNo"])

	assert.Equal(t, types.NewQuantity(50), f.level(t, f.widget, nil))
	assert.Equal(t, types.NewQuantity(1), f.level(t, f.gadget, nil))
	assert.Empty(t, f.entries(t, d.ID))
	assert.Len(t, f.eventTypes(), before)
}

func TestDuplicateLinesCompound(t *testing.T) {
	f := newFixture(t)

	r := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.widget.ID, types.NewQuantity(10), types.NewQuantity(10), types.ZeroMoney())
	r.AddLine(f.widget.ID, types.NewQuantity(5), types.NewQuantity(5), types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, r))
	_, err := f.svc.Receipts.Validate(ctx, r.ID, f.user)
	require.NoError(t, err)

	entries := f.entries(t, r.ID)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, types.NewQuantity(15), entries[0].RunningBalance)
	assert.Equal(t, types.NewQuantity(10), entries[1].RunningBalance)

	// Two delivery lines of 8 against 15 fail on the second line.
	d := delivery.NewDelivery(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Jane"})
	d.AddLine(f.widget.ID, types.NewQuantity(8), types.ZeroMoney())
	d.AddLine(f.widget.ID, types.NewQuantity(8), types.ZeroMoney())
	d.Lines[0].QuantityPicked, d.Lines[0].QuantityPacked, d.Lines[0].QuantityDelivered = types.NewQuantity(8), types.NewQuantity(8), types.NewQuantity(8)
	d.Lines[1].QuantityPicked, d.Lines[1].QuantityPacked, d.Lines[1].QuantityDelivered = types.NewQuantity(8), types.NewQuantity(8), types.NewQuantity(8)
	require.NoError(t, f.svc.Deliveries.Create(ctx, d))

	_, err = f.svc.Deliveries.Validate(ctx, d.ID, f.user)
	appErr := assertCode(t, err, apperror.CodeInsufficientStock)
	assert.Equal(t, 2, appErr.Details["lineNo"])
	assert.Equal(t, "7", appErr.Details["available"])
}

func TestZeroReceivedReceiptCompletesWithoutEntries(t *testing.T) {
	f := newFixture(t)

	r := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.widget.ID, types.NewQuantity(10), 0, types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, r))

	done, err := f.svc.Receipts.Validate(ctx, r.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, done.Status)
	require.NotNil(t, done.ValidatedBy)
	assert.Equal(t, f.user, *done.ValidatedBy)
	assert.Empty(t, f.entries(t, r.ID))
}

func TestCancelRules(t *testing.T) {
	f := newFixture(t)

	r := f.receive(t, f.widget, f.main, 3)
	_, err := f.svc.Receipts.Cancel(ctx, r.ID)
	assertCode(t, err, apperror.CodeInvalidStateTransition)

	d := delivery.NewDelivery(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Jane"})
	d.AddLine(f.widget.ID, types.NewQuantity(1), types.ZeroMoney())
	require.NoError(t, f.svc.Deliveries.Create(ctx, d))

	cancelled, err := f.svc.Deliveries.Cancel(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	published := len(f.eventTypes())
	again, err := f.svc.Deliveries.Cancel(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, again.Status)
	assert.Equal(t, cancelled.Version, again.Version, "repeat cancel must not write")
	assert.Len(t, f.eventTypes(), published)

	_, err = f.svc.Deliveries.Validate(ctx, d.ID, f.user)
	assertCode(t, err, apperror.CodeInvalidStateTransition)
	_, err = f.svc.Deliveries.Pick(ctx, d.ID, []delivery.Progress{{LineNo: 1, Quantity: types.NewQuantity(1)}})
	assertCode(t, err, apperror.CodeInvalidStateTransition)

	assert.Equal(t, types.NewQuantity(3), f.level(t, f.widget, nil))
	assert.Contains(t, f.eventTypes(), events.DocumentCancelled)
}

func TestUpdateRejectedAfterDone(t *testing.T) {
	f := newFixture(t)
	r := f.receive(t, f.widget, f.main, 3)

	_, err := f.svc.Receipts.Update(ctx, r.ID, func(doc *receipt.Receipt) error {
		doc.Notes = "late edit"
		return nil
	})
	assertCode(t, err, apperror.CodeInvalidStateTransition)
}

func TestTransferIsSymmetric(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 50)

	tr := transfer.NewTransfer(f.user, f.wh.ID, f.main.ID, f.wh.ID, f.shelf.ID)
	tr.AddLine(f.widget.ID, types.NewQuantity(20))
	require.NoError(t, f.svc.Transfers.Create(ctx, tr))
	assert.Equal(t, "TRF-000001", tr.Number)

	dispatched, err := f.svc.Transfers.Dispatch(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusInTransit, dispatched.Status)

	done, err := f.svc.Transfers.Validate(ctx, tr.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, done.Status)

	assert.Equal(t, types.NewQuantity(30), f.level(t, f.widget, f.main))
	assert.Equal(t, types.NewQuantity(20), f.level(t, f.widget, f.shelf))
	assert.Equal(t, types.NewQuantity(50), f.level(t, f.widget, nil))

	entries := f.entries(t, tr.ID)
	require.Len(t, entries, 2)
	out, in := entries[1], entries[0]
	assert.Equal(t, entity.TransactionTransferOut, out.TransactionType)
	assert.Equal(t, types.NewQuantity(-20), out.Quantity)
	assert.Equal(t, "Transfer to Shelf A", out.Note)
	assert.Equal(t, entity.TransactionTransferIn, in.TransactionType)
	assert.Equal(t, types.NewQuantity(20), in.Quantity)
	assert.Equal(t, "Transfer from Stock", in.Note)
}

func TestTransferChecksSourceStock(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 5)

	tr := transfer.NewTransfer(f.user, f.wh.ID, f.main.ID, f.wh.ID, f.shelf.ID)
	tr.AddLine(f.widget.ID, types.NewQuantity(6))
	require.NoError(t, f.svc.Transfers.Create(ctx, tr))

	_, err := f.svc.Transfers.Validate(ctx, tr.ID, f.user)
	assertCode(t, err, apperror.CodeInsufficientStock)
	assert.Equal(t, types.Quantity(0), f.level(t, f.widget, f.shelf))
	assert.Equal(t, types.NewQuantity(5), f.level(t, f.widget, f.main))
}

func TestTransferRejectsSamePlace(t *testing.T) {
	f := newFixture(t)
	tr := transfer.NewTransfer(f.user, f.wh.ID, f.main.ID, f.wh.ID, f.main.ID)
	tr.AddLine(f.widget.ID, types.NewQuantity(1))

	err := f.svc.Transfers.Create(ctx, tr)
	appErr := assertCode(t, err, apperror.CodeValidation)
	assert.Equal(t, "destinationLocationId", appErr.Details["field"])
}

func TestAdjustmentSign(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 100)

	down := adjustment.NewAdjustment(f.user, f.wh.ID, f.main.ID)
	down.AddLine(f.widget.ID, types.NewQuantity(100), types.NewQuantity(80), adjustment.ReasonDamaged, "water")
	require.NoError(t, f.svc.Adjustments.Create(ctx, down))
	_, err := f.svc.Adjustments.Validate(ctx, down.ID, f.user)
	require.NoError(t, err)

	entries := f.entries(t, down.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, types.NewQuantity(-20), entries[0].Quantity)
	assert.Equal(t, "Stock adjustment - damaged: water", entries[0].Note)
	assert.Equal(t, types.NewQuantity(80), f.level(t, f.widget, nil))

	up := adjustment.NewAdjustment(f.user, f.wh.ID, f.main.ID)
	up.AddLine(f.widget.ID, types.NewQuantity(100), types.NewQuantity(120), adjustment.ReasonFound, "")
	require.NoError(t, f.svc.Adjustments.Create(ctx, up))
	_, err = f.svc.Adjustments.Validate(ctx, up.ID, f.user)
	require.NoError(t, err)

	entries = f.entries(t, up.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, types.NewQuantity(20), entries[0].Quantity)
	assert.Equal(t, types.NewQuantity(100), f.level(t, f.widget, nil))
}

func TestAdjustmentMayGoNegative(t *testing.T) {
	f := newFixture(t)

	adj := adjustment.NewAdjustment(f.user, f.wh.ID, f.shelf.ID)
	adj.AddLine(f.gadget.ID, types.NewQuantity(4), 0, adjustment.ReasonLost, "")
	require.NoError(t, f.svc.Adjustments.Create(ctx, adj))
	_, err := f.svc.Adjustments.Validate(ctx, adj.ID, f.user)
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantity(-4), f.level(t, f.gadget, f.shelf))
}

func TestProjectionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 12)

	first := f.level(t, f.widget, nil)
	second := f.level(t, f.widget, nil)
	assert.Equal(t, first, second)

	breakdown, err := f.svc.Stock.Breakdown(ctx, f.widget.ID)
	require.NoError(t, err)
	require.Len(t, breakdown, 1)
	assert.Equal(t, first, breakdown[0].Quantity)
}

func TestInitialStockIsBaselineOnly(t *testing.T) {
	f := newFixture(t)

	p := product.NewProduct("boot-1", "Bootstrapped")
	p.InitialStock = types.NewQuantity(25)
	require.NoError(t, f.svc.Products.Create(ctx, p))

	assert.Equal(t, types.NewQuantity(25), f.level(t, p, nil))
	assert.Equal(t, types.Quantity(0), f.level(t, p, f.main))

	f.receive(t, p, f.main, 10)
	assert.Equal(t, types.NewQuantity(10), f.level(t, p, nil))
}

func TestStockLevelUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Stock.GetStockLevel(ctx, id.New(), nil, nil)
	assertCode(t, err, apperror.CodeNotFound)
}

func TestCreateRejectsBadReferences(t *testing.T) {
	f := newFixture(t)

	r := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.widget.ID, types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	r.AddLine(id.New(), types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	appErr := assertCode(t, f.svc.Receipts.Create(ctx, r), apperror.CodeValidation)
	assert.Equal(t, 2, appErr.Details["lineNo"])
	assert.Equal(t, "lines.productId", appErr.Details["field"])

	other := warehouse.NewWarehouse("WH2", "Second")
	require.NoError(t, f.svc.Warehouses.Create(ctx, other))
	r = receipt.NewReceipt(f.user, other.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.widget.ID, types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	appErr = assertCode(t, f.svc.Receipts.Create(ctx, r), apperror.CodeValidation)
	assert.Equal(t, "locationId", appErr.Details["field"])

	_, err := f.svc.Products.Deactivate(ctx, f.gadget.ID)
	require.NoError(t, err)
	r = receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	r.AddLine(f.gadget.ID, types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	appErr = assertCode(t, f.svc.Receipts.Create(ctx, r), apperror.CodeValidation)
	assert.Equal(t, "product is inactive", appErr.Message)
}

func TestNumbersAreSequentialPerKind(t *testing.T) {
	f := newFixture(t)
	a := f.receive(t, f.widget, f.main, 1)
	b := f.receive(t, f.widget, f.main, 1)
	assert.Equal(t, "RCP-000001", a.Number)
	assert.Equal(t, "RCP-000002", b.Number)

	d := delivery.NewDelivery(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Jane"})
	d.AddLine(f.widget.ID, types.NewQuantity(1), types.ZeroMoney())
	require.NoError(t, f.svc.Deliveries.Create(ctx, d))
	assert.Equal(t, "DEL-000001", d.Number)
}

func TestEventsFollowCommit(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 4)

	assert.Equal(t, []events.Type{
		events.DocumentCreated,
		events.DocumentValidated,
		events.StockUpdated,
	}, f.eventTypes())

	f.mu.Lock()
	payload, ok := f.events[2].Payload.(events.StockPayload)
	f.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, types.NewQuantity(4), payload.Quantity)
	assert.Equal(t, f.main.ID, payload.LocationID)
}

func TestAuditTrail(t *testing.T) {
	f := newFixture(t)
	r := f.receive(t, f.widget, f.main, 4)

	records := f.store.Audit.Records(r.ID)
	require.Len(t, records, 2)
	assert.Equal(t, "create", string(records[0].Action))
	assert.Equal(t, "validate", string(records[1].Action))
	assert.Equal(t, f.user, records[1].UserID)
}

func TestDocumentListFilters(t *testing.T) {
	f := newFixture(t)
	done := f.receive(t, f.widget, f.main, 1)

	draft := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	draft.AddLine(f.widget.ID, types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, draft))

	all, err := f.svc.Receipts.List(ctx, defaultFilter())
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, draft.ID, all.Items[0].ID)

	filter := defaultFilter()
	filter.Statuses = []entity.DocumentStatus{entity.StatusDone}
	onlyDone, err := f.svc.Receipts.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, onlyDone.Items, 1)
	assert.Equal(t, done.ID, onlyDone.Items[0].ID)

	other := id.New()
	filter = defaultFilter()
	filter.WarehouseID = &other
	none, err := f.svc.Receipts.List(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.receive(t, f.widget, f.main, 40)

	pending := receipt.NewReceipt(f.user, f.wh.ID, f.main.ID, entity.Partner{Name: "Acme"})
	pending.AddLine(f.widget.ID, types.NewQuantity(1), types.NewQuantity(1), types.ZeroMoney())
	require.NoError(t, f.svc.Receipts.Create(ctx, pending))

	f.readyDelivery(t, map[*product.Product]int64{f.widget: 1})

	tr := transfer.NewTransfer(f.user, f.wh.ID, f.main.ID, f.wh.ID, f.shelf.ID)
	tr.AddLine(f.widget.ID, types.NewQuantity(1))
	require.NoError(t, f.svc.Transfers.Create(ctx, tr))
	_, err := f.svc.Transfers.Dispatch(ctx, tr.ID)
	require.NoError(t, err)

	d, err := f.svc.Reports.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ActiveProducts)
	assert.Equal(t, 1, d.OutOfStock)
	assert.Equal(t, 1, d.LowStock)
	assert.Equal(t, int64(1), d.PendingReceipts)
	assert.Equal(t, int64(1), d.PendingDeliveries)
	assert.Equal(t, int64(1), d.ScheduledTransfers)
	assert.True(t, types.MustMoney("100").Equal(d.StockValue), "stock value %s", d.StockValue)
}
