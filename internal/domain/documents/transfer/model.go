// Package transfer provides the InternalTransfer document: stock moved between two locations.
package transfer

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
)

// Transfer moves stock from a source location to a destination location.
type Transfer struct {
	entity.Document

	SourceWarehouseID id.ID `db:"source_warehouse_id" json:"sourceWarehouseId"`
	SourceLocationID  id.ID `db:"source_location_id" json:"sourceLocationId"`

	DestinationWarehouseID id.ID `db:"destination_warehouse_id" json:"destinationWarehouseId"`
	DestinationLocationID  id.ID `db:"destination_location_id" json:"destinationLocationId"`

	// Location names as of the last edit, used in ledger notes
	SourceLocationName      string `db:"source_location_name" json:"sourceLocationName,omitempty"`
	DestinationLocationName string `db:"destination_location_name" json:"destinationLocationName,omitempty"`

	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduledDate,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one product to move.
type Line struct {
	LineID     id.ID `db:"line_id" json:"lineId"`
	DocumentID id.ID `db:"document_id" json:"-"`
	LineNo     int   `db:"line_no" json:"lineNo"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	// QuantityTransferred overrides Quantity when non-zero
	QuantityTransferred types.Quantity `db:"quantity_transferred" json:"quantityTransferred"`
}

// Effective is the quantity actually moved.
func (l Line) Effective() types.Quantity {
	if l.QuantityTransferred.IsZero() {
		return l.Quantity
	}
	return l.QuantityTransferred
}

// NewTransfer creates a draft transfer.
func NewTransfer(createdBy, srcWarehouseID, srcLocationID, dstWarehouseID, dstLocationID id.ID) *Transfer {
	return &Transfer{
		Document:               entity.NewDocument(createdBy),
		SourceWarehouseID:      srcWarehouseID,
		SourceLocationID:       srcLocationID,
		DestinationWarehouseID: dstWarehouseID,
		DestinationLocationID:  dstLocationID,
		Lines:                  make([]Line, 0),
	}
}

// AddLine appends a line.
func (t *Transfer) AddLine(productID id.ID, quantity types.Quantity) {
	t.Lines = append(t.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(t.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
func (t *Transfer) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}
	for _, p := range t.places() {
		if err := documents.ValidatePlace(p); err != nil {
			return err
		}
	}
	if t.SourceWarehouseID == t.DestinationWarehouseID && t.SourceLocationID == t.DestinationLocationID {
		return apperror.NewValidation("source and destination must differ").
			WithDetail("field", "destinationLocationId")
	}
	if err := documents.ValidateLineCount(len(t.Lines)); err != nil {
		return err
	}

	for i := range t.Lines {
		line := &t.Lines[i]
		line.LineNo = i + 1
		if id.IsNil(line.LineID) {
			line.LineID = id.New()
		}
		if id.IsNil(line.ProductID) {
			return documents.LineError("product is required", line.LineNo, "productId")
		}
		if line.Quantity.IsNegative() {
			return documents.LineError("quantity cannot be negative", line.LineNo, "quantity")
		}
		if line.QuantityTransferred.IsNegative() {
			return documents.LineError("quantity transferred cannot be negative", line.LineNo, "quantityTransferred")
		}
	}
	return nil
}

// Dispatch sends a draft transfer on its way. The ledger moves only on validation.
func (t *Transfer) Dispatch() error {
	return t.Advance("dispatch", StatusInTransit, entity.StatusDraft)
}

func (t *Transfer) places() []documents.Place {
	return []documents.Place{
		{Field: placeSource, WarehouseID: t.SourceWarehouseID, LocationID: t.SourceLocationID},
		{Field: placeDestination, WarehouseID: t.DestinationWarehouseID, LocationID: t.DestinationLocationID},
	}
}

// References implements documents.Document.
func (t *Transfer) References() documents.References {
	refs := documents.References{Places: t.places()}
	for _, l := range t.Lines {
		refs.Products = append(refs.Products, documents.LineProduct{LineNo: l.LineNo, ProductID: l.ProductID})
	}
	return refs
}

// SetPlaceName implements documents.PlaceNamer.
func (t *Transfer) SetPlaceName(field, name string) {
	switch field {
	case placeSource:
		t.SourceLocationName = name
	case placeDestination:
		t.DestinationLocationName = name
	}
}

// Clone returns a deep copy.
func (t *Transfer) Clone() *Transfer {
	cp := *t
	cp.Document = t.Document.Clone()
	if t.ScheduledDate != nil {
		d := *t.ScheduledDate
		cp.ScheduledDate = &d
	}
	cp.Lines = append([]Line(nil), t.Lines...)
	return &cp
}

// --- Postable interface implementation ---

func (t *Transfer) GetDocumentType() string { return documents.TypeTransfer }

// GenerateMovements emits, per line, a transfer_out at the source followed by a transfer_in at the destination.
func (t *Transfer) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	for _, l := range t.Lines {
		qty := l.Effective()
		set.Add(posting.Movement{
			StockKey: entity.StockKey{
				ProductID:   l.ProductID,
				WarehouseID: t.SourceWarehouseID,
				LocationID:  t.SourceLocationID,
			},
			Quantity: qty.Neg(),
			Type:     entity.TransactionTransferOut,
			Note:     "Transfer to " + placeLabel(t.DestinationLocationName, t.DestinationLocationID),
			LineNo:   l.LineNo,
		})
		set.Add(posting.Movement{
			StockKey: entity.StockKey{
				ProductID:   l.ProductID,
				WarehouseID: t.DestinationWarehouseID,
				LocationID:  t.DestinationLocationID,
			},
			Quantity: qty,
			Type:     entity.TransactionTransferIn,
			Note:     "Transfer from " + placeLabel(t.SourceLocationName, t.SourceLocationID),
			LineNo:   l.LineNo,
		})
	}
	return set, nil
}

func placeLabel(name string, locationID id.ID) string {
	if name != "" {
		return name
	}
	return locationID.String()
}

var (
	_ posting.Postable     = (*Transfer)(nil)
	_ documents.Document   = (*Transfer)(nil)
	_ documents.PlaceNamer = (*Transfer)(nil)
)
