// Package receipt provides the Receipt document: goods arriving from a supplier.
package receipt

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
)

// Receipt increases stock at one location.
type Receipt struct {
	entity.Document

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	LocationID  id.ID `db:"location_id" json:"locationId"`

	Supplier entity.Partner `db:"supplier" json:"supplier"`

	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduledDate,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one product of the receipt.
type Line struct {
	LineID     id.ID `db:"line_id" json:"lineId"`
	DocumentID id.ID `db:"document_id" json:"-"`
	LineNo     int   `db:"line_no" json:"lineNo"`

	ProductID        id.ID          `db:"product_id" json:"productId"`
	QuantityOrdered  types.Quantity `db:"quantity_ordered" json:"quantityOrdered"`
	QuantityReceived types.Quantity `db:"quantity_received" json:"quantityReceived"`
	UnitPrice        types.Money    `db:"unit_price" json:"unitPrice"`
}

// NewReceipt creates a draft receipt.
func NewReceipt(createdBy, warehouseID, locationID id.ID, supplier entity.Partner) *Receipt {
	return &Receipt{
		Document:    entity.NewDocument(createdBy),
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Supplier:    supplier,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line.
func (r *Receipt) AddLine(productID id.ID, ordered, received types.Quantity, unitPrice types.Money) {
	r.Lines = append(r.Lines, Line{
		LineID:           id.New(),
		LineNo:           len(r.Lines) + 1,
		ProductID:        productID,
		QuantityOrdered:  ordered,
		QuantityReceived: received,
		UnitPrice:        unitPrice,
	})
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}
	if err := documents.ValidatePlace(r.place()); err != nil {
		return err
	}
	if err := r.Supplier.ValidatePartner("supplier"); err != nil {
		return err
	}
	if err := documents.ValidateLineCount(len(r.Lines)); err != nil {
		return err
	}

	for i := range r.Lines {
		line := &r.Lines[i]
		line.LineNo = i + 1
		if id.IsNil(line.LineID) {
			line.LineID = id.New()
		}
		if id.IsNil(line.ProductID) {
			return documents.LineError("product is required", line.LineNo, "productId")
		}
		if line.QuantityOrdered.IsNegative() {
			return documents.LineError("quantity ordered cannot be negative", line.LineNo, "quantityOrdered")
		}
		if line.QuantityReceived.IsNegative() {
			return documents.LineError("quantity received cannot be negative", line.LineNo, "quantityReceived")
		}
		if line.UnitPrice.IsNegative() {
			return documents.LineError("unit price cannot be negative", line.LineNo, "unitPrice")
		}
	}
	return nil
}

func (r *Receipt) place() documents.Place {
	return documents.Place{WarehouseID: r.WarehouseID, LocationID: r.LocationID}
}

// References implements documents.Document.
func (r *Receipt) References() documents.References {
	refs := documents.References{Places: []documents.Place{r.place()}}
	for _, l := range r.Lines {
		refs.Products = append(refs.Products, documents.LineProduct{LineNo: l.LineNo, ProductID: l.ProductID})
	}
	return refs
}

// TotalAmount is Σ received × unit price.
func (r *Receipt) TotalAmount() types.Money {
	total := types.ZeroMoney()
	for _, l := range r.Lines {
		total = total.Add(l.QuantityReceived.MulMoney(l.UnitPrice))
	}
	return total
}

// Clone returns a deep copy.
func (r *Receipt) Clone() *Receipt {
	cp := *r
	cp.Document = r.Document.Clone()
	cp.ScheduledDate = cloneTime(r.ScheduledDate)
	cp.Lines = append([]Line(nil), r.Lines...)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// --- Postable interface implementation ---

func (r *Receipt) GetDocumentType() string { return documents.TypeReceipt }

// GenerateMovements adds the received quantity of every line at the receipt location.
func (r *Receipt) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	note := "Receipt from " + r.Supplier.Name
	for _, l := range r.Lines {
		set.Add(posting.Movement{
			StockKey: entity.StockKey{
				ProductID:   l.ProductID,
				WarehouseID: r.WarehouseID,
				LocationID:  r.LocationID,
			},
			Quantity: l.QuantityReceived,
			Type:     entity.TransactionReceipt,
			Note:     note,
			LineNo:   l.LineNo,
		})
	}
	return set, nil
}

var (
	_ posting.Postable   = (*Receipt)(nil)
	_ documents.Document = (*Receipt)(nil)
)
