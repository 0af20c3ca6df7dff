// Package delivery provides the Delivery document: goods leaving for a customer.
// A delivery moves draft → picking → packing → ready → done, or to cancelled before done.
package delivery

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

// Delivery decreases stock at one location.
type Delivery struct {
	entity.Document

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	LocationID  id.ID `db:"location_id" json:"locationId"`

	Customer entity.Partner `db:"customer" json:"customer"`

	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduledDate,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line tracks the progress of one product through picking and packing.
type Line struct {
	LineID     id.ID `db:"line_id" json:"lineId"`
	DocumentID id.ID `db:"document_id" json:"-"`
	LineNo     int   `db:"line_no" json:"lineNo"`

	ProductID         id.ID          `db:"product_id" json:"productId"`
	QuantityOrdered   types.Quantity `db:"quantity_ordered" json:"quantityOrdered"`
	QuantityPicked    types.Quantity `db:"quantity_picked" json:"quantityPicked"`
	QuantityPacked    types.Quantity `db:"quantity_packed" json:"quantityPacked"`
	QuantityDelivered types.Quantity `db:"quantity_delivered" json:"quantityDelivered"`
	UnitPrice         types.Money    `db:"unit_price" json:"unitPrice"`
}

// isPacked reports whether everything picked for the line has been packed.
func (l Line) isPacked() bool {
	if l.QuantityOrdered.IsZero() {
		return true
	}
	return l.QuantityPicked.IsPositive() && l.QuantityPacked == l.QuantityPicked
}

// Progress sets the picked or packed quantity of one line.
type Progress struct {
	LineNo   int            `json:"lineNo"`
	Quantity types.Quantity `json:"quantity"`
}

// NewDelivery creates a draft delivery.
func NewDelivery(createdBy, warehouseID, locationID id.ID, customer entity.Partner) *Delivery {
	return &Delivery{
		Document:    entity.NewDocument(createdBy),
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Customer:    customer,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line with nothing picked yet.
func (d *Delivery) AddLine(productID id.ID, ordered types.Quantity, unitPrice types.Money) {
	d.Lines = append(d.Lines, Line{
		LineID:          id.New(),
		LineNo:          len(d.Lines) + 1,
		ProductID:       productID,
		QuantityOrdered: ordered,
		UnitPrice:       unitPrice,
	})
}

// Validate implements entity.Validatable.
func (d *Delivery) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if err := documents.ValidatePlace(d.place()); err != nil {
		return err
	}
	if err := d.Customer.ValidatePartner("customer"); err != nil {
		return err
	}
	if err := documents.ValidateLineCount(len(d.Lines)); err != nil {
		return err
	}

	for i := range d.Lines {
		line := &d.Lines[i]
		line.LineNo = i + 1
		if id.IsNil(line.LineID) {
			line.LineID = id.New()
		}
		if id.IsNil(line.ProductID) {
			return documents.LineError("product is required", line.LineNo, "productId")
		}
		for field, q := range map[string]types.Quantity{
			"quantityOrdered":   line.QuantityOrdered,
			"quantityPicked":    line.QuantityPicked,
			"quantityPacked":    line.QuantityPacked,
			"quantityDelivered": line.QuantityDelivered,
		} {
			if q.IsNegative() {
				return documents.LineError(field+" cannot be negative", line.LineNo, field)
			}
		}
		if line.QuantityPicked > line.QuantityOrdered {
			return documents.LineError("picked quantity exceeds ordered", line.LineNo, "quantityPicked")
		}
		if line.QuantityPacked > line.QuantityPicked {
			return documents.LineError("packed quantity exceeds picked", line.LineNo, "quantityPacked")
		}
		if line.QuantityDelivered > line.QuantityOrdered {
			return documents.LineError("delivered quantity exceeds ordered", line.LineNo, "quantityDelivered")
		}
		if line.UnitPrice.IsNegative() {
			return documents.LineError("unit price cannot be negative", line.LineNo, "unitPrice")
		}
	}
	return nil
}

// Pick records picked quantities and moves the delivery to picking.
// Allowed from draft and picking.
func (d *Delivery) Pick(items []Progress) error {
	if err := d.Advance("pick", StatusPicking, entity.StatusDraft, StatusPicking); err != nil {
		return err
	}
	return d.applyProgress(items, func(l *Line, q types.Quantity) error {
		if q > l.QuantityOrdered {
			return documents.LineError("picked quantity exceeds ordered", l.LineNo, "quantityPicked")
		}
		if q < l.QuantityPacked {
			return documents.LineError("picked quantity is below packed", l.LineNo, "quantityPicked")
		}
		l.QuantityPicked = q
		return nil
	})
}

// Pack records packed quantities, which are also the quantities that will be delivered.
// Allowed from picking and packing; the delivery becomes ready once every line is packed.
func (d *Delivery) Pack(items []Progress) error {
	if err := d.Advance("pack", StatusPacking, StatusPicking, StatusPacking); err != nil {
		return err
	}
	err := d.applyProgress(items, func(l *Line, q types.Quantity) error {
		if q > l.QuantityPicked {
			return documents.LineError("packed quantity exceeds picked", l.LineNo, "quantityPacked")
		}
		l.QuantityPacked = q
		l.QuantityDelivered = q
		return nil
	})
	if err != nil {
		return err
	}
	if d.allPacked() {
		d.Status = StatusReady
	}
	return nil
}

func (d *Delivery) applyProgress(items []Progress, apply func(l *Line, q types.Quantity) error) error {
	if len(items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for _, it := range items {
		if it.LineNo < 1 || it.LineNo > len(d.Lines) {
			return apperror.NewValidation("unknown line").
				WithDetail("field", "items").
				WithDetail("lineNo", it.LineNo)
		}
		if it.Quantity.IsNegative() {
			return documents.LineError("quantity cannot be negative", it.LineNo, "quantity")
		}
		if err := apply(&d.Lines[it.LineNo-1], it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (d *Delivery) allPacked() bool {
	for _, l := range d.Lines {
		if !l.isPacked() {
			return false
		}
	}
	return true
}

func (d *Delivery) place() documents.Place {
	return documents.Place{WarehouseID: d.WarehouseID, LocationID: d.LocationID}
}

// References implements documents.Document.
func (d *Delivery) References() documents.References {
	refs := documents.References{Places: []documents.Place{d.place()}}
	for _, l := range d.Lines {
		refs.Products = append(refs.Products, documents.LineProduct{LineNo: l.LineNo, ProductID: l.ProductID})
	}
	return refs
}

// TotalAmount is Σ delivered × unit price.
func (d *Delivery) TotalAmount() types.Money {
	total := types.ZeroMoney()
	for _, l := range d.Lines {
		total = total.Add(l.QuantityDelivered.MulMoney(l.UnitPrice))
	}
	return total
}

// Clone returns a deep copy.
func (d *Delivery) Clone() *Delivery {
	cp := *d
	cp.Document = d.Document.Clone()
	if d.ScheduledDate != nil {
		t := *d.ScheduledDate
		cp.ScheduledDate = &t
	}
	cp.Lines = append([]Line(nil), d.Lines...)
	return &cp
}

// --- Postable interface implementation ---

func (d *Delivery) GetDocumentType() string { return documents.TypeDelivery }

// GenerateMovements removes the delivered quantity of every line from the delivery location.
func (d *Delivery) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	note := "Delivery to " + d.Customer.Name
	for _, l := range d.Lines {
		set.Add(posting.Movement{
			StockKey: entity.StockKey{
				ProductID:   l.ProductID,
				WarehouseID: d.WarehouseID,
				LocationID:  d.LocationID,
			},
			Quantity: l.QuantityDelivered.Neg(),
			Type:     entity.TransactionDelivery,
			Note:     note,
			LineNo:   l.LineNo,
		})
	}
	return set, nil
}

var (
	_ posting.Postable   = (*Delivery)(nil)
	_ documents.Document = (*Delivery)(nil)
)
