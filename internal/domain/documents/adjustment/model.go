// Package adjustment provides the StockAdjustment document: corrections after a physical count.
package adjustment

import (
	"context"
	"strings"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
)

// Reason explains an adjustment line.
type Reason string

const (
	ReasonDamaged    Reason = "damaged"
	ReasonLost       Reason = "lost"
	ReasonFound      Reason = "found"
	ReasonExpired    Reason = "expired"
	ReasonTheft      Reason = "theft"
	ReasonCycleCount Reason = "cycle_count"
	ReasonOther      Reason = "other"
)

func (r Reason) IsValid() bool {
	switch r {
	case ReasonDamaged, ReasonLost, ReasonFound, ReasonExpired, ReasonTheft, ReasonCycleCount, ReasonOther:
		return true
	}
	return false
}

// Adjustment corrects stock at one location to counted quantities.
// It is never refused for lack of stock.
type Adjustment struct {
	entity.Document

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	LocationID  id.ID `db:"location_id" json:"locationId"`

	AdjustmentDate time.Time `db:"adjustment_date" json:"adjustmentDate"`

	Lines []Line `db:"-" json:"lines"`
}

// Line compares the recorded and counted quantity of a product.
type Line struct {
	LineID     id.ID `db:"line_id" json:"lineId"`
	DocumentID id.ID `db:"document_id" json:"-"`
	LineNo     int   `db:"line_no" json:"lineNo"`

	ProductID        id.ID          `db:"product_id" json:"productId"`
	RecordedQuantity types.Quantity `db:"recorded_quantity" json:"recordedQuantity"`
	CountedQuantity  types.Quantity `db:"counted_quantity" json:"countedQuantity"`

	// Difference is always CountedQuantity - RecordedQuantity
	Difference types.Quantity `db:"difference" json:"difference"`

	Reason Reason `db:"reason" json:"reason"`
	Notes  string `db:"notes" json:"notes,omitempty"`
}

// NewAdjustment creates a draft adjustment dated now.
func NewAdjustment(createdBy, warehouseID, locationID id.ID) *Adjustment {
	return &Adjustment{
		Document:       entity.NewDocument(createdBy),
		WarehouseID:    warehouseID,
		LocationID:     locationID,
		AdjustmentDate: time.Now().UTC(),
		Lines:          make([]Line, 0),
	}
}

// AddLine appends a line and computes its difference.
func (a *Adjustment) AddLine(productID id.ID, recorded, counted types.Quantity, reason Reason, notes string) {
	a.Lines = append(a.Lines, Line{
		LineID:           id.New(),
		LineNo:           len(a.Lines) + 1,
		ProductID:        productID,
		RecordedQuantity: recorded,
		CountedQuantity:  counted,
		Difference:       counted - recorded,
		Reason:           reason,
		Notes:            notes,
	})
}

// Validate implements entity.Validatable. It also recomputes every line difference.
func (a *Adjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}
	if err := documents.ValidatePlace(a.place()); err != nil {
		return err
	}
	if err := documents.ValidateLineCount(len(a.Lines)); err != nil {
		return err
	}
	if a.AdjustmentDate.IsZero() {
		a.AdjustmentDate = time.Now().UTC()
	}

	for i := range a.Lines {
		line := &a.Lines[i]
		line.LineNo = i + 1
		if id.IsNil(line.LineID) {
			line.LineID = id.New()
		}
		if id.IsNil(line.ProductID) {
			return documents.LineError("product is required", line.LineNo, "productId")
		}
		if line.RecordedQuantity.IsNegative() {
			return documents.LineError("recorded quantity cannot be negative", line.LineNo, "recordedQuantity")
		}
		if line.CountedQuantity.IsNegative() {
			return documents.LineError("counted quantity cannot be negative", line.LineNo, "countedQuantity")
		}
		if !line.Reason.IsValid() {
			return documents.LineError("invalid reason", line.LineNo, "reason").
				WithDetail("value", string(line.Reason))
		}
		line.Notes = strings.TrimSpace(line.Notes)
		line.Difference = line.CountedQuantity - line.RecordedQuantity
	}
	return nil
}

func (a *Adjustment) place() documents.Place {
	return documents.Place{WarehouseID: a.WarehouseID, LocationID: a.LocationID}
}

// References implements documents.Document.
func (a *Adjustment) References() documents.References {
	refs := documents.References{Places: []documents.Place{a.place()}}
	for _, l := range a.Lines {
		refs.Products = append(refs.Products, documents.LineProduct{LineNo: l.LineNo, ProductID: l.ProductID})
	}
	return refs
}

// Clone returns a deep copy.
func (a *Adjustment) Clone() *Adjustment {
	cp := *a
	cp.Document = a.Document.Clone()
	cp.Lines = append([]Line(nil), a.Lines...)
	return &cp
}

// --- Postable interface implementation ---

func (a *Adjustment) GetDocumentType() string { return documents.TypeAdjustment }

// GenerateMovements applies counted - recorded of every line. Lines without a difference produce nothing.
func (a *Adjustment) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	for _, l := range a.Lines {
		set.Add(posting.Movement{
			StockKey: entity.StockKey{
				ProductID:   l.ProductID,
				WarehouseID: a.WarehouseID,
				LocationID:  a.LocationID,
			},
			Quantity: l.CountedQuantity - l.RecordedQuantity,
			Type:     entity.TransactionAdjustment,
			Note:     "Stock adjustment - " + string(l.Reason) + ": " + l.Notes,
			LineNo:   l.LineNo,
		})
	}
	return set, nil
}

var (
	_ posting.Postable   = (*Adjustment)(nil)
	_ documents.Document = (*Adjustment)(nil)
)
