// Package documents provides the lifecycle shared by receipts, deliveries, transfers and adjustments.
package documents

import (
	"context"
	"strings"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/posting"
)

// Document types; also used as ledger reference types.
const (
	TypeReceipt    = "receipt"
	TypeDelivery   = "delivery"
	TypeTransfer   = "transfer"
	TypeAdjustment = "adjustment"
)

// Document is implemented by every stock document kind.
type Document interface {
	entity.Validatable
	entity.Identifiable
	posting.Postable

	GetStatus() entity.DocumentStatus
	SetNumber(number string)

	// CanModify rejects edits of done or cancelled documents.
	CanModify() error

	// Cancel moves a non-terminal document to cancelled.
	Cancel() error

	// References lists the catalog rows the document points at.
	References() References
}

// PlaceNamer is implemented by documents that keep the names of their locations for ledger notes.
type PlaceNamer interface {
	SetPlaceName(field, name string)
}

// References are checked against the catalogs on create and update.
type References struct {
	Products []LineProduct
	Places   []Place
}

// LineProduct is the product of one line.
type LineProduct struct {
	LineNo    int
	ProductID id.ID
}

// Place is a warehouse/location pair of the header.
// Field is empty for single-place documents and "source"/"destination" for transfers.
type Place struct {
	Field       string
	WarehouseID id.ID
	LocationID  id.ID
}

// Repository defines persistence for one document kind. Lines are stored with the header.
type Repository[T Document] interface {
	Create(ctx context.Context, doc T) error

	// GetByID returns NotFound when absent.
	GetByID(ctx context.Context, docID id.ID) (T, error)

	// GetForUpdate is GetByID with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, docID id.ID) (T, error)

	// Update replaces header and lines when the stored version matches, then bumps the version.
	Update(ctx context.Context, doc T) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[T], error)

	// Count returns the number of documents in any of the statuses (all when none given).
	Count(ctx context.Context, statuses ...entity.DocumentStatus) (int64, error)
}

// ListFilter for filtering documents. Results are newest first unless OrderBy says otherwise.
type ListFilter struct {
	domain.ListFilter

	Statuses    []entity.DocumentStatus
	WarehouseID *id.ID
}

// DefaultListFilter returns newest-first paging defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		ListFilter: domain.ListFilter{Limit: 50, OrderBy: "-created_at"},
	}
}

// ExpectVersion returns ConcurrentModification when the client edited a stale copy.
// A zero expected version skips the check.
func ExpectVersion(doc entity.Identifiable, expected int) error {
	if expected != 0 && doc.GetVersion() != expected {
		return apperror.NewConcurrentModification("document", doc.GetID().String()).
			WithDetail("expected_version", expected).
			WithDetail("actual_version", doc.GetVersion())
	}
	return nil
}

// ValidateLineCount rejects documents without lines.
func ValidateLineCount(n int) error {
	if n == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	return nil
}

// LineError builds a validation error pointing at a line field.
func LineError(message string, lineNo int, field string) *apperror.AppError {
	return apperror.NewValidation(message).
		WithDetail("field", "lines."+field).
		WithDetail("lineNo", lineNo)
}

// ValidatePlace checks that both ids of a header place are set.
func ValidatePlace(p Place) error {
	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation(p.label("warehouse")+" is required").
			WithDetail("field", p.FieldName("warehouseId"))
	}
	if id.IsNil(p.LocationID) {
		return apperror.NewValidation(p.label("location")+" is required").
			WithDetail("field", p.FieldName("locationId"))
	}
	return nil
}

// FieldName prefixes a JSON field name with the place field: "locationId" becomes "sourceLocationId".
func (p Place) FieldName(name string) string {
	if p.Field == "" {
		return name
	}
	return p.Field + strings.ToUpper(name[:1]) + name[1:]
}

func (p Place) label(noun string) string {
	if p.Field == "" {
		return noun
	}
	return p.Field + " " + noun
}
