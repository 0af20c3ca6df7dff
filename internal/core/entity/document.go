package entity

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
)

// DocumentStatus is the workflow state of a stock document.
// Every kind starts in draft and ends in done or cancelled; kinds add their own intermediate states.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusDone      DocumentStatus = "done"
	StatusCancelled DocumentStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Document is the header shared by receipts, deliveries, transfers and adjustments.
type Document struct {
	BaseEntity
	Timestamps

	// Number is the human-readable number, e.g. RCP-000042 (unique per kind)
	Number string `db:"number" json:"number"`

	Status DocumentStatus `db:"status" json:"status"`

	Notes string `db:"notes" json:"notes,omitempty"`

	CreatedBy id.ID `db:"created_by" json:"createdBy"`

	// ValidatedBy is set only by a successful validation
	ValidatedBy *id.ID `db:"validated_by" json:"validatedBy,omitempty"`

	// CompletedAt is the moment stock actually moved (received/delivered/transferred/adjusted)
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// NewDocument creates a draft header owned by createdBy.
func NewDocument(createdBy id.ID) Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		Timestamps: newTimestamps(),
		Status:     StatusDraft,
		CreatedBy:  createdBy,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.CreatedBy) {
		return apperror.NewValidation("creator is required").
			WithDetail("field", "createdBy")
	}
	return nil
}

func (d *Document) GetNumber() string { return d.Number }

func (d *Document) GetStatus() DocumentStatus { return d.Status }

func (d *Document) SetNumber(number string) { d.Number = number }

// CanModify checks whether header and lines may still be edited.
func (d *Document) CanModify() error {
	if d.Status.IsTerminal() {
		return d.transitionError("update")
	}
	return nil
}

// CanPost checks whether the document may be validated.
// A done document yields AlreadyValidated so that validation is exactly-once.
func (d *Document) CanPost() error {
	switch d.Status {
	case StatusDone:
		return apperror.NewAlreadyValidated("document", d.Number).
			WithDetail("document_id", d.ID.String())
	case StatusCancelled:
		return d.transitionError("validate")
	}
	return nil
}

// MarkPosted moves the document to done and stamps the validator.
func (d *Document) MarkPosted(userID id.ID, at time.Time) {
	d.Status = StatusDone
	d.ValidatedBy = &userID
	d.CompletedAt = &at
	d.UpdatedAt = at
}

// Cancel moves the document to cancelled. Only done documents refuse;
// cancelling a cancelled document changes nothing.
func (d *Document) Cancel() error {
	switch d.Status {
	case StatusDone:
		return d.transitionError("cancel")
	case StatusCancelled:
		return nil
	}
	d.Status = StatusCancelled
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Advance moves the document into an intermediate status for the given operation.
// allowed lists the statuses the operation may start from.
func (d *Document) Advance(operation string, to DocumentStatus, allowed ...DocumentStatus) error {
	for _, s := range allowed {
		if d.Status == s {
			d.Status = to
			d.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return d.transitionError(operation)
}

func (d *Document) transitionError(operation string) *apperror.AppError {
	return apperror.NewInvalidStateTransition("document", string(d.Status), operation).
		WithDetail("document_id", d.ID.String()).
		WithDetail("number", d.Number)
}

// Clone copies the header including its pointer fields.
func (d Document) Clone() Document {
	if d.ValidatedBy != nil {
		v := *d.ValidatedBy
		d.ValidatedBy = &v
	}
	if d.CompletedAt != nil {
		c := *d.CompletedAt
		d.CompletedAt = &c
	}
	return d
}
