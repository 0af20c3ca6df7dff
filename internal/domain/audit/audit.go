// Package audit records who changed which document or catalog row, and how.
package audit

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/id"
)

// Action is the audited operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionCancel     Action = "cancel"
	ActionValidate   Action = "validate"
	ActionDeactivate Action = "deactivate"
)

// Record is one audit log row. Snapshot is the entity state after the action.
type Record struct {
	ID         id.ID     `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   id.ID     `json:"entityId"`
	Action     Action    `json:"action"`
	UserID     id.ID     `json:"userId"`
	Snapshot   any       `json:"snapshot,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recorder persists audit records. Record is called inside the business transaction.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }
