package entity

import (
	"context"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants only, without storage access.
type Validatable interface {
	Validate(ctx context.Context) error
}

// Identifiable exposes the primary key and lock version. Generic repositories rely on it.
type Identifiable interface {
	GetID() id.ID
	GetVersion() int
	SetVersion(v int)
}

// BaseEntity contains fields shared by catalogs and documents.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking, incremented by the repository on every update
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

func (b *BaseEntity) GetID() id.ID { return b.ID }

func (b *BaseEntity) GetVersion() int { return b.Version }

func (b *BaseEntity) SetVersion(v int) { b.Version = v }

// Timestamps holds creation/update times maintained by repositories.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func newTimestamps() Timestamps {
	now := time.Now().UTC()
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}

// SetUpdatedAt is used by repositories after a write.
func (t *Timestamps) SetUpdatedAt(at time.Time) { t.UpdatedAt = at }
