package numerator

import (
	"context"
)

// Generator hands out sequential document numbers.
// Implementations must be collision-free under concurrent callers: each call
// atomically increments a counter owned by cfg.Prefix.
type Generator interface {
	// GetNextNumber returns the next formatted number for cfg.Prefix.
	GetNextNumber(ctx context.Context, cfg Config) (string, error)

	// SetNextNumber moves the counter so the next call returns value+1 (data migration).
	SetNextNumber(ctx context.Context, cfg Config, value int64) error
}
