// Package posting turns validated documents into ledger entries.
package posting

import (
	"sort"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/types"
)

// Movement is one intended change to a balance.
type Movement struct {
	entity.StockKey

	// Quantity is signed: positive adds stock, negative removes it
	Quantity types.Quantity

	Type entity.TransactionType
	Note string

	// LineNo is the 1-based document line the movement comes from
	LineNo int
}

// MovementSet collects the movements of one document in line order.
type MovementSet struct {
	movements []Movement
}

func NewMovementSet() *MovementSet {
	return &MovementSet{}
}

// Add appends a movement. Zero quantities are dropped: they produce no entry.
func (s *MovementSet) Add(m Movement) {
	if m.Quantity.IsZero() {
		return
	}
	s.movements = append(s.movements, m)
}

// Movements returns the movements in insertion order.
func (s *MovementSet) Movements() []Movement {
	return s.movements
}

func (s *MovementSet) IsEmpty() bool {
	return len(s.movements) == 0
}

// Keys returns the distinct keys touched, sorted by StockKey.Compare.
func (s *MovementSet) Keys() []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(s.movements))
	keys := make([]entity.StockKey, 0, len(s.movements))
	for _, m := range s.movements {
		if _, ok := seen[m.StockKey]; ok {
			continue
		}
		seen[m.StockKey] = struct{}{}
		keys = append(keys, m.StockKey)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) < 0
	})
	return keys
}
