// Package numerator provides the PostgreSQL implementation of document numbering.
// It implements core/numerator.Generator with one counter row per prefix.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	corenumerator "github.com/ravikhokle/oddostock/internal/core/numerator"
)

// Querier is the subset of pgx used by the service.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service hands out numbers from sys_sequences.
// Calls run outside business transactions so a counter row is locked only for one statement.
type Service struct {
	querier Querier
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// GetNextNumber atomically increments the counter of cfg.Prefix and formats it, e.g. RCP-000042.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, cfg.Prefix).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", cfg.Prefix, err)
	}

	return cfg.Format(num), nil
}

// SetNextNumber sets the counter so the next number is value+1 (used when importing existing documents).
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, cfg.Prefix, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set %s counter: %w", cfg.Prefix, err)
	}
	return nil
}

// ParseNumber extracts the counter from a formatted number.
// Returns -1 when the number has no numeric suffix.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndexByte(formatted, '-')
	if i < 0 || i == len(formatted)-1 {
		return -1
	}
	n, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
