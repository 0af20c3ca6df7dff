package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/ravikhokle/oddostock/pkg/logger"
)

// Sequencer assigns document numbers at creation time.
//
// Numbers come from the Generator. When the generator fails the sequencer
// degrades to PREFIX-<unix millis> and logs the anomaly, so document
// creation never blocks on the counter.
type Sequencer struct {
	gen Generator
	now func() time.Time
}

func NewSequencer(gen Generator) *Sequencer {
	return &Sequencer{gen: gen, now: time.Now}
}

// Next returns the next number for cfg. It never fails.
func (s *Sequencer) Next(ctx context.Context, cfg Config) string {
	number, err := s.gen.GetNextNumber(ctx, cfg)
	if err == nil {
		return number
	}

	fallback := fmt.Sprintf("%s-%d", cfg.Prefix, s.now().UnixMilli())
	logger.Warn(ctx, "document numbering fell back to timestamp",
		"prefix", cfg.Prefix,
		"number", fallback,
		"error", err,
	)
	return fallback
}
