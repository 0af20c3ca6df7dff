// Package numerator provides domain contracts for document auto-numbering.
package numerator

import "fmt"

// Config holds numbering configuration for one document kind.
type Config struct {
	// Prefix added to all numbers (e.g., "RCP", "DEL")
	Prefix string

	// PadWidth is the minimum width of the sequence part
	PadWidth int
}

// DefaultConfig returns the format PREFIX-000001.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 6,
	}
}

// Format renders a sequence value, e.g. RCP-000042.
func (c Config) Format(seq int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = 6
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, width, seq)
}
