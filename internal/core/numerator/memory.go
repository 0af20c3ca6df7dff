package numerator

import (
	"context"
	"sync"
)

// MemoryGenerator keeps counters in process memory. Used by the in-memory backend and tests.
type MemoryGenerator struct {
	mu       sync.Mutex
	counters map[string]int64

	// Err, when set, is returned by every call (tests of the fallback path).
	Err error
}

var _ Generator = (*MemoryGenerator)(nil)

func NewMemoryGenerator() *MemoryGenerator {
	return &MemoryGenerator{counters: make(map[string]int64)}
}

func (g *MemoryGenerator) GetNextNumber(_ context.Context, cfg Config) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[cfg.Prefix]++
	return cfg.Format(g.counters[cfg.Prefix]), nil
}

func (g *MemoryGenerator) SetNextNumber(_ context.Context, cfg Config, value int64) error {
	if g.Err != nil {
		return g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[cfg.Prefix] = value
	return nil
}
