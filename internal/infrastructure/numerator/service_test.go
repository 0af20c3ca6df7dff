package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "github.com/ravikhokle/oddostock/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates one sys_sequences row per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}
	key := args[0].(string)
	if len(args) == 2 {
		m.counters[key] = args[1].(int64)
	} else {
		m.counters[key]++
	}
	return &mockRow{val: m.counters[key]}
}

func TestGetNextNumber_Sequential(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("RCP")

	first, err := svc.GetNextNumber(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "RCP-000001", first)

	second, err := svc.GetNextNumber(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "RCP-000002", second)

	other, err := svc.GetNextNumber(ctx, corenumerator.DefaultConfig("DEL"))
	require.NoError(t, err)
	assert.Equal(t, "DEL-000001", other)
}

func TestGetNextNumber_Concurrency(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("TRF")

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[num], "duplicate number %s", num)
			seen[num] = true
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers)
}

func TestGetNextNumber_Error(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("ADJ"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next ADJ number")
}

func TestSetNextNumber(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("RCP")

	require.NoError(t, svc.SetNextNumber(ctx, cfg, 41))
	num, err := svc.GetNextNumber(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "RCP-000042", num)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"RCP-000042", 42},
		{"DEL-1700000000000", 1700000000000},
		{"ADJ-", -1},
		{"nonsense", -1},
		{"TRF-abc", -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}
