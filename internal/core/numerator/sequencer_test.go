package numerator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Format(t *testing.T) {
	assert.Equal(t, "RCP-000042", DefaultConfig("RCP").Format(42))
	assert.Equal(t, "DEL-1234567", DefaultConfig("DEL").Format(1234567))
	assert.Equal(t, "TRF-0007", Config{Prefix: "TRF", PadWidth: 4}.Format(7))
}

func TestSequencer_SequentialPerPrefix(t *testing.T) {
	seq := NewSequencer(NewMemoryGenerator())
	ctx := context.Background()

	assert.Equal(t, "RCP-000001", seq.Next(ctx, DefaultConfig("RCP")))
	assert.Equal(t, "RCP-000002", seq.Next(ctx, DefaultConfig("RCP")))
	assert.Equal(t, "DEL-000001", seq.Next(ctx, DefaultConfig("DEL")))
}

func TestSequencer_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	seq := NewSequencer(NewMemoryGenerator())
	ctx := context.Background()

	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num := seq.Next(ctx, DefaultConfig("ADJ"))
			mu.Lock()
			seen[num] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	_, ok := seen[fmt.Sprintf("ADJ-%06d", n)]
	assert.True(t, ok, "highest number must equal the call count")
}

func TestSequencer_FallsBackToTimestamp(t *testing.T) {
	gen := NewMemoryGenerator()
	gen.Err = errors.New("counter unavailable")

	seq := NewSequencer(gen)
	seq.now = func() time.Time { return time.UnixMilli(1700000000123) }

	assert.Equal(t, "DEL-1700000000123", seq.Next(context.Background(), DefaultConfig("DEL")))
}

func TestMemoryGenerator_SetNextNumber(t *testing.T) {
	gen := NewMemoryGenerator()
	ctx := context.Background()

	require.NoError(t, gen.SetNextNumber(ctx, DefaultConfig("RCP"), 41))
	num, err := gen.GetNextNumber(ctx, DefaultConfig("RCP"))
	require.NoError(t, err)
	assert.Equal(t, "RCP-000042", num)
}
