package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikhokle/oddostock/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.DriverMemory, b.Driver)
	assert.NoError(t, b.Ping(context.Background()))
	assert.Nil(t, b.Idempotency)
	assert.Nil(t, b.Pool)
	assert.NotNil(t, b.Repos.TxManager)
	assert.NotNil(t, b.Repos.Ledger)
	assert.Same(t, b.Bus, b.Publisher)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "mongo"}})
	assert.ErrorContains(t, err, "mongo")
}
