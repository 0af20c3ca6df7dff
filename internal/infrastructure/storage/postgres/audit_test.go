package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_CompressesLargeSnapshots(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	large := []byte(`{"notes":"` + string(bytes.Repeat([]byte("x"), DefaultCompressThreshold)) + `"}`)
	changes, compressed, algo := s.encode(large)

	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, changes)
	assert.Less(t, len(compressed), len(large))

	restored, err := s.decode(changes, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, large, []byte(restored))
}

func TestAuditService_KeepsSmallSnapshotsPlain(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	small := []byte(`{"status":"done"}`)
	changes, compressed, algo := s.encode(small)

	assert.Equal(t, CompressionNone, algo)
	assert.Nil(t, compressed)
	assert.JSONEq(t, string(small), string(changes))
}
