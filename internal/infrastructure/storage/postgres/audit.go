package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for a snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the snapshot size above which snapshots are stored compressed.
const DefaultCompressThreshold = 4 * 1024

var _ audit.Recorder = (*AuditService)(nil)

// AuditService writes audit records to sys_audit inside the business transaction.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditService) Record(ctx context.Context, rec audit.Record) error {
	if id.IsNil(rec.ID) {
		rec.ID = id.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	snapshot, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal audit snapshot: %w", err)
	}
	changes, compressed, algo := s.encode(snapshot)

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, user_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.EntityType, rec.EntityID, string(rec.Action), rec.UserID,
		changes, compressed, string(algo), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// encode compresses snapshots larger than the threshold. Exactly one of changes and compressed is set.
func (s *AuditService) encode(snapshot []byte) (changes json.RawMessage, compressed []byte, algo CompressionAlgo) {
	if len(snapshot) > s.compressThreshold {
		return nil, s.encoder.EncodeAll(snapshot, nil), CompressionZstd
	}
	return snapshot, nil, CompressionNone
}

func (s *AuditService) decode(changes json.RawMessage, compressed []byte, algo CompressionAlgo) (json.RawMessage, error) {
	if algo != CompressionZstd || len(compressed) == 0 {
		return changes, nil
	}
	out, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress changes: %w", err)
	}
	return out, nil
}

// History returns the audit trail of an entity, newest first. Snapshots are json.RawMessage.
func (s *AuditService) History(ctx context.Context, entityID id.ID, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT id, entity_type, entity_id, action, user_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	records := make([]audit.Record, 0)
	for rows.Next() {
		var (
			rec        audit.Record
			action     string
			changes    []byte
			compressed []byte
			algo       string
		)
		if err := rows.Scan(
			&rec.ID, &rec.EntityType, &rec.EntityID, &action, &rec.UserID,
			&changes, &compressed, &algo, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}

		snapshot, err := s.decode(changes, compressed, CompressionAlgo(algo))
		if err != nil {
			return nil, err
		}
		rec.Action = audit.Action(action)
		rec.Snapshot = snapshot
		records = append(records, rec)
	}
	return records, rows.Err()
}
