package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
)

// AuditRecorder keeps audit records in memory; records of rolled back transactions are discarded.
type AuditRecorder struct {
	mu      sync.Mutex
	records []audit.Record
}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

func (a *AuditRecorder) Record(ctx context.Context, rec audit.Record) error {
	if id.IsNil(rec.ID) {
		rec.ID = id.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	a.mu.Lock()
	a.records = append(a.records, rec)
	a.mu.Unlock()

	onRollback(ctx, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i := len(a.records) - 1; i >= 0; i-- {
			if a.records[i].ID == rec.ID {
				a.records = append(a.records[:i], a.records[i+1:]...)
				return
			}
		}
	})
	return nil
}

// Records returns the records of an entity, oldest first; a nil id returns everything.
func (a *AuditRecorder) Records(entityID id.ID) []audit.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]audit.Record, 0)
	for _, r := range a.records {
		if id.IsNil(entityID) || r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out
}

var _ audit.Recorder = (*AuditRecorder)(nil)

// History returns the newest records of an entity first, at most limit of them.
func (a *AuditRecorder) History(_ context.Context, entityID id.ID, limit int) ([]audit.Record, error) {
	records := a.Records(entityID)
	out := make([]audit.Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, records[i])
	}
	return out, nil
}
