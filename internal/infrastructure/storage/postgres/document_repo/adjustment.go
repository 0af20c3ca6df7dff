package document_repo

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const (
	adjustmentsTable     = "doc_adjustments"
	adjustmentLinesTable = "doc_adjustment_lines"
)

var _ adjustment.Repository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implements adjustment.Repository.
type AdjustmentRepo struct {
	*BaseDocumentRepo[*adjustment.Adjustment, adjustment.Line]
}

// NewAdjustmentRepo creates a new adjustment repository.
func NewAdjustmentRepo(txm *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm,
			Table[*adjustment.Adjustment, adjustment.Line]{
				DocType:       documents.TypeAdjustment,
				Header:        adjustmentsTable,
				Lines:         adjustmentLinesTable,
				NewFn:         func() *adjustment.Adjustment { return &adjustment.Adjustment{} },
				GetLines:      func(a *adjustment.Adjustment) []adjustment.Line { return a.Lines },
				SetLines:      func(a *adjustment.Adjustment, ls []adjustment.Line) { a.Lines = ls },
				LineDocID:     func(l adjustment.Line) id.ID { return l.DocumentID },
				WarehouseCols: []string{"warehouse_id"},
			},
			postgres.ExtractDBColumns[adjustment.Adjustment](),
			postgres.ExtractDBColumns[adjustment.Line](),
		),
	}
}
