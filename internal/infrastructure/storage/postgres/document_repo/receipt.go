package document_repo

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const (
	receiptsTable     = "doc_receipts"
	receiptLinesTable = "doc_receipt_lines"
)

var _ receipt.Repository = (*ReceiptRepo)(nil)

// ReceiptRepo implements receipt.Repository.
type ReceiptRepo struct {
	*BaseDocumentRepo[*receipt.Receipt, receipt.Line]
}

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txm *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm,
			Table[*receipt.Receipt, receipt.Line]{
				DocType:       documents.TypeReceipt,
				Header:        receiptsTable,
				Lines:         receiptLinesTable,
				NewFn:         func() *receipt.Receipt { return &receipt.Receipt{} },
				GetLines:      func(r *receipt.Receipt) []receipt.Line { return r.Lines },
				SetLines:      func(r *receipt.Receipt, ls []receipt.Line) { r.Lines = ls },
				LineDocID:     func(l receipt.Line) id.ID { return l.DocumentID },
				WarehouseCols: []string{"warehouse_id"},
			},
			postgres.ExtractDBColumns[receipt.Receipt](),
			postgres.ExtractDBColumns[receipt.Line](),
		),
	}
}
