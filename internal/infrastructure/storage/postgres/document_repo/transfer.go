package document_repo

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const (
	transfersTable     = "doc_transfers"
	transferLinesTable = "doc_transfer_lines"
)

var _ transfer.Repository = (*TransferRepo)(nil)

// TransferRepo implements transfer.Repository.
// A warehouse filter matches either side of the transfer.
type TransferRepo struct {
	*BaseDocumentRepo[*transfer.Transfer, transfer.Line]
}

// NewTransferRepo creates a new transfer repository.
func NewTransferRepo(txm *postgres.TxManager) *TransferRepo {
	return &TransferRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm,
			Table[*transfer.Transfer, transfer.Line]{
				DocType:       documents.TypeTransfer,
				Header:        transfersTable,
				Lines:         transferLinesTable,
				NewFn:         func() *transfer.Transfer { return &transfer.Transfer{} },
				GetLines:      func(t *transfer.Transfer) []transfer.Line { return t.Lines },
				SetLines:      func(t *transfer.Transfer, ls []transfer.Line) { t.Lines = ls },
				LineDocID:     func(l transfer.Line) id.ID { return l.DocumentID },
				WarehouseCols: []string{"source_warehouse_id", "destination_warehouse_id"},
			},
			postgres.ExtractDBColumns[transfer.Transfer](),
			postgres.ExtractDBColumns[transfer.Line](),
		),
	}
}
