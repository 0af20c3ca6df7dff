package document_repo

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage/postgres"
)

const (
	deliveriesTable    = "doc_deliveries"
	deliveryLinesTable = "doc_delivery_lines"
)

var _ delivery.Repository = (*DeliveryRepo)(nil)

// DeliveryRepo implements delivery.Repository.
// Picked and packed quantities are stored per line and survive restarts.
type DeliveryRepo struct {
	*BaseDocumentRepo[*delivery.Delivery, delivery.Line]
}

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(txm *postgres.TxManager) *DeliveryRepo {
	return &DeliveryRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm,
			Table[*delivery.Delivery, delivery.Line]{
				DocType:       documents.TypeDelivery,
				Header:        deliveriesTable,
				Lines:         deliveryLinesTable,
				NewFn:         func() *delivery.Delivery { return &delivery.Delivery{} },
				GetLines:      func(d *delivery.Delivery) []delivery.Line { return d.Lines },
				SetLines:      func(d *delivery.Delivery, ls []delivery.Line) { d.Lines = ls },
				LineDocID:     func(l delivery.Line) id.ID { return l.DocumentID },
				WarehouseCols: []string{"warehouse_id"},
			},
			postgres.ExtractDBColumns[delivery.Delivery](),
			postgres.ExtractDBColumns[delivery.Line](),
		),
	}
}
