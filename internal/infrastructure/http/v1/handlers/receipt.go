package handlers

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler handles receipt HTTP requests.
type ReceiptHandler = BaseDocumentHandler[*receipt.Receipt, dto.CreateReceiptRequest, dto.UpdateReceiptRequest]

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	return NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*receipt.Receipt, dto.CreateReceiptRequest, dto.UpdateReceiptRequest]{
		Service:    service.Service,
		EntityName: "receipt",
		MapCreateDTO: func(req *dto.CreateReceiptRequest, createdBy id.ID) *receipt.Receipt {
			return req.ToEntity(createdBy)
		},
		MapUpdateDTO: func(req *dto.UpdateReceiptRequest, existing *receipt.Receipt) error {
			if err := documents.ExpectVersion(existing, req.Version); err != nil {
				return err
			}
			req.ApplyTo(existing)
			return nil
		},
		MapToDTO: func(doc *receipt.Receipt) any {
			return dto.FromReceipt(doc)
		},
	})
}
