package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles internal transfer HTTP requests.
type TransferHandler struct {
	*BaseDocumentHandler[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]
	transfers *transfer.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	config := BaseDocumentHandlerConfig[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]{
		Service:    service.Service,
		EntityName: "transfer",
		MapCreateDTO: func(req *dto.CreateTransferRequest, createdBy id.ID) *transfer.Transfer {
			return req.ToEntity(createdBy)
		},
		MapUpdateDTO: func(req *dto.UpdateTransferRequest, existing *transfer.Transfer) error {
			if err := documents.ExpectVersion(existing, req.Version); err != nil {
				return err
			}
			req.ApplyTo(existing)
			return nil
		},
		MapToDTO: func(doc *transfer.Transfer) any {
			return dto.FromTransfer(doc)
		},
	}

	return &TransferHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, config),
		transfers:           service,
	}
}

// Dispatch handles POST /transfers/:id/dispatch
func (h *TransferHandler) Dispatch(c *gin.Context) {
	h.transition(c, func(docID id.ID) (*transfer.Transfer, error) {
		return h.transfers.Dispatch(c.Request.Context(), docID)
	})
}
