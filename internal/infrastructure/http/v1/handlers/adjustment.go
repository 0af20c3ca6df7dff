package handlers

import (
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles stock adjustment HTTP requests.
type AdjustmentHandler = BaseDocumentHandler[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustment.Service) *AdjustmentHandler {
	return NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]{
		Service:    service.Service,
		EntityName: "adjustment",
		MapCreateDTO: func(req *dto.CreateAdjustmentRequest, createdBy id.ID) *adjustment.Adjustment {
			return req.ToEntity(createdBy)
		},
		MapUpdateDTO: func(req *dto.UpdateAdjustmentRequest, existing *adjustment.Adjustment) error {
			if err := documents.ExpectVersion(existing, req.Version); err != nil {
				return err
			}
			req.ApplyTo(existing)
			return nil
		},
		MapToDTO: func(doc *adjustment.Adjustment) any {
			return dto.FromAdjustment(doc)
		},
	})
}
