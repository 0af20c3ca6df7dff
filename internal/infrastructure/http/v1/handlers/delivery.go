package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// DeliveryHandler handles delivery HTTP requests, including picking and packing.
type DeliveryHandler struct {
	*BaseDocumentHandler[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]
	deliveries *delivery.Service
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service) *DeliveryHandler {
	config := BaseDocumentHandlerConfig[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]{
		Service:    service.Service,
		EntityName: "delivery",
		MapCreateDTO: func(req *dto.CreateDeliveryRequest, createdBy id.ID) *delivery.Delivery {
			return req.ToEntity(createdBy)
		},
		MapUpdateDTO: func(req *dto.UpdateDeliveryRequest, existing *delivery.Delivery) error {
			if err := documents.ExpectVersion(existing, req.Version); err != nil {
				return err
			}
			req.ApplyTo(existing)
			return nil
		},
		MapToDTO: func(doc *delivery.Delivery) any {
			return dto.FromDelivery(doc)
		},
	}

	return &DeliveryHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, config),
		deliveries:          service,
	}
}

// Pick handles POST /deliveries/:id/pick
func (h *DeliveryHandler) Pick(c *gin.Context) {
	var req dto.ProgressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.transition(c, func(docID id.ID) (*delivery.Delivery, error) {
		return h.deliveries.Pick(c.Request.Context(), docID, req.Items)
	})
}

// Pack handles POST /deliveries/:id/pack
func (h *DeliveryHandler) Pack(c *gin.Context) {
	var req dto.ProgressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.transition(c, func(docID id.ID) (*delivery.Delivery, error) {
		return h.deliveries.Pack(c.Request.Context(), docID, req.Items)
	})
}
