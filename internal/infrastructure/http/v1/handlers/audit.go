package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/audit"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

const defaultAuditLimit = 50

// AuditReader lists the audit trail of one entity, newest first.
type AuditReader interface {
	History(ctx context.Context, entityID id.ID, limit int) ([]audit.Record, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	*BaseHandler
	reader AuditReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, reader AuditReader) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		reader:      reader,
	}
}

// History handles GET /audit/:id
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", defaultAuditLimit)
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	records, err := h.reader.History(c.Request.Context(), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(records))
}
