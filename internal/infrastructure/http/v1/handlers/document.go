package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// BaseDocumentHandler provides generic HTTP handlers for stock documents.
type BaseDocumentHandler[T documents.Document, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *documents.Service[T]
	entityName string

	// Mapper functions
	mapCreateDTO func(dto *CreateDTO, createdBy id.ID) T
	mapUpdateDTO func(dto *UpdateDTO, existing T) error
	mapToDTO     func(entity T) any
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T documents.Document, CreateDTO any, UpdateDTO any] struct {
	Service    *documents.Service[T]
	EntityName string

	MapCreateDTO func(dto *CreateDTO, createdBy id.ID) T

	// MapUpdateDTO checks the expected version and applies the request to the locked document.
	MapUpdateDTO func(dto *UpdateDTO, existing T) error

	MapToDTO func(entity T) any
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T documents.Document, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity}?status=draft,done&warehouseId=...&search=...
// Results are newest first.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	filter := documents.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, entity.DocumentStatus(s))
			}
		}
	}

	warehouseID, ok := h.QueryID(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseID = warehouseID

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.listResponse(result))
}

func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) listResponse(result domain.ListResult[T]) dto.ListResponse {
	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = h.mapToDTO(item)
	}
	return dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// Get handles GET /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}

// Create handles POST /{entity}. The new document is a numbered draft owned by the caller.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.mapCreateDTO(&req, h.GetUserID(c))
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.mapToDTO(doc))
}

// Update handles PUT /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(c.Request.Context(), docID, func(doc T) error {
		return h.mapUpdateDTO(&req, doc)
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}

// Validate handles POST /{entity}/:id/validate
// It posts the document to the ledger exactly once.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Validate(c *gin.Context) {
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	userID := h.GetUserID(c)
	if id.IsNil(userID) {
		h.Error(c, apperror.NewUnauthorized("user is required to validate"))
		return
	}

	doc, err := h.service.Validate(c.Request.Context(), docID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}

// Cancel handles POST /{entity}/:id/cancel
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Cancel(c *gin.Context) {
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}

// transition runs a kind-specific status change and renders the document.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) transition(c *gin.Context, step func(docID id.ID) (T, error)) {
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	doc, err := step(docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}
