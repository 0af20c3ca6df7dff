package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/domain/catalogs/location"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// LocationHandler handles location HTTP requests.
type LocationHandler struct {
	*CatalogHandler[*location.Location, dto.CreateLocationRequest, dto.UpdateLocationRequest]
	service *location.Service
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	config := CatalogHandlerConfig[*location.Location, dto.CreateLocationRequest, dto.UpdateLocationRequest]{
		Service:    service.CatalogService,
		EntityName: "location",
		MapCreateDTO: func(req *dto.CreateLocationRequest) *location.Location {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.UpdateLocationRequest, existing *location.Location) {
			req.ApplyTo(existing)
		},
		MapToDTO: func(entity *location.Location) any {
			return dto.FromLocation(entity)
		},
	}

	return &LocationHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListByWarehouse handles GET /warehouses/:id/locations.
func (h *LocationHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	locs, err := h.service.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	items := make([]*dto.LocationResponse, 0, len(locs))
	for _, loc := range locs {
		items = append(items, dto.FromLocation(loc))
	}
	h.OK(c, dto.NewItemsResponse(items))
}
