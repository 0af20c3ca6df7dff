package handlers

import (
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles warehouse HTTP requests.
type WarehouseHandler = CatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]{
		Service:    service.CatalogService,
		EntityName: "warehouse",
		MapCreateDTO: func(req *dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) {
			req.ApplyTo(existing)
		},
		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	})
}
