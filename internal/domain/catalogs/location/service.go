package location

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/domain"
	"github.com/ravikhokle/oddostock/internal/domain/catalogs/warehouse"
)

// Service provides business logic for Location catalog.
type Service struct {
	*domain.CatalogService[*Location]
	repo       Repository
	warehouses warehouse.Repository
}

func NewService(repo Repository, warehouses warehouse.Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Location]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "location",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		warehouses:     warehouses,
	}

	base.Hooks().OnBeforeCreate(svc.checkReferences)
	base.Hooks().OnBeforeUpdate(svc.checkReferences)

	return svc
}

// checkReferences validates the warehouse, the parent and name uniqueness.
func (s *Service) checkReferences(ctx context.Context, loc *Location) error {
	wh, err := s.warehouses.GetByID(ctx, loc.WarehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("warehouse not found").
				WithDetail("field", "warehouseId").
				WithDetail("value", loc.WarehouseID.String())
		}
		return err
	}
	if !wh.IsActive() {
		return apperror.NewValidation("warehouse is inactive").
			WithDetail("field", "warehouseId")
	}

	if loc.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *loc.ParentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("parent location not found").
					WithDetail("field", "parentId")
			}
			return err
		}
		if parent.WarehouseID != loc.WarehouseID {
			return apperror.NewValidation("parent location belongs to another warehouse").
				WithDetail("field", "parentId")
		}
	}

	other, err := s.repo.GetByName(ctx, loc.WarehouseID, loc.Name)
	if err == nil && other.ID != loc.ID {
		return apperror.NewDuplicate("location", "name", loc.Name)
	}
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	return nil
}

// ListByWarehouse returns all locations of a warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

// Resolve checks that the location exists, is active and belongs to the warehouse.
// Document services use it to validate warehouse/location pairs.
func (s *Service) Resolve(ctx context.Context, warehouseID, locationID id.ID) (*Location, error) {
	loc, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("location not found").
				WithDetail("value", locationID.String())
		}
		return nil, err
	}
	if loc.WarehouseID != warehouseID {
		return nil, apperror.NewValidation("location does not belong to warehouse").
			WithDetail("location_id", locationID.String()).
			WithDetail("warehouse_id", warehouseID.String())
	}
	if !loc.IsActive() {
		return nil, apperror.NewValidation("location is inactive").
			WithDetail("location_id", locationID.String())
	}
	wh, err := s.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("warehouse not found").
				WithDetail("value", warehouseID.String())
		}
		return nil, err
	}
	if !wh.IsActive() {
		return nil, apperror.NewValidation("warehouse is inactive").
			WithDetail("warehouse_id", warehouseID.String())
	}
	return loc, nil
}
