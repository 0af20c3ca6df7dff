package warehouse

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/domain"
)

// Service provides business logic for Warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkUnique)
	base.Hooks().OnBeforeUpdate(svc.checkUnique)

	return svc
}

// checkUnique enforces unique code and name.
func (s *Service) checkUnique(ctx context.Context, wh *Warehouse) error {
	if other, err := s.repo.GetByCode(ctx, wh.Code); err == nil {
		if other.ID != wh.ID {
			return apperror.NewDuplicate("warehouse", "code", wh.Code)
		}
	} else if !apperror.IsNotFound(err) {
		return err
	}

	if other, err := s.repo.GetByName(ctx, wh.Name); err == nil {
		if other.ID != wh.ID {
			return apperror.NewDuplicate("warehouse", "name", wh.Name)
		}
	} else if !apperror.IsNotFound(err) {
		return err
	}

	return nil
}
