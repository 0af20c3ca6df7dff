package product

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.ensureUniqueSKU)
	base.Hooks().OnBeforeUpdate(svc.ensureUniqueSKU)

	return svc
}

func (s *Service) ensureUniqueSKU(ctx context.Context, p *Product) error {
	existing, err := s.repo.GetBySKU(ctx, p.SKU)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}
	return nil
}

// GetBySKU looks a product up by SKU, normalizing the input first.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.GetBySKU(ctx, NormalizeSKU(sku))
}

// GetMany loads several products at once.
func (s *Service) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error) {
	return s.repo.GetMany(ctx, ids)
}
