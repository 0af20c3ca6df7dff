package delivery

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
)

// Service provides business operations for deliveries.
type Service struct {
	*documents.Service[*Delivery]
}

func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Service: documents.NewService(documents.Config[*Delivery]{
			Deps:         deps,
			DocumentType: documents.TypeDelivery,
			Numbering:    Numbering,
			Repo:         repo,
		}),
	}
}

// Pick records picked quantities. Never touches the ledger.
func (s *Service) Pick(ctx context.Context, docID id.ID, items []Progress) (*Delivery, error) {
	return s.Transition(ctx, docID, "pick", func(d *Delivery) error {
		return d.Pick(items)
	})
}

// Pack records packed (and to-be-delivered) quantities. Never touches the ledger.
func (s *Service) Pack(ctx context.Context, docID id.ID, items []Progress) (*Delivery, error) {
	return s.Transition(ctx, docID, "pack", func(d *Delivery) error {
		return d.Pack(items)
	})
}
