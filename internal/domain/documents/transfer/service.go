package transfer

import (
	"context"

	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/documents"
)

// Service provides business operations for internal transfers.
type Service struct {
	*documents.Service[*Transfer]
}

func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Service: documents.NewService(documents.Config[*Transfer]{
			Deps:         deps,
			DocumentType: documents.TypeTransfer,
			Numbering:    Numbering,
			Repo:         repo,
		}),
	}
}

// Dispatch moves a draft transfer to in_transit.
func (s *Service) Dispatch(ctx context.Context, docID id.ID) (*Transfer, error) {
	return s.Transition(ctx, docID, "dispatch", func(t *Transfer) error {
		return t.Dispatch()
	})
}
