package receipt

import (
	"github.com/ravikhokle/oddostock/internal/domain/documents"
)

// Service provides business operations for receipts.
type Service struct {
	*documents.Service[*Receipt]
}

func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Service: documents.NewService(documents.Config[*Receipt]{
			Deps:         deps,
			DocumentType: documents.TypeReceipt,
			Numbering:    Numbering,
			Repo:         repo,
		}),
	}
}
