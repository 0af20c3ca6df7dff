package adjustment

import (
	"github.com/ravikhokle/oddostock/internal/domain/documents"
)

// Service provides business operations for stock adjustments.
type Service struct {
	*documents.Service[*Adjustment]
}

func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Service: documents.NewService(documents.Config[*Adjustment]{
			Deps:         deps,
			DocumentType: documents.TypeAdjustment,
			Numbering:    Numbering,
			Repo:         repo,
		}),
	}
}
