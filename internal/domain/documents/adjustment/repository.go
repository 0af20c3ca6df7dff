package adjustment

import "github.com/ravikhokle/oddostock/internal/domain/documents"

// Repository defines persistence for stock adjustments.
type Repository interface {
	documents.Repository[*Adjustment]
}
