package receipt

import "github.com/ravikhokle/oddostock/internal/domain/documents"

// Repository defines persistence for receipts.
type Repository interface {
	documents.Repository[*Receipt]
}
