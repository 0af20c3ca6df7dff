package transfer

import "github.com/ravikhokle/oddostock/internal/domain/documents"

// Repository defines persistence for transfers.
type Repository interface {
	documents.Repository[*Transfer]
}
