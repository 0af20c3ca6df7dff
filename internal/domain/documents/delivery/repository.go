package delivery

import "github.com/ravikhokle/oddostock/internal/domain/documents"

// Repository defines persistence for deliveries.
type Repository interface {
	documents.Repository[*Delivery]
}
