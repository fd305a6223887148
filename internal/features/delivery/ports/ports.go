package ports

import (
	"context"

	"ozon-orders/internal/features/delivery/domain"

	"github.com/google/uuid"
)

// DeliveryRepository stores delivery types.
type DeliveryRepository interface {
	// Exists reports whether a delivery type with the given id is stored.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Create stores the delivery type and its translations atomically.
	Create(ctx context.Context, d domain.DeliveryType) error
}
