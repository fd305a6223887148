package service

import (
	"context"
	"fmt"

	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/features/delivery/domain"
	"ozon-orders/internal/features/delivery/ports"

	"go.uber.org/zap"
)

// DeliveryService provisions the delivery types the integration relies on.
type DeliveryService struct {
	repo ports.DeliveryRepository
}

// NewDeliveryService creates a new instance of DeliveryService.
func NewDeliveryService(repo ports.DeliveryRepository) *DeliveryService {
	return &DeliveryService{repo: repo}
}

// EnsureOzonFBS creates the Ozon FBS delivery type unless it already exists.
// It reports whether a row was created.
func (s *DeliveryService) EnsureOzonFBS(ctx context.Context) (bool, error) {
	d := domain.OzonFBS()

	exists, err := s.repo.Exists(ctx, d.ID)
	if err != nil {
		return false, fmt.Errorf("service: %w", err)
	}
	if exists {
		logger.Get().Debug("Ozon FBS delivery already exists", zap.Stringer("delivery_id", d.ID))
		return false, nil
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return false, fmt.Errorf("service: failed to create Ozon FBS delivery: %w", err)
	}

	logger.Get().Info("Ozon FBS delivery created",
		zap.Stringer("delivery_id", d.ID),
		zap.Int("sort", d.Sort),
	)

	return true, nil
}
