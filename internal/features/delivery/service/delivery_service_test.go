package service

import (
	"context"
	"errors"
	"testing"

	"ozon-orders/internal/features/delivery/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeliveryRepository is a mock implementation of ports.DeliveryRepository.
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) Create(ctx context.Context, d domain.DeliveryType) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func TestDeliveryService_EnsureOzonFBS(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		repo.On("Exists", ctx, domain.OzonFBSDeliveryID).Return(false, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(d domain.DeliveryType) bool {
			return d.ID == domain.OzonFBSDeliveryID && d.Sort == domain.OzonFBSPriority && d.Currency == domain.CurrencyRUB
		})).Return(nil).Once()

		created, err := NewDeliveryService(repo).EnsureOzonFBS(ctx)
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		repo.On("Exists", ctx, domain.OzonFBSDeliveryID).Return(true, nil).Once()

		created, err := NewDeliveryService(repo).EnsureOzonFBS(ctx)
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ExistsError", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		repo.On("Exists", ctx, domain.OzonFBSDeliveryID).Return(false, errors.New("db down")).Once()

		_, err := NewDeliveryService(repo).EnsureOzonFBS(ctx)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CreateError", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		repo.On("Exists", ctx, domain.OzonFBSDeliveryID).Return(false, nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(errors.New("unique violation")).Once()

		created, err := NewDeliveryService(repo).EnsureOzonFBS(ctx)
		require.Error(t, err)
		assert.False(t, created)
		assert.Contains(t, err.Error(), "failed to create Ozon FBS delivery")
	})
}
