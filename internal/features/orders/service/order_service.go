package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/features/orders/domain"
	"ozon-orders/internal/features/orders/ports"

	"go.uber.org/zap"
)

// publishBatch bounds the number of outbox rows published per sync.
const publishBatch = 500

// OrderService polls new orders and hands them to storage and messaging.
type OrderService struct {
	// running serializes syncs; the fetcher's window must not be moved by two calls at once.
	running sync.Mutex

	// fetcher performs the upstream call.
	fetcher ports.NewOrdersFetcher
	// repo stores every fetched order.
	repo ports.OrderRepository
	// publisher is optional; nil disables publishing.
	publisher ports.OrderPublisher
	// lookback is passed to the fetcher; 0 means its default.
	lookback time.Duration
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(fetcher ports.NewOrdersFetcher, repo ports.OrderRepository, publisher ports.OrderPublisher, lookback time.Duration) *OrderService {
	return &OrderService{
		fetcher:   fetcher,
		repo:      repo,
		publisher: publisher,
		lookback:  lookback,
	}
}

// SyncNewOrders fetches one page of new orders and stores each of them.
// Orders already stored are counted as duplicates. Stored orders are published from the
// repository afterwards, so an order whose publish failed is retried on the next sync.
// A storage or publishing error stops the sync; domain.ErrUpstreamRejected is returned unwrapped.
// If another sync is running, domain.ErrSyncInProgress is returned right away.
func (s *OrderService) SyncNewOrders(ctx context.Context) (*domain.SyncResult, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	log := logger.Get()

	orders, err := s.fetcher.FetchNewOrders(ctx, s.lookback)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to fetch new orders: %w", err)
	}

	result := &domain.SyncResult{}

	for order := range orders {
		result.Fetched++

		created, err := s.repo.Save(ctx, order)
		if errors.Is(err, domain.ErrInvalidPosting) {
			result.Skipped++
			log.Warn("Skipping posting", zap.String("profile", string(order.Profile)), zap.Error(err))
			continue
		}
		if err != nil {
			return result, fmt.Errorf("service: failed to save order: %w", err)
		}

		if created {
			result.Created++
		} else {
			result.Duplicates++
		}
	}

	if s.publisher != nil {
		published, err := s.publishPending(ctx)
		result.Published = published
		if err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)

	log.Info("New orders synced",
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("published", result.Published),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// publishPending publishes stored orders that have no published mark yet.
// An order published but not marked is published again next time.
func (s *OrderService) publishPending(ctx context.Context) (int, error) {
	pending, err := s.repo.ListUnpublished(ctx, publishBatch)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list unpublished orders: %w", err)
	}

	published := 0
	for _, order := range pending {
		if err := s.publisher.Publish(ctx, order); err != nil {
			return published, fmt.Errorf("service: failed to publish order: %w", err)
		}
		if err := s.repo.MarkPublished(ctx, order.Posting.PostingNumber); err != nil {
			return published, fmt.Errorf("service: failed to mark order published: %w", err)
		}
		published++
	}

	return published, nil
}

// Window reports the fetcher's current lower bound.
func (s *OrderService) Window() ports.WindowState {
	state := ports.WindowState{Mode: s.fetcher.Mode()}
	if since, ok := s.fetcher.Since(); ok {
		state.Since = &since
	}
	return state
}
