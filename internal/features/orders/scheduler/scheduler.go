package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/features/orders/domain"
	"ozon-orders/internal/features/orders/ports"

	"go.uber.org/zap"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = time.Minute

// Scheduler runs SyncNewOrders on a fixed interval.
// Runs never overlap: a tick that arrives while a sync is in flight is dropped.
type Scheduler struct {
	interval time.Duration
	service  ports.OrderSyncService
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(interval time.Duration, service ports.OrderSyncService, l *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if l == nil {
		l = logger.Get()
	}
	return &Scheduler{
		interval: interval,
		service:  service,
		logger:   l,
	}
}

// Start begins the polling loop. The first sync runs immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("New orders scheduler started", zap.Duration("interval", s.interval))

	return nil
}

// Stop cancels the loop and waits for an in-flight sync to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("New orders scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.syncOnce()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce()
		}
	}
}

// syncOnce runs one sync and logs its outcome. Errors never stop the loop.
func (s *Scheduler) syncOnce() {
	if _, err := s.service.SyncNewOrders(s.ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return
		case errors.Is(err, domain.ErrSyncInProgress):
			s.logger.Debug("New orders sync skipped, another sync is running")
		case errors.Is(err, domain.ErrUpstreamRejected):
			// already logged per API error
			s.logger.Warn("New orders sync rejected upstream")
		default:
			s.logger.Error("New orders sync failed", zap.Error(err))
		}
	}
}
