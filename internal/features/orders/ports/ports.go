package ports

import (
	"context"
	"iter"
	"time"

	"ozon-orders/internal/features/orders/domain"
)

// NewOrdersFetcher retrieves postings placed since the fetcher's lower bound.
// This is a Secondary Port (Driven Port).
type NewOrdersFetcher interface {
	// FetchNewOrders performs exactly one upstream call. A lookback of 0 means the default.
	// It returns domain.ErrUpstreamRejected when the API answered with an error status;
	// an empty sequence with a nil error means there were no new orders.
	FetchNewOrders(ctx context.Context, lookback time.Duration) (iter.Seq[domain.NewOrder], error)
	// Since returns the stored lower bound, if one has been computed.
	Since() (time.Time, bool)
	// Mode returns how the lower bound evolves between calls.
	Mode() domain.WindowMode
}

// BoundaryStore persists the polling lower bound per profile.
type BoundaryStore interface {
	// Load returns the stored bound; ok is false when nothing was stored.
	Load(ctx context.Context, profile domain.ProfileID) (since time.Time, ok bool, err error)
	// Save replaces the stored bound.
	Save(ctx context.Context, profile domain.ProfileID, since time.Time) error
}

// OrderRepository stores fetched orders. Stored orders start unpublished and serve as
// the outbox of the publisher.
type OrderRepository interface {
	// Save inserts the order if its posting number is unknown; created reports whether it did.
	Save(ctx context.Context, order domain.NewOrder) (created bool, err error)
	// ListUnpublished returns up to limit stored orders not yet published, oldest first.
	ListUnpublished(ctx context.Context, limit int) ([]domain.NewOrder, error)
	// MarkPublished records that the order was published.
	MarkPublished(ctx context.Context, postingNumber string) error
}

// OrderPublisher announces newly stored orders to other services.
type OrderPublisher interface {
	Publish(ctx context.Context, order domain.NewOrder) error
}

// OrderSyncService is the primary port used by the HTTP handler and the scheduler.
type OrderSyncService interface {
	// SyncNewOrders runs one sync. Calls never overlap: a call made while another is
	// running returns domain.ErrSyncInProgress.
	SyncNewOrders(ctx context.Context) (*domain.SyncResult, error)
	Window() WindowState
}

// WindowState describes the fetcher's current lower bound.
type WindowState struct {
	Mode  domain.WindowMode `json:"mode"`
	Since *time.Time        `json:"since"`
}
