package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ozon-orders/internal/core/cache"
	"ozon-orders/internal/features/orders/domain"
)

const boundaryKeyPrefix = "ozon:orders:since:"

// CacheBoundaryStore implements ports.BoundaryStore on top of the cache port (Redis in production).
type CacheBoundaryStore struct {
	cache cache.Cache
}

// NewCacheBoundaryStore creates a new CacheBoundaryStore.
func NewCacheBoundaryStore(c cache.Cache) *CacheBoundaryStore {
	return &CacheBoundaryStore{
		cache: c,
	}
}

func boundaryKey(profile domain.ProfileID) string {
	return boundaryKeyPrefix + string(profile)
}

// Load returns the stored lower bound for profile.
func (s *CacheBoundaryStore) Load(ctx context.Context, profile domain.ProfileID) (time.Time, bool, error) {
	data, err := s.cache.Get(ctx, boundaryKey(profile))
	if errors.Is(err, cache.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get boundary from cache: %w", err)
	}

	since, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse stored boundary %q: %w", data, err)
	}

	return since, true, nil
}

// Save stores since for profile without expiration.
func (s *CacheBoundaryStore) Save(ctx context.Context, profile domain.ProfileID, since time.Time) error {
	value := []byte(since.UTC().Format(time.RFC3339Nano))
	if err := s.cache.Set(ctx, boundaryKey(profile), value, 0); err != nil {
		return fmt.Errorf("failed to save boundary to cache: %w", err)
	}
	return nil
}
