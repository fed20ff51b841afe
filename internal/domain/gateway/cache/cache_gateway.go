package cache

import (
	"context"
	"time"

	"go-weather/internal/domain/entity"
)

// TrackedLocationsKey is the sorted set of recently requested coordinates,
// scored by the unix time of the last request.
const TrackedLocationsKey = "refresh_locations"

// Store is a key/value store with per-entry expiry. A missing or expired key
// reads as (nil, false, nil).
type Store interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int, error)
	ListKeys(ctx context.Context, pattern string) ([]string, error)
}

// LocationTracker remembers which coordinates were requested recently.
type LocationTracker interface {
	Track(ctx context.Context, coords entity.Coordinates, at time.Time) error
	TrackedSince(ctx context.Context, since time.Time) ([]entity.Coordinates, error)
	ForgetBefore(ctx context.Context, before time.Time) (int, error)
}
