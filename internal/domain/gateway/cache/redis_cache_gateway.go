package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-weather/internal/domain/entity"
	"go-weather/pkg/log"
	pkgredis "go-weather/pkg/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	scanCount       = 500
	deleteBatchSize = 200
)

// RedisStore implements Store and LocationTracker on a single Redis database.
type RedisStore struct {
	client *pkgredis.Client
}

func NewRedisStore(client *pkgredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := s.client.GetBytes(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("cache read %s: %w", key, err)
	}
	return value, found, nil
}

// Write stores value under key. A ttl of zero or less stores without expiry.
func (s *RedisStore) Write(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) (int, error) {
	deleted, err := s.client.DeleteInBatches(ctx, keys, deleteBatchSize)
	return int(deleted), err
}

// ListKeys returns every key matching a glob pattern, using SCAN.
func (s *RedisStore) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	return s.client.ScanKeys(ctx, pattern, scanCount)
}

func (s *RedisStore) Track(ctx context.Context, coords entity.Coordinates, at time.Time) error {
	err := s.client.ZAdd(ctx, TrackedLocationsKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: coords.Key(),
	})
	if err != nil {
		return fmt.Errorf("track location %s: %w", coords.Key(), err)
	}
	return nil
}

// TrackedSince returns the locations requested at or after since, oldest first.
// Members that do not parse back into coordinates are skipped.
func (s *RedisStore) TrackedSince(ctx context.Context, since time.Time) ([]entity.Coordinates, error) {
	members, err := s.client.ZRangeByScore(ctx, TrackedLocationsKey, strconv.FormatInt(since.Unix(), 10), "+inf")
	if err != nil {
		return nil, fmt.Errorf("read tracked locations: %w", err)
	}

	locations := make([]entity.Coordinates, 0, len(members))
	for _, member := range members {
		coords, err := entity.ParseCoordinatesKey(member)
		if err != nil {
			log.Warn("Skipping malformed tracked location", zap.String("member", member), zap.Error(err))
			continue
		}
		locations = append(locations, coords)
	}
	return locations, nil
}

// ForgetBefore drops locations last requested strictly before the given time.
func (s *RedisStore) ForgetBefore(ctx context.Context, before time.Time) (int, error) {
	removed, err := s.client.ZRemRangeByScore(ctx, TrackedLocationsKey, "-inf", "("+strconv.FormatInt(before.Unix(), 10))
	if err != nil {
		return 0, fmt.Errorf("prune tracked locations: %w", err)
	}
	return int(removed), nil
}

var (
	_ Store           = (*RedisStore)(nil)
	_ LocationTracker = (*RedisStore)(nil)
)
