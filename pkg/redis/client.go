package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client with additional functionality
type Client struct {
	rdb    *redis.Client
	config *Config
}

// NewClient creates a new Redis client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("invalid Redis configuration: %v", err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:           config.Addr(),
		Password:       config.Password,
		DB:             config.Database,
		MinIdleConns:   config.MinIdleConns,
		MaxIdleConns:   config.MaxIdleConns,
		MaxActiveConns: config.MaxActive,
		MaxRetries:     config.MaxRetries,
		DialTimeout:    config.DialTimeout,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		PoolTimeout:    config.PoolTimeout,
	})

	return &Client{
		rdb:    rdb,
		config: config,
	}
}

// NewClientFromAddr connects to addr with default pool settings. Tests use it with miniredis.
func NewClientFromAddr(addr string) *Client {
	config := DefaultConfig()
	if host, port, err := net.SplitHostPort(addr); err == nil {
		config.Host = host
		config.Port, _ = strconv.Atoi(port)
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &Client{rdb: rdb, config: config}
}

// Ping tests the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// GetConfig returns the Redis configuration
func (c *Client) GetConfig() *Config {
	return c.config
}

// Set stores a key-value pair with optional expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// GetBytes retrieves a value by key as bytes. A missing key yields (nil, false, nil).
func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return result, true, nil
}

// Delete removes one or more keys and returns how many existed
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return c.rdb.Del(ctx, keys...).Result()
}

// TTL returns the time to live of a key
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

// ScanKeys walks the whole keyspace with SCAN and returns the keys matching pattern.
// Unlike KEYS it does not block the server on large databases.
func (c *Client) ScanKeys(ctx context.Context, pattern string, count int64) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, count).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys %q: %w", pattern, err)
	}
	return keys, nil
}

// DeleteInBatches deletes keys batchSize at a time and returns how many were removed.
func (c *Client) DeleteInBatches(ctx context.Context, keys []string, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	var deleted int64
	for start := 0; start < len(keys); start += batchSize {
		end := min(start+batchSize, len(keys))
		n, err := c.Delete(ctx, keys[start:end]...)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete keys: %w", err)
		}
		deleted += n
	}
	return deleted, nil
}

// ZAdd adds one or more members to a sorted set
func (c *Client) ZAdd(ctx context.Context, key string, members ...redis.Z) error {
	return c.rdb.ZAdd(ctx, key, members...).Err()
}

// ZRangeByScore returns the members whose score lies in [minScore, maxScore], lowest score first
func (c *Client) ZRangeByScore(ctx context.Context, key string, minScore, maxScore string) ([]string, error) {
	return c.rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: minScore, Max: maxScore}).Result()
}

// ZRemRangeByScore removes the members whose score lies in [minScore, maxScore]
func (c *Client) ZRemRangeByScore(ctx context.Context, key string, minScore, maxScore string) (int64, error) {
	return c.rdb.ZRemRangeByScore(ctx, key, minScore, maxScore).Result()
}

// GetDBSize returns the number of keys in the current database
func (c *Client) GetDBSize(ctx context.Context) (int64, error) {
	return c.rdb.DBSize(ctx).Result()
}

// Stats returns the client pool statistics
func (c *Client) Stats() *redis.PoolStats {
	return c.rdb.PoolStats()
}
