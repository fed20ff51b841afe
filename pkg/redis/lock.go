package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-weather/pkg/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLockNotAcquired is returned when another holder owns the lock.
var ErrLockNotAcquired = errors.New("lock is held by another owner")

// LockOptions represents options for distributed locking
type LockOptions struct {
	// TTL is the lock expiration time
	TTL time.Duration
	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
	// MaxRetries is the maximum number of retry attempts; 0 tries once
	MaxRetries int
	// LockNamespace is the namespace for organizing locks
	LockNamespace string
}

// NewLockOptions creates a new lock options with default values
func NewLockOptions() *LockOptions {
	return &LockOptions{
		TTL:           30 * time.Second,
		RetryDelay:    100 * time.Millisecond,
		MaxRetries:    10,
		LockNamespace: "",
	}
}

// WithTTL sets the lock expiration time
func (lo *LockOptions) WithTTL(ttl time.Duration) *LockOptions {
	if ttl < 0 {
		panic(fmt.Sprintf("invalid TTL: %v, must be non-negative", ttl))
	}
	lo.TTL = ttl
	return lo
}

// WithRetryDelay sets the delay between retry attempts
func (lo *LockOptions) WithRetryDelay(delay time.Duration) *LockOptions {
	if delay < 0 {
		panic(fmt.Sprintf("invalid retry delay: %v, must be non-negative", delay))
	}
	lo.RetryDelay = delay
	return lo
}

// WithMaxRetries sets the maximum number of retry attempts
func (lo *LockOptions) WithMaxRetries(maxRetries int) *LockOptions {
	if maxRetries < 0 {
		panic(fmt.Sprintf("invalid max retries: %d, must be non-negative", maxRetries))
	}
	lo.MaxRetries = maxRetries
	return lo
}

// WithLockNamespace sets the namespace for organizing locks
func (lo *LockOptions) WithLockNamespace(namespace string) *LockOptions {
	lo.LockNamespace = namespace
	return lo
}

// DefaultLockOptions returns default lock options
func DefaultLockOptions() *LockOptions {
	return NewLockOptions()
}

// Lock represents a distributed lock
type Lock struct {
	client *Client
	key    string
	value  string
	opts   *LockOptions
}

// NewLock creates a new distributed lock
func NewLock(client *Client, key string, opts *LockOptions) *Lock {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	return &Lock{
		client: client,
		key:    key,
		value:  uuid.NewString(),
		opts:   opts,
	}
}

// Key is the full Redis key, LockNamespace::key when a namespace is set
func (l *Lock) Key() string {
	if l.opts.LockNamespace != "" {
		return l.opts.LockNamespace + "::" + l.key
	}
	return l.key
}

// Lock attempts to acquire the lock, retrying up to MaxRetries times
func (l *Lock) Lock(ctx context.Context) error {
	fullKey := l.Key()
	for attempt := 0; attempt <= l.opts.MaxRetries; attempt++ {
		acquired, err := l.client.GetClient().SetNX(ctx, fullKey, l.value, l.opts.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if acquired {
			return nil
		}

		if attempt == l.opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.opts.RetryDelay):
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrLockNotAcquired, l.opts.MaxRetries+1)
}

const unlockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// Unlock releases the lock if this owner still holds it
func (l *Lock) Unlock(ctx context.Context) error {
	result, err := l.client.GetClient().Eval(ctx, unlockScript, []string{l.Key()}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == 0 {
		return fmt.Errorf("lock was not held by this client")
	}
	return nil
}

// IsLocked reports whether this owner currently holds the lock
func (l *Lock) IsLocked(ctx context.Context) (bool, error) {
	value, found, err := l.client.GetBytes(ctx, l.Key())
	if err != nil {
		return false, err
	}
	return found && string(value) == l.value, nil
}

// LockWithFunc executes a function while holding a lock
func LockWithFunc(ctx context.Context, client *Client, key string, opts *LockOptions, fn func() error) error {
	lock := NewLock(client, key, opts)

	if err := lock.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	// The TTL may have expired during fn; the next holder's lock must not be released.
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release lock", zap.String("lock", lock.Key()), zap.Error(err))
		}
	}()

	return fn()
}
