package schedule

import (
	"context"
	"errors"
	"time"

	"go-weather/internal/domain/usecase/janitor"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"go-weather/pkg/redis"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	scheduleLockNamespace = "weather_schedules"
	cacheCleanupLockKey   = "cache_cleanup_job"
)

// CacheCleanupScheduler sweeps the weather cache on a cron expression. Each
// tick takes a Redis lock so only one replica sweeps.
type CacheCleanupScheduler struct {
	cron           *cron.Cron
	useCase        janitor.UseCase
	redisClient    *redis.Client
	cronExpression string
	lockTTL        time.Duration
}

func NewCacheCleanupScheduler(useCase janitor.UseCase, redisClient *redis.Client, cronExpression string, lockTTL time.Duration) *CacheCleanupScheduler {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &CacheCleanupScheduler{
		cron:           cron.New(),
		useCase:        useCase,
		redisClient:    redisClient,
		cronExpression: cronExpression,
		lockTTL:        lockTTL,
	}
}

// InitCacheCleanupScheduleTasks registers the sweep and starts the cron
func (s *CacheCleanupScheduler) InitCacheCleanupScheduleTasks() error {
	if _, err := s.cron.AddFunc(s.cronExpression, s.ExecuteCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Infof("Cache cleanup scheduler started with cron expression: %s", s.cronExpression)
	return nil
}

// ExecuteCleanup runs one sweep if no other instance holds the lock
func (s *CacheCleanupScheduler) ExecuteCleanup() {
	requestID := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTTL)
	defer cancel()

	opts := redis.NewLockOptions().
		WithTTL(s.lockTTL).
		WithMaxRetries(0).
		WithLockNamespace(scheduleLockNamespace)

	err := redis.LockWithFunc(ctx, s.redisClient, cacheCleanupLockKey, opts, func() error {
		log.Info(msg.GetMessage("cleanup.cron.start"), zap.String("request_id", requestID))

		deleted, err := s.useCase.Sweep(ctx)
		if err != nil {
			return err
		}

		log.Info(msg.GetMessage("cleanup.cron.end", deleted), zap.String("request_id", requestID))
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, redis.ErrLockNotAcquired):
		log.Info(msg.GetMessage("cleanup.cron.skipped"), zap.String("request_id", requestID))
	default:
		log.Error(msg.GetMessage("cleanup.error.failed"), zap.String("request_id", requestID), zap.Error(err))
	}
}

// Stop gracefully stops the scheduler
func (s *CacheCleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
