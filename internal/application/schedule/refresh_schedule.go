package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-weather/internal/domain/usecase/refresh"
	"go-weather/pkg/log"
	"go-weather/pkg/redis"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const refreshTrackedLockKey = "refresh_tracked_job"

// RefreshScheduler periodically enqueues refreshes for recently requested locations.
type RefreshScheduler struct {
	scheduler   gocron.Scheduler
	useCase     refresh.UseCase
	redisClient *redis.Client
	interval    time.Duration
}

func NewRefreshScheduler(useCase refresh.UseCase, redisClient *redis.Client, interval time.Duration) (*RefreshScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	return &RefreshScheduler{
		scheduler:   scheduler,
		useCase:     useCase,
		redisClient: redisClient,
		interval:    interval,
	}, nil
}

// Start schedules the tracked refresh job and starts the scheduler without blocking
func (s *RefreshScheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.ExecuteRefresh),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("refresh_tracked_locations"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule tracked refresh job: %w", err)
	}

	s.scheduler.Start()
	log.Infof("Tracked location refresh scheduled every %s", s.interval)
	return nil
}

// ExecuteRefresh enqueues one refresh round unless another instance already
// did so in this interval. The lock is left to expire instead of being
// released, so replicas with shifted ticks do not repeat the round.
func (s *RefreshScheduler) ExecuteRefresh(ctx context.Context) {
	opts := redis.NewLockOptions().
		WithTTL(s.interval * 9 / 10).
		WithMaxRetries(0).
		WithLockNamespace(scheduleLockNamespace)

	lock := redis.NewLock(s.redisClient, refreshTrackedLockKey, opts)
	if err := lock.Lock(ctx); err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			log.Debug("Tracked refresh skipped, already done in this interval")
			return
		}
		log.Error("Tracked refresh failed", zap.Error(err))
		return
	}

	if _, err := s.useCase.RefreshTracked(ctx); err != nil {
		log.Error("Tracked refresh failed", zap.Error(err))
	}
}

// Stop shuts the scheduler down, waiting for a running job to finish
func (s *RefreshScheduler) Stop() error {
	return s.scheduler.Shutdown()
}
