package refresh

import (
	"context"
	"fmt"
	"time"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/cache"
	"go-weather/internal/domain/gateway/queue"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = 5 * time.Second
	DefaultTrackedWindow = 24 * time.Hour
)

// Task outcomes reported to the Recorder.
const (
	OutcomeSucceeded     = "succeeded"
	OutcomeRetried       = "retried"
	OutcomeDropped       = "dropped"
	OutcomeInvalid       = "invalid"
	OutcomeEnqueueFailed = "enqueue_failed"
)

// Recorder counts handled refresh tasks by outcome.
type Recorder interface {
	ObserveRefreshTask(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRefreshTask(string) {}

// Config tunes retries and the tracking window. Zero values use the defaults.
type Config struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	TrackedWindow time.Duration
	Clock         func() time.Time
}

type refreshUseCase struct {
	maxAttempts   int
	retryDelay    time.Duration
	trackedWindow time.Duration
	now           func() time.Time
	weather       weather.UseCase
	taskQueue     queue.TaskQueue
	tracker       cache.LocationTracker
	recorder      Recorder
}

func NewRefreshUseCase(cfg Config, weatherUseCase weather.UseCase, taskQueue queue.TaskQueue, tracker cache.LocationTracker, recorder Recorder) UseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.TrackedWindow <= 0 {
		cfg.TrackedWindow = DefaultTrackedWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &refreshUseCase{
		maxAttempts:   cfg.MaxAttempts,
		retryDelay:    cfg.RetryDelay,
		trackedWindow: cfg.TrackedWindow,
		now:           cfg.Clock,
		weather:       weatherUseCase,
		taskQueue:     taskQueue,
		tracker:       tracker,
		recorder:      recorder,
	}
}

func (uc *refreshUseCase) newTask(coords entity.Coordinates, kind entity.RefreshKind) entity.RefreshTask {
	return entity.RefreshTask{
		ID:          uuid.NewString(),
		Coordinates: coords,
		Kind:        kind,
		Attempt:     1,
		EnqueuedAt:  uc.now(),
	}
}

func (uc *refreshUseCase) ScheduleRefresh(ctx context.Context, coords entity.Coordinates, kind entity.RefreshKind) error {
	task := uc.newTask(coords, kind)
	if err := uc.taskQueue.Enqueue(ctx, task, queue.EnqueueOptions{MaxAttempts: uc.maxAttempts}); err != nil {
		return err
	}
	log.Info(msg.GetMessage("refresh.enqueued", coords.LatString(), coords.LonString(), string(kind)))
	return nil
}

func (uc *refreshUseCase) HandleTask(ctx context.Context, task entity.RefreshTask) error {
	if _, err := entity.ParseRefreshKind(string(task.Kind)); err != nil || task.Coordinates.Validate() != nil {
		log.Warn("Dropping malformed refresh task", zap.String("id", task.ID), zap.String("kind", string(task.Kind)))
		uc.recorder.ObserveRefreshTask(OutcomeInvalid)
		return nil
	}
	if task.Kind == "" {
		task.Kind = entity.RefreshBoth
	}

	err := uc.refresh(weather.WithoutTracking(ctx), task)
	if err == nil {
		log.Info(msg.GetMessage("refresh.done", task.ID, task.Attempt))
		uc.recorder.ObserveRefreshTask(OutcomeSucceeded)
		return nil
	}

	if !apierror.IsAPIError(err) {
		log.Error(msg.GetMessage("refresh.not_retryable", task.ID), zap.Error(err))
		uc.recorder.ObserveRefreshTask(OutcomeDropped)
		return nil
	}

	if task.Attempt >= uc.maxAttempts {
		log.Error(msg.GetMessage("refresh.dropped", task.ID, task.Attempt), zap.Error(err))
		uc.recorder.ObserveRefreshTask(OutcomeDropped)
		return nil
	}

	log.Warn(msg.GetMessage("refresh.retry", task.ID, task.Attempt, uc.maxAttempts, uc.retryDelay.String()), zap.Error(err))
	next := task.NextAttempt(uc.now())
	if enqueueErr := uc.taskQueue.Enqueue(ctx, next, queue.EnqueueOptions{Delay: uc.retryDelay, MaxAttempts: uc.maxAttempts}); enqueueErr != nil {
		uc.recorder.ObserveRefreshTask(OutcomeEnqueueFailed)
		return fmt.Errorf("retry refresh task %s: %w", task.ID, enqueueErr)
	}
	uc.recorder.ObserveRefreshTask(OutcomeRetried)
	return nil
}

// refresh forces the datasets named by the task kind, current first, and
// stops at the first failure.
func (uc *refreshUseCase) refresh(ctx context.Context, task entity.RefreshTask) error {
	if task.Kind.IncludesCurrent() {
		if _, err := uc.weather.GetCurrent(ctx, task.Coordinates, true); err != nil {
			return fmt.Errorf("refresh current weather: %w", err)
		}
	}
	if task.Kind.IncludesForecast() {
		if _, err := uc.weather.GetForecast(ctx, task.Coordinates, true); err != nil {
			return fmt.Errorf("refresh forecast: %w", err)
		}
	}
	return nil
}

func (uc *refreshUseCase) RefreshTracked(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.trackedWindow)

	if forgotten, err := uc.tracker.ForgetBefore(ctx, cutoff); err != nil {
		log.Warn("Failed to prune tracked locations", zap.Error(err))
	} else if forgotten > 0 {
		log.Debugf("Pruned %d tracked locations older than %s", forgotten, cutoff.Format(time.RFC3339))
	}

	locations, err := uc.tracker.TrackedSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list tracked locations: %w", err)
	}
	if len(locations) == 0 {
		return 0, nil
	}

	tasks := make([]entity.RefreshTask, 0, len(locations))
	for _, coords := range locations {
		tasks = append(tasks, uc.newTask(coords, entity.RefreshBoth))
	}

	sent, err := uc.taskQueue.EnqueueBatch(ctx, tasks, queue.EnqueueOptions{MaxAttempts: uc.maxAttempts})
	if err != nil {
		return 0, err
	}
	log.Info(msg.GetMessage("refresh.tracked", sent))
	return sent, nil
}
