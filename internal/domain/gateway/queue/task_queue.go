package queue

import (
	"context"
	"time"

	"go-weather/internal/domain/entity"
)

// EnqueueOptions controls delivery of a single refresh task.
type EnqueueOptions struct {
	// Delay postpones delivery. The SQS adapter caps it at 15 minutes.
	Delay time.Duration
	// MaxAttempts travels with the message so consumers can report it.
	MaxAttempts int
}

// TaskQueue delivers refresh tasks to the background workers.
type TaskQueue interface {
	Enqueue(ctx context.Context, task entity.RefreshTask, opts EnqueueOptions) error
	EnqueueBatch(ctx context.Context, tasks []entity.RefreshTask, opts EnqueueOptions) (int, error)
}
