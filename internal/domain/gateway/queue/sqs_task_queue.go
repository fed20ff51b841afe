package queue

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go-weather/internal/domain/entity"
	"go-weather/pkg/log"
	"go-weather/pkg/sqs"

	"go.uber.org/zap"
)

const (
	AttemptAttribute     = "attempt"
	MaxAttemptsAttribute = "max_attempts"
)

// MessageSender is the part of pkg/sqs.Sender the task queue needs.
type MessageSender interface {
	SendMessage(ctx context.Context, queueName string, body any, opts sqs.SendOptions) error
	SendMessageBatch(ctx context.Context, queueName string, messages []sqs.BatchMessage) (*sqs.BatchResult, error)
}

// SQSTaskQueue publishes refresh tasks as JSON messages on one SQS queue.
type SQSTaskQueue struct {
	sender    MessageSender
	queueName string
}

func NewSQSTaskQueue(sender MessageSender, queueName string) *SQSTaskQueue {
	return &SQSTaskQueue{sender: sender, queueName: queueName}
}

func (q *SQSTaskQueue) Enqueue(ctx context.Context, task entity.RefreshTask, opts EnqueueOptions) error {
	if err := q.sender.SendMessage(ctx, q.queueName, task, sendOptions(task, opts)); err != nil {
		return fmt.Errorf("enqueue refresh task %s: %w", task.ID, err)
	}
	return nil
}

// EnqueueBatch sends tasks in SQS batches and returns how many were accepted.
// Individual failures are logged; an error means nothing could be sent.
func (q *SQSTaskQueue) EnqueueBatch(ctx context.Context, tasks []entity.RefreshTask, opts EnqueueOptions) (int, error) {
	messages := make([]sqs.BatchMessage, 0, len(tasks))
	for _, task := range tasks {
		messages = append(messages, sqs.BatchMessage{
			MessageID: task.ID,
			Body:      task,
			Options:   sendOptions(task, opts),
		})
	}

	result, err := q.sender.SendMessageBatch(ctx, q.queueName, messages)
	if err != nil {
		return 0, fmt.Errorf("enqueue %d refresh tasks: %w", len(tasks), err)
	}
	if len(result.Failed) > 0 {
		log.Warn("Some refresh tasks were not enqueued", zap.Strings("ids", result.Failed))
	}
	return len(result.Successful), nil
}

func sendOptions(task entity.RefreshTask, opts EnqueueOptions) sqs.SendOptions {
	delay := math.Ceil(opts.Delay.Seconds())
	if delay > sqs.MaxDelaySeconds {
		delay = sqs.MaxDelaySeconds
	}

	attributes := map[string]string{AttemptAttribute: strconv.Itoa(task.Attempt)}
	if opts.MaxAttempts > 0 {
		attributes[MaxAttemptsAttribute] = strconv.Itoa(opts.MaxAttempts)
	}

	return sqs.SendOptions{
		DelaySeconds: int32(delay),
		Attributes:   attributes,
	}
}
