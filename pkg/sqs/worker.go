package sqs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go-weather/pkg/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// HandlerFunc defines a function that handles a SQS Message
type HandlerFunc func(ctx context.Context, msg types.Message) error

// HandleMessage implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(ctx context.Context, msg types.Message) error {
	return f(ctx, msg)
}

// Handler defines an interface that processes a SQS Message. Returning nil
// deletes the message; returning an error leaves it for redelivery.
type Handler interface {
	HandleMessage(ctx context.Context, msg types.Message) error
}

// WorkerClient is the subset of the SQS API the Worker needs
type WorkerClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// LogLevel represents the logging level for the Worker
type LogLevel int

const (
	// Silent logs everything at debug
	Silent LogLevel = iota
	// ErrorLevel logs only errors
	ErrorLevel
	// InfoLevel logs informational and error messages
	InfoLevel
)

// ParseLogLevel maps "silent", "error" or "info" to a LogLevel
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "error", "ERROR":
		return ErrorLevel
	case "info", "INFO":
		return InfoLevel
	default:
		return Silent
	}
}

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	MaxNumberOfMessages int32
	WaitTimeSeconds     int32
	PoolSize            int
	LogLevel            LogLevel
	// ReceiveErrorBackoff is the pause after a failed ReceiveMessage call
	ReceiveErrorBackoff time.Duration
}

// Worker polls and processes messages from a SQS queue
type Worker struct {
	sqsClient           WorkerClient
	queueName           string
	queueURL            string
	maxNumberOfMessages int32
	waitTimeSeconds     int32
	poolSize            int
	logLevel            LogLevel
	receiveBackoff      time.Duration
	handler             Handler

	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64
	mu        sync.RWMutex
	lastError string
	lastPoll  time.Time
}

// NewWorker creates and returns a new Worker.
//
// If the provided WorkerConfig is nil or its fields are zero,
// the following defaults will be used:
//   - MaxNumberOfMessages: 10
//   - WaitTimeSeconds: 20
//   - PoolSize: 1
//   - LogLevel: Silent
//
// Validations:
//   - MaxNumberOfMessages must be between 1 and 10.
//   - WaitTimeSeconds must be between 1 and 20.
//   - PoolSize must be greater than 0.
func NewWorker(ctx context.Context, sqsClient WorkerClient, queueName string, handler Handler, config *WorkerConfig) (*Worker, error) {
	var maxMessages int32 = 10
	var waitTime int32 = 20
	poolSize := 1
	logLevel := Silent
	backoff := time.Second

	if config != nil {
		if config.MaxNumberOfMessages != 0 {
			maxMessages = config.MaxNumberOfMessages
		}
		if config.WaitTimeSeconds != 0 {
			waitTime = config.WaitTimeSeconds
		}
		if config.PoolSize != 0 {
			poolSize = config.PoolSize
		}
		if config.ReceiveErrorBackoff != 0 {
			backoff = config.ReceiveErrorBackoff
		}
		logLevel = config.LogLevel
	}

	if maxMessages < 1 || maxMessages > 10 {
		return nil, errors.New("maxNumberOfMessages must be between 1 and 10")
	}
	if waitTime < 1 || waitTime > 20 {
		return nil, errors.New("waitTimeSeconds must be between 1 and 20")
	}
	if poolSize < 1 {
		return nil, errors.New("poolSize must be greater than 0")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	queueURL, err := resolveQueueURL(ctx, sqsClient, queueName)
	if err != nil {
		return nil, fmt.Errorf("unable to get queue URL: %w", err)
	}

	return &Worker{
		sqsClient:           sqsClient,
		queueName:           queueName,
		queueURL:            queueURL,
		maxNumberOfMessages: maxMessages,
		waitTimeSeconds:     waitTime,
		poolSize:            poolSize,
		logLevel:            logLevel,
		receiveBackoff:      backoff,
		handler:             handler,
	}, nil
}

// Start begins polling messages and processing them concurrently.
// It spawns PoolSize pollers, each handling its received batch in order, so
// at most PoolSize messages are in flight. Start blocks until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.running.Store(true)
	defer w.running.Store(false)

	w.logf(InfoLevel, "starting worker for queue %s with %d pollers", w.queueName, w.poolSize)

	var wg sync.WaitGroup
	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.pollMessages(ctx)
		}()
	}
	wg.Wait()

	w.logf(InfoLevel, "worker for queue %s stopped", w.queueName)
}

func (w *Worker) pollMessages(ctx context.Context) {
	for ctx.Err() == nil {
		output, err := w.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(w.queueURL),
			MaxNumberOfMessages:   w.maxNumberOfMessages,
			WaitTimeSeconds:       w.waitTimeSeconds,
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.recordError(err)
			w.logf(ErrorLevel, "failed to receive messages from %s: %v", w.queueName, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.receiveBackoff):
			}
			continue
		}
		w.recordPoll()

		for _, msg := range output.Messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg types.Message) {
	if err := w.handler.HandleMessage(ctx, msg); err != nil {
		w.failed.Add(1)
		w.logf(ErrorLevel, "error processing message ID %s: %v", safeMessageID(msg), err)
		return
	}
	w.processed.Add(1)

	// Deletion must survive shutdown, otherwise a finished message is redelivered.
	_, err := w.sqsClient.DeleteMessage(context.WithoutCancel(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		w.logf(ErrorLevel, "failed to delete message ID %s: %v", safeMessageID(msg), err)
	} else {
		w.logf(InfoLevel, "successfully deleted message ID %s", safeMessageID(msg))
	}
}

func (w *Worker) recordError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err.Error()
}

func (w *Worker) recordPoll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = ""
	w.lastPoll = time.Now()
}

// HealthCheck reports the worker as UP while it is running and its last receive succeeded
func (w *Worker) HealthCheck() WorkerHealthCheck {
	w.mu.RLock()
	lastError := w.lastError
	lastPoll := w.lastPoll
	w.mu.RUnlock()

	running := w.running.Load()
	details := map[string]string{
		"queue":     w.queueName,
		"pool_size": strconv.Itoa(w.poolSize),
		"running":   strconv.FormatBool(running),
		"processed": strconv.FormatInt(w.processed.Load(), 10),
		"failed":    strconv.FormatInt(w.failed.Load(), 10),
	}
	if !lastPoll.IsZero() {
		details["last_poll"] = lastPoll.UTC().Format(time.RFC3339)
	}

	status := StatusUp
	if !running || lastError != "" {
		status = StatusDown
	}
	if lastError != "" {
		details["last_error"] = lastError
	}

	return WorkerHealthCheck{Status: status, Details: details}
}

func (w *Worker) logf(level LogLevel, format string, v ...interface{}) {
	switch {
	case w.logLevel == Silent:
		log.Debugf(format, v...)
	case level == ErrorLevel:
		log.Errorf(format, v...)
	case level == InfoLevel && w.logLevel == InfoLevel:
		log.Infof(format, v...)
	}
}

func safeMessageID(msg types.Message) string {
	if msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
