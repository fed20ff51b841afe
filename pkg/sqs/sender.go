package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// MaxDelaySeconds is the largest per-message delay SQS accepts.
const MaxDelaySeconds = 900

// SendOptions carries per-message delivery settings.
type SendOptions struct {
	// DelaySeconds postpones delivery; values above MaxDelaySeconds are capped.
	DelaySeconds int32
	// Attributes are sent as String message attributes.
	Attributes map[string]string
}

// BatchMessage represents a message to be sent in batch
type BatchMessage struct {
	MessageID string
	Body      any
	Options   SendOptions
}

// BatchResult represents the result of a batch send operation
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// SQSClient defines the interface for SQS operations
type SQSClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// Sender handles sending messages to SQS queues
type Sender struct {
	sqsClient SQSClient
	queueURLs sync.Map
}

// NewSender creates and returns a new Sender
func NewSender(sqsClient SQSClient) *Sender {
	return &Sender{
		sqsClient: sqsClient,
	}
}

// SendMessage serializes the provided body to JSON and sends it to the specified queue
func (s *Sender) SendMessage(ctx context.Context, queueName string, body any, opts SendOptions) error {
	queueURL, err := s.getQueueURL(ctx, queueName)
	if err != nil {
		return fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	_, err = s.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(queueURL),
		MessageBody:       aws.String(string(jsonBody)),
		DelaySeconds:      capDelay(opts.DelaySeconds),
		MessageAttributes: toAttributes(opts.Attributes),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}

	return nil
}

// SendMessageBatch sends multiple messages in batches of 10 to the specified queue using parallel processing
// Returns BatchResult with successful and failed message IDs
func (s *Sender) SendMessageBatch(ctx context.Context, queueName string, messages []BatchMessage) (*BatchResult, error) {
	if len(messages) == 0 {
		return &BatchResult{
			Successful: []string{},
			Failed:     []string{},
		}, nil
	}

	queueURL, err := s.getQueueURL(ctx, queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	// Split messages into batches of 10 (SQS limit)
	const batchSize = 10
	var batches [][]BatchMessage
	for i := 0; i < len(messages); i += batchSize {
		end := min(i+batchSize, len(messages))
		batches = append(batches, messages[i:end])
	}

	resultChan := make(chan *BatchResult, len(batches))
	var wg sync.WaitGroup

	for _, batch := range batches {
		wg.Add(1)
		go func(batchMessages []BatchMessage) {
			defer wg.Done()

			batchResult, err := s.sendBatch(ctx, queueURL, batchMessages)
			if err != nil {
				// If the entire batch fails, mark all messages as failed
				failedResult := &BatchResult{
					Successful: []string{},
					Failed:     make([]string, len(batchMessages)),
				}
				for i, msg := range batchMessages {
					failedResult.Failed[i] = msg.MessageID
				}
				resultChan <- failedResult
				return
			}

			resultChan <- batchResult
		}(batch)
	}

	wg.Wait()
	close(resultChan)

	finalResult := &BatchResult{
		Successful: []string{},
		Failed:     []string{},
	}
	for batchResult := range resultChan {
		finalResult.Successful = append(finalResult.Successful, batchResult.Successful...)
		finalResult.Failed = append(finalResult.Failed, batchResult.Failed...)
	}

	return finalResult, nil
}

// sendBatch sends a single batch of up to 10 messages
func (s *Sender) sendBatch(ctx context.Context, queueURL string, messages []BatchMessage) (*BatchResult, error) {
	if len(messages) > 10 {
		return nil, fmt.Errorf("batch size cannot exceed 10 messages, got %d", len(messages))
	}

	entries := make([]types.SendMessageBatchRequestEntry, 0, len(messages))
	serializationFailed := make([]string, 0)

	for _, msg := range messages {
		jsonBody, err := json.Marshal(msg.Body)
		if err != nil {
			serializationFailed = append(serializationFailed, msg.MessageID)
			continue
		}

		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:                aws.String(msg.MessageID),
			MessageBody:       aws.String(string(jsonBody)),
			DelaySeconds:      capDelay(msg.Options.DelaySeconds),
			MessageAttributes: toAttributes(msg.Options.Attributes),
		})
	}

	result := &BatchResult{
		Successful: []string{},
		Failed:     serializationFailed,
	}

	if len(entries) == 0 {
		return result, nil
	}

	output, err := s.sqsClient.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message batch: %w", err)
	}

	for _, success := range output.Successful {
		if success.Id != nil {
			result.Successful = append(result.Successful, *success.Id)
		}
	}
	for _, failed := range output.Failed {
		if failed.Id != nil {
			result.Failed = append(result.Failed, *failed.Id)
		}
	}

	return result, nil
}

// getQueueURL resolves and caches the URL for the specified queue name
func (s *Sender) getQueueURL(ctx context.Context, queueName string) (string, error) {
	if cached, ok := s.queueURLs.Load(queueName); ok {
		return cached.(string), nil
	}

	queueURL, err := resolveQueueURL(ctx, s.sqsClient, queueName)
	if err != nil {
		return "", err
	}
	s.queueURLs.Store(queueName, queueURL)
	return queueURL, nil
}

type queueURLResolver interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
}

func resolveQueueURL(ctx context.Context, client queueURLResolver, queueName string) (string, error) {
	result, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		return "", err
	}
	if result.QueueUrl == nil {
		return "", fmt.Errorf("queue URL is nil for queue %s", queueName)
	}
	return *result.QueueUrl, nil
}

func capDelay(seconds int32) int32 {
	if seconds < 0 {
		return 0
	}
	if seconds > MaxDelaySeconds {
		return MaxDelaySeconds
	}
	return seconds
}

func toAttributes(attributes map[string]string) map[string]types.MessageAttributeValue {
	if len(attributes) == 0 {
		return nil
	}
	result := make(map[string]types.MessageAttributeValue, len(attributes))
	for name, value := range attributes {
		result[name] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}
	return result
}

// AttributeInt reads a numeric attribute set by SendOptions.Attributes.
func AttributeInt(msg types.Message, name string) (int, bool) {
	attribute, ok := msg.MessageAttributes[name]
	if !ok || attribute.StringValue == nil {
		return 0, false
	}
	value, err := strconv.Atoi(*attribute.StringValue)
	if err != nil {
		return 0, false
	}
	return value, true
}
