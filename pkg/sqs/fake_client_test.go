package sqs

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// fakeSQS is an in-memory single-queue SQS stand-in.
type fakeSQS struct {
	mu            sync.Mutex
	queueName     string
	sent          []*sqs.SendMessageInput
	batches       []*sqs.SendMessageBatchInput
	pending       []types.Message
	deleted       []string
	urlLookups    int
	nextID        int
	receiveErr    error
	failBatchSend bool
}

func newFakeSQS(queueName string) *fakeSQS {
	return &fakeSQS{queueName: queueName}
}

func (f *fakeSQS) url() string {
	return "https://sqs.local/000000000000/" + f.queueName
}

func (f *fakeSQS) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urlLookups++
	if aws.ToString(params.QueueName) != f.queueName {
		return nil, errors.New("AWS.SimpleQueueService.NonExistentQueue")
	}
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String(f.url())}, nil
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	id := f.push(params.MessageBody, params.MessageAttributes)
	return &sqs.SendMessageOutput{MessageId: aws.String(id)}, nil
}

func (f *fakeSQS) SendMessageBatch(_ context.Context, params *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBatchSend {
		return nil, errors.New("throttled")
	}
	f.batches = append(f.batches, params)
	output := &sqs.SendMessageBatchOutput{}
	for _, entry := range params.Entries {
		f.push(entry.MessageBody, entry.MessageAttributes)
		output.Successful = append(output.Successful, types.SendMessageBatchResultEntry{Id: entry.Id})
	}
	return output, nil
}

func (f *fakeSQS) push(body *string, attributes map[string]types.MessageAttributeValue) string {
	f.nextID++
	id := strconv.Itoa(f.nextID)
	f.pending = append(f.pending, types.Message{
		MessageId:         aws.String(id),
		ReceiptHandle:     aws.String("rh-" + id),
		Body:              body,
		MessageAttributes: attributes,
	})
	return id
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if f.receiveErr != nil {
		err := f.receiveErr
		f.mu.Unlock()
		return nil, err
	}
	n := min(int(params.MaxNumberOfMessages), len(f.pending))
	messages := append([]types.Message(nil), f.pending[:n]...)
	f.pending = f.pending[n:]
	f.mu.Unlock()

	if len(messages) == 0 {
		// Simulate a short long-poll.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
	return &sqs.ReceiveMessageOutput{Messages: messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}
