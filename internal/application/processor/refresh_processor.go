package processor

import (
	"context"
	"encoding/json"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/queue"
	"go-weather/internal/domain/usecase/refresh"
	"go-weather/pkg/log"
	"go-weather/pkg/sqs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// RefreshProcessor turns refresh queue messages into refresh use case calls.
type RefreshProcessor struct {
	refreshUseCase refresh.UseCase
}

func NewRefreshProcessor(refreshUseCase refresh.UseCase) *RefreshProcessor {
	return &RefreshProcessor{
		refreshUseCase: refreshUseCase,
	}
}

// HandleMessage implements the sqs.Handler interface. Undecodable messages
// are acknowledged and dropped since redelivery cannot fix them.
func (p *RefreshProcessor) HandleMessage(ctx context.Context, msg types.Message) error {
	messageID := aws.ToString(msg.MessageId)
	if msg.Body == nil {
		log.Warn("Dropping refresh message without body", zap.String("message_id", messageID))
		return nil
	}

	var task entity.RefreshTask
	if err := json.Unmarshal([]byte(*msg.Body), &task); err != nil {
		log.Warn("Dropping undecodable refresh message", zap.String("message_id", messageID), zap.Error(err))
		return nil
	}

	if task.Attempt < 1 {
		if attempt, ok := sqs.AttributeInt(msg, queue.AttemptAttribute); ok {
			task.Attempt = attempt
		} else {
			task.Attempt = 1
		}
	}
	if task.ID == "" {
		task.ID = messageID
	}

	log.Debug("Processing refresh message",
		zap.String("message_id", messageID),
		zap.String("task_id", task.ID),
		zap.Int("attempt", task.Attempt))

	return p.refreshUseCase.HandleTask(ctx, task)
}

var _ sqs.Handler = (*RefreshProcessor)(nil)
