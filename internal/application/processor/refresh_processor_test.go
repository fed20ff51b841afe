package processor

import (
	"context"
	"errors"
	"testing"

	"go-weather/internal/domain/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRefreshUseCase struct{ mock.Mock }

func (m *mockRefreshUseCase) ScheduleRefresh(ctx context.Context, coords entity.Coordinates, kind entity.RefreshKind) error {
	return m.Called(ctx, coords, kind).Error(0)
}

func (m *mockRefreshUseCase) HandleTask(ctx context.Context, task entity.RefreshTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockRefreshUseCase) RefreshTracked(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestRefreshProcessor_DecodesTask(t *testing.T) {
	useCase := &mockRefreshUseCase{}
	useCase.On("HandleTask", mock.Anything, mock.MatchedBy(func(task entity.RefreshTask) bool {
		return task.ID == "t-1" && task.Attempt == 2 && task.Kind == entity.RefreshCurrent &&
			task.Coordinates == entity.Coordinates{Lat: 40.7128, Lon: -74.006}
	})).Return(nil)

	err := NewRefreshProcessor(useCase).HandleMessage(context.Background(), types.Message{
		MessageId: aws.String("m-1"),
		Body:      aws.String(`{"id":"t-1","coordinates":{"lat":40.7128,"lon":-74.006},"kind":"current","attempt":2}`),
	})

	assert.NoError(t, err)
	useCase.AssertExpectations(t)
}

func TestRefreshProcessor_AttemptFromAttributes(t *testing.T) {
	useCase := &mockRefreshUseCase{}
	useCase.On("HandleTask", mock.Anything, mock.MatchedBy(func(task entity.RefreshTask) bool {
		return task.ID == "m-1" && task.Attempt == 3
	})).Return(nil)

	err := NewRefreshProcessor(useCase).HandleMessage(context.Background(), types.Message{
		MessageId: aws.String("m-1"),
		Body:      aws.String(`{"coordinates":{"lat":1,"lon":2},"kind":"both"}`),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"attempt": {DataType: aws.String("String"), StringValue: aws.String("3")},
		},
	})

	assert.NoError(t, err)
	useCase.AssertExpectations(t)
}

func TestRefreshProcessor_PropagatesRetryFailure(t *testing.T) {
	useCase := &mockRefreshUseCase{}
	useCase.On("HandleTask", mock.Anything, mock.Anything).Return(errors.New("queue down"))

	err := NewRefreshProcessor(useCase).HandleMessage(context.Background(), types.Message{
		MessageId: aws.String("m-1"),
		Body:      aws.String(`{"id":"t-1","coordinates":{"lat":1,"lon":2},"kind":"both","attempt":1}`),
	})

	assert.Error(t, err)
}

func TestRefreshProcessor_DropsPoisonMessages(t *testing.T) {
	useCase := &mockRefreshUseCase{}
	processor := NewRefreshProcessor(useCase)

	assert.NoError(t, processor.HandleMessage(context.Background(), types.Message{MessageId: aws.String("m-1")}))
	assert.NoError(t, processor.HandleMessage(context.Background(), types.Message{
		MessageId: aws.String("m-2"),
		Body:      aws.String("{not json"),
	}))
	useCase.AssertNotCalled(t, "HandleTask", mock.Anything, mock.Anything)
}
