package health

import (
	"context"
	"testing"

	"go-weather/internal/domain/gateway/queue"
	"go-weather/internal/domain/model"
	"go-weather/pkg/sqs"

	"github.com/stretchr/testify/assert"
)

type stubCache model.ComponentHealthStatus

func (s stubCache) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus(s)
}

type stubWorker sqs.WorkerHealthCheck

func (s stubWorker) HealthCheck() sqs.WorkerHealthCheck { return sqs.WorkerHealthCheck(s) }

func TestCheckHealth(t *testing.T) {
	queueGateway := queue.NewQueueHealthGateway()
	queueGateway.RegisterWorker("refresh", stubWorker{Status: sqs.StatusUp})

	up := NewHealthUseCase(stubCache{Status: model.StatusUp}, queueGateway).CheckHealth(context.Background())
	assert.Equal(t, model.StatusUp, up.Status)
	assert.Equal(t, model.StatusUp, up.Queue.Status)

	down := NewHealthUseCase(stubCache{Status: model.StatusDown}, queueGateway).CheckHealth(context.Background())
	assert.Equal(t, model.StatusDown, down.Status)
	assert.Equal(t, model.StatusDown, down.Cache.Status)

	noWorkers := NewHealthUseCase(stubCache{Status: model.StatusUp}, queue.NewQueueHealthGateway()).CheckHealth(context.Background())
	assert.Equal(t, model.StatusDown, noWorkers.Status)
}
