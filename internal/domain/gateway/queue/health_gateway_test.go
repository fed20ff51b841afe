package queue

import (
	"testing"

	"go-weather/internal/domain/model"
	"go-weather/pkg/sqs"

	"github.com/stretchr/testify/assert"
)

type stubWorker sqs.WorkerHealthCheck

func (s stubWorker) HealthCheck() sqs.WorkerHealthCheck { return sqs.WorkerHealthCheck(s) }

func TestQueueHealthGateway(t *testing.T) {
	gateway := NewQueueHealthGateway()
	assert.Equal(t, model.StatusUnknown, gateway.Health().Status)

	gateway.RegisterWorker("refresh", stubWorker{Status: sqs.StatusUp, Details: map[string]string{"processed": "4"}})
	health := gateway.Health()
	assert.Equal(t, model.StatusUp, health.Status)
	assert.Equal(t, "UP", health.Details["refresh_status"])
	assert.Equal(t, "4", health.Details["refresh_processed"])
	assert.Equal(t, "1", health.Details["workers_up"])

	gateway.RegisterWorker("other", stubWorker{Status: sqs.StatusDown})
	health = gateway.Health()
	assert.Equal(t, model.StatusDown, health.Status)
	assert.Equal(t, "1", health.Details["workers_down"])

	gateway.UnregisterWorker("other")
	assert.Equal(t, model.StatusUp, gateway.Health().Status)
}
