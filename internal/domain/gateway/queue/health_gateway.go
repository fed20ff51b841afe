package queue

import (
	"go-weather/internal/domain/model"
	"go-weather/pkg/sqs"
)

// WorkerHealth is implemented by *sqs.Worker.
type WorkerHealth interface {
	HealthCheck() sqs.WorkerHealthCheck
}

type HealthGateway interface {
	Health() model.ComponentHealthStatus
	RegisterWorker(name string, worker WorkerHealth)
	UnregisterWorker(name string)
}
