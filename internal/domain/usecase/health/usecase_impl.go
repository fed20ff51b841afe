package health

import (
	"context"

	"go-weather/internal/domain/gateway/cache"
	"go-weather/internal/domain/gateway/queue"
	"go-weather/internal/domain/model"
)

type healthUseCase struct {
	cacheGateway cache.HealthGateway
	queueGateway queue.HealthGateway
}

func NewHealthUseCase(cacheGateway cache.HealthGateway, queueGateway queue.HealthGateway) UseCase {
	return &healthUseCase{
		cacheGateway: cacheGateway,
		queueGateway: queueGateway,
	}
}

// CheckHealth is UP only when both the cache and every queue worker are UP.
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	cacheHealth := useCase.cacheGateway.Health(ctx)
	queueHealth := useCase.queueGateway.Health()

	overallStatus := model.StatusUp
	if cacheHealth.Status != model.StatusUp || queueHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status: overallStatus,
		Cache:  cacheHealth,
		Queue:  queueHealth,
	}
}
