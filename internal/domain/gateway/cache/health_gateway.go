package cache

import (
	"context"

	"go-weather/internal/domain/model"
	pkgredis "go-weather/pkg/redis"
)

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

type redisHealthGateway struct {
	checker *pkgredis.HealthChecker
}

// NewRedisHealthGateway reports the health of the Redis cache backend.
func NewRedisHealthGateway(client *pkgredis.Client) HealthGateway {
	return &redisHealthGateway{checker: pkgredis.NewHealthChecker(client)}
}

func (gateway *redisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.checker.HealthCheck(ctx)

	status := model.StatusDown
	switch check.Status {
	case pkgredis.StatusUp:
		status = model.StatusUp
	case pkgredis.StatusUnknown:
		status = model.StatusUnknown
	}

	return model.ComponentHealthStatus{Status: status, Details: check.Details}
}
