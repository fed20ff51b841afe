package redis

import (
	"context"
	"strconv"
	"time"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthChecker provides Redis health checking functionality
type HealthChecker struct {
	client  *Client
	timeout time.Duration
}

// NewHealthChecker creates a new Redis health checker
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{
		client:  client,
		timeout: 2 * time.Second,
	}
}

// HealthCheck pings the server and reports pool statistics
func (h *HealthChecker) HealthCheck(ctx context.Context) RedisHealthCheck {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	config := h.client.GetConfig()
	details := map[string]string{
		"host":     config.Host,
		"port":     strconv.Itoa(config.Port),
		"database": strconv.Itoa(config.Database),
	}

	start := time.Now()
	if err := h.client.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return RedisHealthCheck{Status: StatusDown, Details: details}
	}
	details["ping_latency"] = time.Since(start).String()

	if size, err := h.client.GetDBSize(ctx); err == nil {
		details["keys"] = strconv.FormatInt(size, 10)
	}

	stats := h.client.Stats()
	details["pool_total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
	details["pool_idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	details["pool_timeouts"] = strconv.FormatUint(uint64(stats.Timeouts), 10)

	return RedisHealthCheck{Status: StatusUp, Details: details}
}
