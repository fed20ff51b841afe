package sqs

// HealthStatus represents the health status of a worker
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// WorkerHealthCheck represents the health check response of a Worker
type WorkerHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}
