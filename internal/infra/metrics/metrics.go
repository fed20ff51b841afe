package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the collectors the service reports to.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups     *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	refreshTasks     *prometheus.CounterVec
	sweptKeys        prometheus.Counter
}

// New builds the collectors and registers them together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_cache_lookups_total",
				Help: "Cache lookups by namespace and result (hit, miss, error)",
			},
			[]string{"namespace", "result"},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_calls_total",
				Help: "Upstream weather API calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_provider_duration_seconds",
				Help:    "Upstream weather API latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		refreshTasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_refresh_tasks_total",
				Help: "Background refresh task executions by outcome (done, retried, dropped)",
			},
			[]string{"outcome"},
		),
		sweptKeys: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "weather_cache_swept_keys_total",
				Help: "Keys removed by the cache janitor",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.cacheLookups,
		m.providerCalls,
		m.providerDuration,
		m.refreshTasks,
		m.sweptKeys,
	)
	return m
}

func (m *Metrics) ObserveCacheLookup(namespace, result string) {
	m.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) ObserveProviderCall(endpoint, outcome string, elapsed time.Duration) {
	m.providerCalls.WithLabelValues(endpoint, outcome).Inc()
	m.providerDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRefreshTask(outcome string) {
	m.refreshTasks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSweptKeys(n int) {
	if n > 0 {
		m.sweptKeys.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
