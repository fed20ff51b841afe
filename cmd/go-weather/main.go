package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-weather/configs"
	"go-weather/internal/application/controller"
	"go-weather/internal/application/middleware"
	"go-weather/internal/application/processor"
	"go-weather/internal/application/schedule"
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/gateway/cache"
	"go-weather/internal/domain/gateway/queue"
	"go-weather/internal/domain/usecase/health"
	"go-weather/internal/domain/usecase/janitor"
	"go-weather/internal/domain/usecase/refresh"
	"go-weather/internal/domain/usecase/weather"
	infraaws "go-weather/internal/infra/aws"
	"go-weather/internal/infra/metrics"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"go-weather/pkg/redis"
	"go-weather/pkg/resource"
	"go-weather/pkg/sqs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetLevel(resource.GetString("app.log.level"))
	log.Info(msg.GetMessage("app.start"))
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	appMetrics := metrics.New()

	redisClient := redis.NewClient(redis.DefaultConfig().
		WithHost(resource.GetStringOrDefault("app.redis.host", "localhost")).
		WithPort(resource.GetIntOrDefault("app.redis.port", 6379)).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")).
		WithMaxActive(resource.GetIntOrDefault("app.redis.pool-size", 5)))
	if err := redisClient.Ping(ctx); err != nil {
		log.Warn("Redis is not reachable at startup, cache lookups will miss", zap.Error(err))
	}

	cloud := infraaws.CloudConfigFromProperties()
	awsConfig, err := infraaws.LoadConfig(ctx, cloud)
	if err != nil {
		log.Fatal("Failed to load AWS configuration", zap.Error(err))
	}
	sqsClient := infraaws.NewSqsClient(awsConfig, cloud.Endpoint)
	queueName := resource.GetStringOrDefault("app.weather.refresh.queue-name", "weather-refresh")

	// Init Gateways
	apiConfig := api.ConfigFromProperties()
	weatherGateway := api.NewWeatherGateway(apiConfig, appMetrics)
	geocodingGateway := api.NewGeocodingGateway(apiConfig, appMetrics)
	store := cache.NewRedisStore(redisClient)
	taskQueue := queue.NewSQSTaskQueue(sqs.NewSender(sqsClient), queueName)
	queueHealthGateway := queue.NewQueueHealthGateway()

	// Init UseCase
	weatherUseCase := weather.NewWeatherUseCase(weather.Config{
		CurrentTTL:  resource.GetDurationOrDefault("app.weather.cache.current-ttl", weather.DefaultCurrentTTL),
		ForecastTTL: resource.GetDurationOrDefault("app.weather.cache.forecast-ttl", weather.DefaultForecastTTL),
	}, weatherGateway, store, store, appMetrics)
	refreshUseCase := refresh.NewRefreshUseCase(refresh.Config{
		MaxAttempts:   resource.GetIntOrDefault("app.weather.refresh.max-attempts", refresh.DefaultMaxAttempts),
		RetryDelay:    resource.GetDurationOrDefault("app.weather.refresh.retry-delay", refresh.DefaultRetryDelay),
		TrackedWindow: resource.GetDurationOrDefault("app.weather.refresh.tracked-window", refresh.DefaultTrackedWindow),
	}, weatherUseCase, taskQueue, store, appMetrics)
	janitorUseCase := janitor.NewJanitorUseCase(store, appMetrics)
	healthUseCase := health.NewHealthUseCase(cache.NewRedisHealthGateway(redisClient), queueHealthGateway)

	// Init Worker
	var workers sync.WaitGroup
	worker, err := sqs.NewWorker(ctx, sqsClient, queueName, processor.NewRefreshProcessor(refreshUseCase), &sqs.WorkerConfig{
		PoolSize: resource.GetIntOrDefault("app.weather.refresh.worker-pool-size", 5),
		LogLevel: sqs.ParseLogLevel(resource.GetString("app.weather.refresh.worker-log-level")),
	})
	if err != nil {
		log.Error("Refresh worker not started, background refresh is disabled", zap.String("queue", queueName), zap.Error(err))
	} else {
		queueHealthGateway.RegisterWorker("refresh", worker)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Start(ctx)
		}()
	}

	// Init Schedule
	cleanupScheduler := schedule.NewCacheCleanupScheduler(janitorUseCase, redisClient,
		resource.GetStringOrDefault("app.weather.cleanup.cron", "0 * * * *"),
		resource.GetDurationOrDefault("app.weather.cleanup.lock-ttl", 5*time.Minute))
	if err := cleanupScheduler.InitCacheCleanupScheduleTasks(); err != nil {
		log.Fatal("Failed to start cache cleanup scheduler", zap.Error(err))
	}

	refreshScheduler, err := schedule.NewRefreshScheduler(refreshUseCase, redisClient,
		resource.GetDurationOrDefault("app.weather.refresh.interval", 30*time.Minute))
	if err != nil {
		log.Fatal("Failed to create refresh scheduler", zap.Error(err))
	}
	if err := refreshScheduler.Start(); err != nil {
		log.Fatal("Failed to start refresh scheduler", zap.Error(err))
	}

	// Init Controller
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = controller.NewRequestValidator()
	middleware.SetupRequestLogger(e)
	group := e.Group(configs.Env.ContextPath)

	controller.NewHealthController(group, healthUseCase).InitHealthRoutes()
	controller.NewMetricsController(group, appMetrics.Handler()).InitMetricsRoutes()
	controller.NewWeatherController(group, weatherUseCase, refreshUseCase, geocodingGateway).InitWeatherRoutes()
	controller.NewCacheController(group, janitorUseCase).InitCacheRoutes()

	// Start Routes
	go func() {
		if err := e.Start(":" + configs.Env.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info(msg.GetMessage("app.started"), zap.String("port", configs.Env.Port), zap.String("context_path", configs.Env.ContextPath))

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown", zap.Error(err))
	}
	cleanupScheduler.Stop()
	if err := refreshScheduler.Stop(); err != nil {
		log.Warn("Refresh scheduler shutdown", zap.Error(err))
	}
	workers.Wait()
	if err := redisClient.Close(); err != nil {
		log.Warn("Redis client close", zap.Error(err))
	}
}
