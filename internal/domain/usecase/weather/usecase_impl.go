package weather

import (
	"context"
	"encoding/json"
	"time"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/gateway/cache"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"

	"go.uber.org/zap"
)

const (
	namespaceCurrent  = "current"
	namespaceForecast = "forecast"

	DefaultCurrentTTL  = 30 * time.Minute
	DefaultForecastTTL = time.Hour
)

// CacheRecorder receives one observation per cache lookup: hit, miss or error.
type CacheRecorder interface {
	ObserveCacheLookup(namespace, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCacheLookup(string, string) {}

// Config tunes the cache service. Zero values fall back to the defaults.
type Config struct {
	CurrentTTL  time.Duration
	ForecastTTL time.Duration
	Clock       func() time.Time
}

type weatherUseCase struct {
	currentTTL  time.Duration
	forecastTTL time.Duration
	now         func() time.Time
	apiGateway  api.WeatherGateway
	store       cache.Store
	tracker     cache.LocationTracker
	recorder    CacheRecorder
}

// NewWeatherUseCase wires the cache service. tracker and recorder may be nil.
func NewWeatherUseCase(cfg Config, apiGateway api.WeatherGateway, store cache.Store, tracker cache.LocationTracker, recorder CacheRecorder) UseCase {
	if cfg.CurrentTTL <= 0 {
		cfg.CurrentTTL = DefaultCurrentTTL
	}
	if cfg.ForecastTTL <= 0 {
		cfg.ForecastTTL = DefaultForecastTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &weatherUseCase{
		currentTTL:  cfg.CurrentTTL,
		forecastTTL: cfg.ForecastTTL,
		now:         cfg.Clock,
		apiGateway:  apiGateway,
		store:       store,
		tracker:     tracker,
		recorder:    recorder,
	}
}

// GetCurrent returns current conditions at coords
func (uc *weatherUseCase) GetCurrent(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.CurrentWeather, error) {
	if err := coords.Validate(); err != nil {
		return nil, apierror.NewInvalidRequestError(err.Error(), 0)
	}
	key := CurrentKey(coords)
	uc.track(ctx, coords)

	if !forceRefresh {
		var cached entity.CurrentWeather
		if uc.readCache(ctx, namespaceCurrent, key, coords, &cached) {
			cached.FromCache = true
			return &cached, nil
		}
	}

	log.Info(msg.GetMessage("weather.api.request", "current weather", coords.LatString(), coords.LonString()))
	response, err := uc.apiGateway.FetchCurrent(ctx, coords)
	if err != nil {
		log.Warn(msg.GetMessage("weather.api.error", "current weather", coords.LatString(), coords.LonString()), zap.Error(err))
		if !isProviderError(err) {
			return nil, nil
		}
		return nil, err
	}

	current, ok := toCurrentWeather(response, uc.now())
	if !ok {
		log.Warn(msg.GetMessage("weather.api.no-data", "current weather", coords.LatString(), coords.LonString()))
		return nil, nil
	}

	uc.writeCache(ctx, key, coords, current, uc.currentTTL, "current weather")
	return current, nil
}

// GetForecast returns the daily forecast at coords
func (uc *weatherUseCase) GetForecast(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.Forecast, error) {
	if err := coords.Validate(); err != nil {
		return nil, apierror.NewInvalidRequestError(err.Error(), 0)
	}
	key := ForecastKey(coords)
	uc.track(ctx, coords)

	if !forceRefresh {
		var cached entity.Forecast
		if uc.readCache(ctx, namespaceForecast, key, coords, &cached) {
			cached.FromCache = true
			return &cached, nil
		}
	}

	log.Info(msg.GetMessage("weather.api.request", "forecast", coords.LatString(), coords.LonString()))
	response, err := uc.apiGateway.FetchForecast(ctx, coords)
	if err != nil {
		log.Warn(msg.GetMessage("weather.api.error", "forecast", coords.LatString(), coords.LonString()), zap.Error(err))
		if !isProviderError(err) {
			return nil, nil
		}
		return nil, err
	}

	intervals, ok := toIntervals(response)
	if !ok {
		log.Warn(msg.GetMessage("weather.api.no-data", "forecast", coords.LatString(), coords.LonString()))
		return nil, nil
	}

	forecast := &entity.Forecast{
		DailyForecast: AggregateForecast(intervals),
		FromCache:     false,
		FetchedAt:     uc.now(),
	}

	uc.writeCache(ctx, key, coords, forecast, uc.forecastTTL, "forecast")
	return forecast, nil
}

// readCache decodes the entry at key into dest. Any store or decode failure is a miss.
func (uc *weatherUseCase) readCache(ctx context.Context, namespace, key string, coords entity.Coordinates, dest any) bool {
	log.Debug(msg.GetMessage("weather.cache.lookup", namespace, key))

	raw, found, err := uc.store.Read(ctx, key)
	if err != nil {
		log.Warn(msg.GetMessage("weather.cache.read-failed", key), zap.Error(err))
		uc.recorder.ObserveCacheLookup(namespace, "error")
		return false
	}
	if !found {
		log.Info(msg.GetMessage("weather.cache.miss", namespace, coords.LatString(), coords.LonString()))
		uc.recorder.ObserveCacheLookup(namespace, "miss")
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn(msg.GetMessage("weather.cache.read-failed", key), zap.Error(err))
		uc.recorder.ObserveCacheLookup(namespace, "error")
		return false
	}

	log.Info(msg.GetMessage("weather.cache.hit", namespace, coords.LatString(), coords.LonString()))
	uc.recorder.ObserveCacheLookup(namespace, "hit")
	return true
}

// writeCache stores value under key. Failures are logged; the fresh value is still returned to the caller.
func (uc *weatherUseCase) writeCache(ctx context.Context, key string, coords entity.Coordinates, value any, ttl time.Duration, label string) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error(msg.GetMessage("weather.cache.write-failed", key), zap.Error(err))
		return
	}
	if err := uc.store.Write(ctx, key, raw, ttl); err != nil {
		log.Warn(msg.GetMessage("weather.cache.write-failed", key), zap.Error(err))
		return
	}
	log.Info(msg.GetMessage("weather.cache.stored", label, coords.LatString(), coords.LonString()))
}

// isProviderError reports whether err belongs to the provider error taxonomy.
// Anything else, such as an undecodable body, means no data is available.
func isProviderError(err error) bool {
	_, ok := apierror.KindOf(err)
	return ok
}

type skipTrackingKey struct{}

// WithoutTracking marks ctx so lookups made with it do not count as requests
// for the tracked-locations set. Background refreshes use it, otherwise a
// tracked location would keep itself alive forever.
func WithoutTracking(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipTrackingKey{}, true)
}

func (uc *weatherUseCase) track(ctx context.Context, coords entity.Coordinates) {
	if uc.tracker == nil {
		return
	}
	if skip, _ := ctx.Value(skipTrackingKey{}).(bool); skip {
		return
	}
	if err := uc.tracker.Track(ctx, coords, uc.now()); err != nil {
		log.Warn("Failed to track location for refresh", zap.String("location", coords.Key()), zap.Error(err))
	}
}
