package weather

import (
	"context"

	"go-weather/internal/domain/entity"
)

// UseCase serves weather for a coordinate from the cache when possible.
// A (nil, nil) result means the provider answered but no usable data could
// be built from it.
type UseCase interface {
	// GetCurrent returns current conditions, bypassing the cache when forceRefresh is set.
	GetCurrent(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.CurrentWeather, error)

	// GetForecast returns the daily forecast, bypassing the cache when forceRefresh is set.
	GetForecast(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.Forecast, error)
}
