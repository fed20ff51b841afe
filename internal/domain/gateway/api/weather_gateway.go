package api

import (
	"context"
	"time"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model/external"
)

// WeatherGateway is the upstream weather provider. Every failure it returns
// is an *apierror.Error.
type WeatherGateway interface {
	// FetchCurrent returns the current conditions at coords.
	FetchCurrent(ctx context.Context, coords entity.Coordinates) (*external.CurrentWeatherResponse, error)

	// FetchForecast returns the 3-hour interval forecast at coords.
	FetchForecast(ctx context.Context, coords entity.Coordinates) (*external.ForecastResponse, error)
}

// GeocodingGateway turns a free-form address or a 5-digit zip code into coordinates.
// Failures are address errors.
type GeocodingGateway interface {
	Resolve(ctx context.Context, addressOrZip string) (entity.Coordinates, error)
}

// CallRecorder receives one observation per upstream call.
type CallRecorder interface {
	ObserveProviderCall(endpoint, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProviderCall(string, string, time.Duration) {}
