package api

import (
	"context"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model/external"
	"go-weather/pkg/http"
)

const (
	currentWeatherPath = "/data/2.5/weather"
	forecastPath       = "/data/2.5/forecast"
)

var acceptJSON = map[string]string{"Accept": "application/json"}

// openWeatherGateway implements WeatherGateway against the OpenWeather REST API.
type openWeatherGateway struct {
	httpClient *http.Client
	units      string
	guard      *guard
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewWeatherGateway(cfg Config, recorder CallRecorder) WeatherGateway {
	units := cfg.Units
	if units == "" {
		units = "imperial"
	}

	return &openWeatherGateway{
		httpClient: http.NewHttpClient(cfg.BaseURL, cfg.clientOptions()),
		units:      units,
		guard:      newGuard("openweather", cfg, recorder),
	}
}

// FetchCurrent gets the current conditions at coords
func (w *openWeatherGateway) FetchCurrent(ctx context.Context, coords entity.Coordinates) (*external.CurrentWeatherResponse, error) {
	var response *external.CurrentWeatherResponse

	err := w.guard.do(ctx, "current", func() error {
		successResp, errResp, status, err := w.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath(currentWeatherPath).
			WithQueryParams(w.coordinateParams(coords)).
			WithHeaders(acceptJSON).
			WithSuccessResp(&external.CurrentWeatherResponse{}).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()

		if err != nil {
			return classify(status, errResp, err)
		}
		response = successResp.(*external.CurrentWeatherResponse)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return response, nil
}

// FetchForecast gets the 5 day / 3 hour forecast at coords
func (w *openWeatherGateway) FetchForecast(ctx context.Context, coords entity.Coordinates) (*external.ForecastResponse, error) {
	var response *external.ForecastResponse

	err := w.guard.do(ctx, "forecast", func() error {
		successResp, errResp, status, err := w.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath(forecastPath).
			WithQueryParams(w.coordinateParams(coords)).
			WithHeaders(acceptJSON).
			WithSuccessResp(&external.ForecastResponse{}).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()

		if err != nil {
			return classify(status, errResp, err)
		}
		response = successResp.(*external.ForecastResponse)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return response, nil
}

func (w *openWeatherGateway) coordinateParams(coords entity.Coordinates) map[string]string {
	return map[string]string{
		"lat":   coords.LatString(),
		"lon":   coords.LonString(),
		"units": w.units,
	}
}
