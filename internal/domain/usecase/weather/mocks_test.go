package weather

import (
	"context"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model/external"

	"github.com/stretchr/testify/mock"
)

type mockWeatherGateway struct {
	mock.Mock
}

func (m *mockWeatherGateway) FetchCurrent(ctx context.Context, coords entity.Coordinates) (*external.CurrentWeatherResponse, error) {
	args := m.Called(ctx, coords)
	response, _ := args.Get(0).(*external.CurrentWeatherResponse)
	return response, args.Error(1)
}

func (m *mockWeatherGateway) FetchForecast(ctx context.Context, coords entity.Coordinates) (*external.ForecastResponse, error) {
	args := m.Called(ctx, coords)
	response, _ := args.Get(0).(*external.ForecastResponse)
	return response, args.Error(1)
}
