package controller

import (
	"context"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type mockWeatherUseCase struct{ mock.Mock }

func (m *mockWeatherUseCase) GetCurrent(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.CurrentWeather, error) {
	args := m.Called(ctx, coords, forceRefresh)
	current, _ := args.Get(0).(*entity.CurrentWeather)
	return current, args.Error(1)
}

func (m *mockWeatherUseCase) GetForecast(ctx context.Context, coords entity.Coordinates, forceRefresh bool) (*entity.Forecast, error) {
	args := m.Called(ctx, coords, forceRefresh)
	forecast, _ := args.Get(0).(*entity.Forecast)
	return forecast, args.Error(1)
}

type mockRefreshUseCase struct{ mock.Mock }

func (m *mockRefreshUseCase) ScheduleRefresh(ctx context.Context, coords entity.Coordinates, kind entity.RefreshKind) error {
	return m.Called(ctx, coords, kind).Error(0)
}

func (m *mockRefreshUseCase) HandleTask(ctx context.Context, task entity.RefreshTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockRefreshUseCase) RefreshTracked(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Resolve(ctx context.Context, addressOrZip string) (entity.Coordinates, error) {
	args := m.Called(ctx, addressOrZip)
	return args.Get(0).(entity.Coordinates), args.Error(1)
}

type mockJanitor struct{ mock.Mock }

func (m *mockJanitor) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type stubHealth model.HealthResponse

func (s stubHealth) CheckHealth(context.Context) model.HealthResponse { return model.HealthResponse(s) }
