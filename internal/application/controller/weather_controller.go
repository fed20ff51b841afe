package controller

import (
	"net/http"
	"strconv"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/api"
	"go-weather/internal/domain/model"
	"go-weather/internal/domain/usecase/refresh"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WeatherController struct {
	api            *echo.Group
	useCase        weather.UseCase
	refreshUseCase refresh.UseCase
	resolver       api.GeocodingGateway
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase, refreshUseCase refresh.UseCase, resolver api.GeocodingGateway) *WeatherController {
	return &WeatherController{api: api, useCase: useCase, refreshUseCase: refreshUseCase, resolver: resolver}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather", controller.GetByAddress)
	controller.api.GET("/weather/current", controller.GetCurrent)
	controller.api.GET("/weather/forecast", controller.GetForecast)
	controller.api.POST("/weather/refresh", controller.ScheduleRefresh)
}

// GetCurrent godoc
// @Summary Get current weather
// @Description Current conditions for a coordinate, served from cache unless refresh is set
// @Tags weather
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} entity.CurrentWeather
// @Failure 400 {object} model.ErrorResponseDTO
// @Failure 404 {object} model.ErrorResponseDTO "No data available"
// @Failure 429 {object} model.ErrorResponseDTO
// @Failure 503 {object} model.ErrorResponseDTO
// @Router /weather/current [get]
func (controller *WeatherController) GetCurrent(c echo.Context) error {
	coords, refreshRequested, err := bindCoordinates(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	current, err := controller.useCase.GetCurrent(c.Request().Context(), coords, refreshRequested)
	if err != nil {
		return writeError(c, err)
	}
	if current == nil {
		return writeNoData(c)
	}
	return c.JSON(http.StatusOK, current)
}

// GetForecast godoc
// @Summary Get daily forecast
// @Description Daily forecast aggregated from 3-hour intervals, served from cache unless refresh is set
// @Tags weather
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} entity.Forecast
// @Failure 400 {object} model.ErrorResponseDTO
// @Failure 404 {object} model.ErrorResponseDTO "No data available"
// @Router /weather/forecast [get]
func (controller *WeatherController) GetForecast(c echo.Context) error {
	coords, refreshRequested, err := bindCoordinates(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	forecast, err := controller.useCase.GetForecast(c.Request().Context(), coords, refreshRequested)
	if err != nil {
		return writeError(c, err)
	}
	if forecast == nil {
		return writeNoData(c)
	}
	return c.JSON(http.StatusOK, forecast)
}

// GetByAddress godoc
// @Summary Get weather for an address
// @Description Resolves an address or 5-digit zip code, returns current weather and forecast,
// @Description and schedules a background refresh of both
// @Tags weather
// @Produce json
// @Param address query string true "Address or zip code"
// @Success 200 {object} model.WeatherReportDTO
// @Failure 400 {object} model.ErrorResponseDTO "Address could not be resolved"
// @Failure 404 {object} model.ErrorResponseDTO "No data available"
// @Router /weather [get]
func (controller *WeatherController) GetByAddress(c echo.Context) error {
	var query model.AddressQuery
	if err := c.Bind(&query); err != nil {
		return writeValidationError(c, err)
	}
	if err := c.Validate(&query); err != nil {
		return writeValidationError(c, err)
	}

	ctx := c.Request().Context()
	coords, err := controller.resolver.Resolve(ctx, query.Address)
	if err != nil {
		return writeError(c, err)
	}

	current, err := controller.useCase.GetCurrent(ctx, coords, false)
	if err != nil {
		return writeError(c, err)
	}
	forecast, err := controller.useCase.GetForecast(ctx, coords, false)
	if err != nil {
		return writeError(c, err)
	}
	if current == nil || forecast == nil {
		return writeNoData(c)
	}

	if err := controller.refreshUseCase.ScheduleRefresh(ctx, coords, entity.RefreshBoth); err != nil {
		log.Warn("Failed to schedule background refresh", zap.String("location", coords.Key()), zap.Error(err))
	}

	return c.JSON(http.StatusOK, model.WeatherReportDTO{Location: coords, Current: current, Forecast: forecast})
}

// ScheduleRefresh godoc
// @Summary Schedule a background refresh
// @Description Enqueues a forced refresh of current weather, forecast or both
// @Tags weather
// @Accept json
// @Produce json
// @Param request body model.RefreshRequestDTO true "Coordinates and kind"
// @Success 202 {object} map[string]string
// @Failure 400 {object} model.ErrorResponseDTO
// @Failure 503 {object} model.ErrorResponseDTO "Queue unavailable"
// @Router /weather/refresh [post]
func (controller *WeatherController) ScheduleRefresh(c echo.Context) error {
	var dto model.RefreshRequestDTO
	if err := c.Bind(&dto); err != nil {
		return writeValidationError(c, err)
	}
	if err := c.Validate(&dto); err != nil {
		return writeValidationError(c, err)
	}

	kind, err := entity.ParseRefreshKind(dto.Kind)
	if err != nil {
		return writeValidationError(c, err)
	}
	coords, err := entity.NewCoordinates(*dto.Lat, *dto.Lon)
	if err != nil {
		return writeValidationError(c, err)
	}

	if err := controller.refreshUseCase.ScheduleRefresh(c.Request().Context(), coords, kind); err != nil {
		log.Error("Failed to enqueue refresh", zap.String("location", coords.Key()), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, model.ErrorResponseDTO{
			Error:   apierror.KindUnavailable.String(),
			Message: "refresh queue unavailable",
		})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Refresh scheduled", "kind": string(kind)})
}

func bindCoordinates(c echo.Context) (entity.Coordinates, bool, error) {
	var query model.CoordinatesQuery
	if err := c.Bind(&query); err != nil {
		return entity.Coordinates{}, false, err
	}
	if err := c.Validate(&query); err != nil {
		return entity.Coordinates{}, false, err
	}

	lat, err := strconv.ParseFloat(query.Lat, 64)
	if err != nil {
		return entity.Coordinates{}, false, err
	}
	lon, err := strconv.ParseFloat(query.Lon, 64)
	if err != nil {
		return entity.Coordinates{}, false, err
	}

	coords, err := entity.NewCoordinates(lat, lon)
	return coords, query.Refresh, err
}
