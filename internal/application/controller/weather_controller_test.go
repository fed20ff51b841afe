package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var newYork = entity.Coordinates{Lat: 40.7128, Lon: -74.006}

type weatherFixture struct {
	echo     *echo.Echo
	weather  *mockWeatherUseCase
	refresh  *mockRefreshUseCase
	resolver *mockResolver
}

func setupWeather() *weatherFixture {
	e := echo.New()
	e.Validator = NewRequestValidator()
	f := &weatherFixture{
		echo:     e,
		weather:  &mockWeatherUseCase{},
		refresh:  &mockRefreshUseCase{},
		resolver: &mockResolver{},
	}
	NewWeatherController(e.Group("/go-weather"), f.weather, f.refresh, f.resolver).InitWeatherRoutes()
	return f
}

func (f *weatherFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponseDTO {
	t.Helper()
	var body model.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetCurrent(t *testing.T) {
	f := setupWeather()
	f.weather.On("GetCurrent", mock.Anything, newYork, true).
		Return(&entity.CurrentWeather{Temperature: 72.5, Description: "clear sky", FetchedAt: time.Now()}, nil)

	rec := f.do(http.MethodGet, "/go-weather/weather/current?lat=40.7128&lon=-74.006&refresh=true", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body entity.CurrentWeather
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 72.5, body.Temperature)
	f.weather.AssertExpectations(t)
}

func TestGetCurrent_Validation(t *testing.T) {
	f := setupWeather()

	for _, target := range []string{
		"/go-weather/weather/current",
		"/go-weather/weather/current?lat=91&lon=0",
		"/go-weather/weather/current?lat=10&lon=abc",
		"/go-weather/weather/current?lat=10&lon=10&refresh=maybe",
	} {
		rec := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, errorInvalidRequest, decodeError(t, rec).Error, target)
	}
	f.weather.AssertNotCalled(t, "GetCurrent", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCurrent_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{apierror.NewAuthenticationError("API Authentication Error: Invalid API key", 401), http.StatusBadGateway, "AUTHENTICATION_ERROR"},
		{apierror.NewInvalidRequestError("API Invalid Request: city not found", 404), http.StatusBadRequest, "INVALID_REQUEST_ERROR"},
		{apierror.NewRateLimitError("API Rate Limit Exceeded: slow down", 429), http.StatusTooManyRequests, "RATE_LIMIT_ERROR"},
		{apierror.NewUnavailableError("Service Unavailable", 503, nil), http.StatusServiceUnavailable, "API_UNAVAILABLE_ERROR"},
		{apierror.NewAPIError("API Error: 418 - teapot", 418), http.StatusBadGateway, "API_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, errorInternal},
	}

	for _, tc := range cases {
		f := setupWeather()
		f.weather.On("GetCurrent", mock.Anything, newYork, false).Return(nil, tc.err)

		rec := f.do(http.MethodGet, "/go-weather/weather/current?lat=40.7128&lon=-74.006", "")

		assert.Equal(t, tc.status, rec.Code, tc.kind)
		body := decodeError(t, rec)
		assert.Equal(t, tc.kind, body.Error)
		assert.NotContains(t, body.Message, "boom")
	}
}

func TestGetForecast_NoData(t *testing.T) {
	f := setupWeather()
	f.weather.On("GetForecast", mock.Anything, newYork, false).Return(nil, nil)

	rec := f.do(http.MethodGet, "/go-weather/weather/forecast?lat=40.7128&lon=-74.006", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no data available", decodeError(t, rec).Message)
}

func TestGetByAddress(t *testing.T) {
	f := setupWeather()
	coords := entity.Coordinates{Lat: 40.7128, Lon: -74.006, ZipCode: "10001"}
	f.resolver.On("Resolve", mock.Anything, "10001").Return(coords, nil)
	f.weather.On("GetCurrent", mock.Anything, coords, false).Return(&entity.CurrentWeather{Temperature: 72.5}, nil)
	f.weather.On("GetForecast", mock.Anything, coords, false).
		Return(&entity.Forecast{DailyForecast: []entity.DailyForecast{{Date: "2024-05-01", High: 75, Low: 57}}}, nil)
	f.refresh.On("ScheduleRefresh", mock.Anything, coords, entity.RefreshBoth).Return(nil)

	rec := f.do(http.MethodGet, "/go-weather/weather?address=10001", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.WeatherReportDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10001", body.Location.ZipCode)
	assert.Equal(t, 72.5, body.Current.Temperature)
	assert.Len(t, body.Forecast.DailyForecast, 1)
	f.refresh.AssertExpectations(t)
}

func TestGetByAddress_NoRefreshWithoutData(t *testing.T) {
	f := setupWeather()
	f.resolver.On("Resolve", mock.Anything, "Nowhere").Return(newYork, nil)
	f.weather.On("GetCurrent", mock.Anything, newYork, false).Return(nil, nil)
	f.weather.On("GetForecast", mock.Anything, newYork, false).Return(&entity.Forecast{}, nil)

	rec := f.do(http.MethodGet, "/go-weather/weather?address=Nowhere", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.refresh.AssertNotCalled(t, "ScheduleRefresh", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByAddress_AddressError(t *testing.T) {
	f := setupWeather()
	f.resolver.On("Resolve", mock.Anything, "").Return(entity.Coordinates{}, apierror.NewAddressError("Address cannot be blank"))

	rec := f.do(http.MethodGet, "/go-weather/weather", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ADDRESS_ERROR", body.Error)
	assert.Equal(t, "Address cannot be blank", body.Message)
}

func TestScheduleRefresh(t *testing.T) {
	f := setupWeather()
	f.refresh.On("ScheduleRefresh", mock.Anything, newYork, entity.RefreshForecast).Return(nil)

	rec := f.do(http.MethodPost, "/go-weather/weather/refresh", `{"lat": 40.7128, "lon": -74.006, "kind": "forecast"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"message": "Refresh scheduled", "kind": "forecast"}`, rec.Body.String())
	f.refresh.AssertExpectations(t)
}

func TestScheduleRefresh_Validation(t *testing.T) {
	f := setupWeather()

	for _, body := range []string{
		`{"lon": -74.006}`,
		`{"lat": 100, "lon": 0}`,
		`{"lat": 0, "lon": 0, "kind": "hourly"}`,
		`not json`,
	} {
		rec := f.do(http.MethodPost, "/go-weather/weather/refresh", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	f.refresh.AssertNotCalled(t, "ScheduleRefresh", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleRefresh_QueueDown(t *testing.T) {
	f := setupWeather()
	f.refresh.On("ScheduleRefresh", mock.Anything, newYork, entity.RefreshBoth).Return(errors.New("no queue"))

	rec := f.do(http.MethodPost, "/go-weather/weather/refresh", `{"lat": 40.7128, "lon": -74.006}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "API_UNAVAILABLE_ERROR", decodeError(t, rec).Error)
}
