package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentBody = `{
  "name": "New York",
  "main": {"temp": 72.5, "feels_like": 71.2, "temp_min": 70.1, "temp_max": 75.3, "pressure": 1015, "humidity": 65},
  "weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
  "wind": {"speed": 5.5, "deg": 180},
  "clouds": {"all": 0},
  "visibility": 10000,
  "sys": {"sunrise": 1700000000, "sunset": 1700040000}
}`

var newYork = entity.Coordinates{Lat: 40.7128, Lon: -74.0060}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:            baseURL,
		GeoBaseURL:         baseURL,
		APIKey:             "test-key",
		Units:              "imperial",
		Timeout:            time.Second,
		RateLimitRPS:       1000,
		RateLimitBurst:     100,
		BreakerFailures:    3,
		BreakerOpenTimeout: time.Minute,
	}
}

func TestWeatherGateway_FetchCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, currentWeatherPath, r.URL.Path)
		assert.Equal(t, "40.7128", r.URL.Query().Get("lat"))
		assert.Equal(t, "-74.006", r.URL.Query().Get("lon"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	}))
	defer server.Close()

	gateway := NewWeatherGateway(testConfig(server.URL), nil)
	response, err := gateway.FetchCurrent(context.Background(), newYork)

	require.NoError(t, err)
	assert.Equal(t, 72.5, response.Main.Temp)
	require.Len(t, response.Weather, 1)
	assert.Equal(t, "clear sky", response.Weather[0].Description)
	assert.Equal(t, int64(1700000000), response.Sys.Sunrise)
}

func TestWeatherGateway_FetchForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, forecastPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cnt":1,"list":[{"dt":1700000000,"dt_txt":"2023-11-14 21:00:00",
			"main":{"temp_min":57,"temp_max":75,"humidity":60,"pressure":1012},
			"weather":[{"description":"light rain","icon":"10n"}],
			"wind":{"speed":4,"deg":90},"clouds":{"all":40},"rain":{"3h":0.4}}]}`))
	}))
	defer server.Close()

	gateway := NewWeatherGateway(testConfig(server.URL), nil)
	response, err := gateway.FetchForecast(context.Background(), newYork)

	require.NoError(t, err)
	require.Len(t, response.List, 1)
	assert.Equal(t, "2023-11-14 21:00:00", response.List[0].DtTxt)
	require.NotNil(t, response.List[0].Rain)
	assert.Nil(t, response.List[0].Snow)
}

func TestWeatherGateway_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    *apierror.Error
		message string
	}{
		{name: "unauthorized", status: 401, body: `{"cod":401,"message":"Invalid API key"}`, want: apierror.ErrAuthentication, message: "Invalid API key"},
		{name: "forbidden", status: 403, body: `{}`, want: apierror.ErrAuthentication},
		{name: "not found", status: 404, body: `{"cod":"404","message":"city not found"}`, want: apierror.ErrInvalidRequest, message: "city not found"},
		{name: "bad request", status: 400, body: `{"cod":"400","message":"wrong latitude"}`, want: apierror.ErrInvalidRequest},
		{name: "rate limited", status: 429, body: `{"cod":429}`, want: apierror.ErrRateLimit},
		{name: "server error", status: 502, body: `bad gateway`, want: apierror.ErrUnavailable},
		{name: "teapot", status: 418, body: `{}`, want: apierror.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gateway := NewWeatherGateway(testConfig(server.URL), nil)
			_, err := gateway.FetchCurrent(context.Background(), newYork)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var apiErr *apierror.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.message != "" {
				assert.Contains(t, apiErr.Message, tt.message)
			}
		})
	}
}

func TestWeatherGateway_ConnectionRefusedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	gateway := NewWeatherGateway(testConfig(baseURL), nil)
	_, err := gateway.FetchForecast(context.Background(), newYork)

	assert.ErrorIs(t, err, apierror.ErrUnavailable)
}

func TestWeatherGateway_TimeoutIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	gateway := NewWeatherGateway(cfg, nil)
	_, err := gateway.FetchCurrent(context.Background(), newYork)

	assert.ErrorIs(t, err, apierror.ErrUnavailable)
}

func TestWeatherGateway_TimeoutWhileReadingBodyIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name": "New York", "main": {"temp": 7`))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 100 * time.Millisecond
	gateway := NewWeatherGateway(cfg, nil)

	_, err := gateway.FetchCurrent(context.Background(), newYork)
	assert.ErrorIs(t, err, apierror.ErrUnavailable)

	_, err = gateway.FetchForecast(context.Background(), newYork)
	assert.ErrorIs(t, err, apierror.ErrUnavailable)
}

func TestWeatherGateway_BreakerOpensOnlyOnUnavailable(t *testing.T) {
	var calls atomic.Int32
	var status atomic.Int32
	status.Store(http.StatusUnauthorized)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	gateway := NewWeatherGateway(testConfig(server.URL), nil)

	for i := 0; i < 5; i++ {
		_, err := gateway.FetchCurrent(context.Background(), newYork)
		assert.ErrorIs(t, err, apierror.ErrAuthentication)
	}
	assert.Equal(t, int32(5), calls.Load())

	status.Store(http.StatusServiceUnavailable)
	for i := 0; i < 3; i++ {
		_, err := gateway.FetchCurrent(context.Background(), newYork)
		assert.ErrorIs(t, err, apierror.ErrUnavailable)
	}
	assert.Equal(t, int32(8), calls.Load())

	_, err := gateway.FetchCurrent(context.Background(), newYork)
	assert.ErrorIs(t, err, apierror.ErrUnavailable)
	assert.Equal(t, int32(8), calls.Load(), "open breaker must not reach the provider")
}

func TestWeatherGateway_CancelledRateLimitWaitIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentBody))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	gateway := NewWeatherGateway(cfg, nil)

	_, err := gateway.FetchCurrent(context.Background(), newYork)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gateway.FetchCurrent(ctx, newYork)
	assert.ErrorIs(t, err, apierror.ErrUnavailable)
}

type recordedCall struct {
	endpoint string
	outcome  string
}

type fakeRecorder struct {
	calls []recordedCall
}

func (f *fakeRecorder) ObserveProviderCall(endpoint, outcome string, _ time.Duration) {
	f.calls = append(f.calls, recordedCall{endpoint: endpoint, outcome: outcome})
}

func TestWeatherGateway_RecordsCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == forecastPath {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(currentBody))
	}))
	defer server.Close()

	recorder := &fakeRecorder{}
	gateway := NewWeatherGateway(testConfig(server.URL), recorder)
	_, _ = gateway.FetchCurrent(context.Background(), newYork)
	_, _ = gateway.FetchForecast(context.Background(), newYork)

	assert.Equal(t, []recordedCall{
		{endpoint: "current", outcome: "ok"},
		{endpoint: "forecast", outcome: "RATE_LIMIT_ERROR"},
	}, recorder.calls)
}
