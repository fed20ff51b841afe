package api

import (
	"time"

	"go-weather/pkg/http"
	"go-weather/pkg/resource"
)

// Config holds the provider endpoints, credentials and client-side limits.
type Config struct {
	BaseURL            string
	GeoBaseURL         string
	APIKey             string
	Units              string
	Timeout            time.Duration
	RateLimitRPS       float64
	RateLimitBurst     int
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
}

// ConfigFromProperties reads app.weather.api.* from the loaded properties.
func ConfigFromProperties() Config {
	return Config{
		BaseURL:            resource.GetStringOrDefault("app.weather.api.base-url", "https://api.openweathermap.org"),
		GeoBaseURL:         resource.GetStringOrDefault("app.weather.api.geo-base-url", "https://api.openweathermap.org"),
		APIKey:             resource.GetString("app.weather.api.api-key"),
		Units:              resource.GetStringOrDefault("app.weather.api.units", "imperial"),
		Timeout:            resource.GetDurationOrDefault("app.weather.api.timeout", 10*time.Second),
		RateLimitRPS:       resource.GetFloat64OrDefault("app.weather.api.rate-limit-rps", 10),
		RateLimitBurst:     resource.GetIntOrDefault("app.weather.api.rate-limit-burst", 20),
		BreakerFailures:    uint32(resource.GetIntOrDefault("app.weather.api.breaker-failures", 5)),
		BreakerOpenTimeout: resource.GetDurationOrDefault("app.weather.api.breaker-open-timeout", 30*time.Second),
	}
}

func (c Config) clientOptions() http.ClientOptions {
	return http.ClientOptions{
		DefaultQueryParams: map[string]string{"appid": c.APIKey},
		ReadTimeout:        c.Timeout,
		ConnectionTimeout:  c.Timeout,
	}
}
