package weather

import "go-weather/internal/domain/entity"

const (
	CurrentKeyPrefix  = "current_weather_"
	ForecastKeyPrefix = "forecast_"
)

// KeyPatterns are the glob patterns covering every key this package writes.
var KeyPatterns = []string{CurrentKeyPrefix + "*", ForecastKeyPrefix + "*"}

func CurrentKey(c entity.Coordinates) string {
	return CurrentKeyPrefix + c.Key()
}

func ForecastKey(c entity.Coordinates) string {
	return ForecastKeyPrefix + c.Key()
}
