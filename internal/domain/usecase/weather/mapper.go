package weather

import (
	"time"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model/external"
)

const forecastTimeLayout = "2006-01-02 15:04:05"

// toCurrentWeather reports false when the payload carries no condition entry.
func toCurrentWeather(r *external.CurrentWeatherResponse, fetchedAt time.Time) (*entity.CurrentWeather, bool) {
	if r == nil || len(r.Weather) == 0 {
		return nil, false
	}

	return &entity.CurrentWeather{
		Temperature:   r.Main.Temp,
		FeelsLike:     r.Main.FeelsLike,
		TempMin:       r.Main.TempMin,
		TempMax:       r.Main.TempMax,
		Humidity:      int(r.Main.Humidity),
		Description:   r.Weather[0].Description,
		Icon:          r.Weather[0].Icon,
		WindSpeed:     r.Wind.Speed,
		WindDirection: int(r.Wind.Deg),
		Pressure:      int(r.Main.Pressure),
		Visibility:    r.Visibility,
		Sunrise:       time.Unix(r.Sys.Sunrise, 0).UTC(),
		Sunset:        time.Unix(r.Sys.Sunset, 0).UTC(),
		Clouds:        int(r.Clouds.All),
		FromCache:     false,
		FetchedAt:     fetchedAt,
	}, true
}

// toIntervals reports false when the payload has no intervals.
func toIntervals(r *external.ForecastResponse) ([]entity.ForecastInterval, bool) {
	if r == nil || len(r.List) == 0 {
		return nil, false
	}

	intervals := make([]entity.ForecastInterval, 0, len(r.List))
	for _, item := range r.List {
		interval := entity.ForecastInterval{
			Time:          intervalTime(item),
			TempMin:       item.Main.TempMin,
			TempMax:       item.Main.TempMax,
			Humidity:      item.Main.Humidity,
			WindSpeed:     item.Wind.Speed,
			WindDirection: item.Wind.Deg,
			Pressure:      item.Main.Pressure,
			Clouds:        item.Clouds.All,
			Precipitation: item.Rain.Present() || item.Snow.Present(),
		}
		if len(item.Weather) > 0 {
			interval.Description = item.Weather[0].Description
			interval.Icon = item.Weather[0].Icon
		}
		intervals = append(intervals, interval)
	}
	return intervals, true
}

// intervalTime prefers dt_txt, whose date part is the provider's own grouping.
func intervalTime(item external.ForecastItemDTO) time.Time {
	if item.DtTxt != "" {
		if t, err := time.Parse(forecastTimeLayout, item.DtTxt); err == nil {
			return t
		}
	}
	return time.Unix(item.Dt, 0).UTC()
}
