package weather

import (
	"math"
	"math/rand/v2"
	"sort"

	"go-weather/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// AggregateForecast folds 3-hour intervals into one summary per calendar
// date, ordered by ascending date. Description and icon come from one
// randomly chosen interval of the day.
func AggregateForecast(intervals []entity.ForecastInterval) []entity.DailyForecast {
	groups := make(map[string][]entity.ForecastInterval)
	for _, interval := range intervals {
		date := interval.Time.Format(dateLayout)
		groups[date] = append(groups[date], interval)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]entity.DailyForecast, 0, len(dates))
	for _, date := range dates {
		days = append(days, summarizeDay(date, groups[date]))
	}
	return days
}

func summarizeDay(date string, entries []entity.ForecastInterval) entity.DailyForecast {
	n := float64(len(entries))
	high := math.Inf(-1)
	low := math.Inf(1)
	var humidity, windSpeed, windDirection, pressure, clouds float64
	precipitating := 0

	for _, e := range entries {
		high = math.Max(high, e.TempMax)
		low = math.Min(low, e.TempMin)
		humidity += e.Humidity
		windSpeed += e.WindSpeed
		windDirection += e.WindDirection
		pressure += e.Pressure
		clouds += e.Clouds
		if e.Precipitation {
			precipitating++
		}
	}

	sample := entries[rand.IntN(len(entries))]

	return entity.DailyForecast{
		Date:                date,
		High:                high,
		Low:                 low,
		Description:         sample.Description,
		Icon:                sample.Icon,
		Humidity:            int(humidity / n),
		WindSpeed:           windSpeed / n,
		WindDirection:       int(windDirection / n),
		Pressure:            int(pressure / n),
		PrecipitationChance: int(math.Round(float64(precipitating) * 100 / n)),
		Clouds:              int(clouds / n),
	}
}
