package entity

import "time"

// ForecastInterval is one 3-hour record of the upstream forecast feed.
type ForecastInterval struct {
	Time          time.Time
	TempMin       float64
	TempMax       float64
	Humidity      float64
	Description   string
	Icon          string
	WindSpeed     float64
	WindDirection float64
	Pressure      float64
	Clouds        float64
	Precipitation bool
}

// DailyForecast summarises every interval that falls on one calendar date.
type DailyForecast struct {
	Date                string  `json:"date"`
	High                float64 `json:"high"`
	Low                 float64 `json:"low"`
	Description         string  `json:"description"`
	Icon                string  `json:"icon"`
	Humidity            int     `json:"humidity"`
	WindSpeed           float64 `json:"windSpeed"`
	WindDirection       int     `json:"windDirection"`
	Pressure            int     `json:"pressure"`
	PrecipitationChance int     `json:"precipitationChance"`
	Clouds              int     `json:"clouds"`
}

// Forecast holds the daily summaries ordered by ascending date.
type Forecast struct {
	DailyForecast []DailyForecast `json:"dailyForecast"`
	FromCache     bool            `json:"fromCache"`
	FetchedAt     time.Time       `json:"fetchedAt"`
}
