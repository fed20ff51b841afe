package entity

import "time"

// CurrentWeather is a snapshot of current conditions at a coordinate.
type CurrentWeather struct {
	Temperature         float64   `json:"temperature"`
	FeelsLike           float64   `json:"feelsLike"`
	TempMin             float64   `json:"tempMin"`
	TempMax             float64   `json:"tempMax"`
	Humidity            int       `json:"humidity"`
	Description         string    `json:"description"`
	Icon                string    `json:"icon"`
	WindSpeed           float64   `json:"windSpeed"`
	WindDirection       int       `json:"windDirection"`
	Pressure            int       `json:"pressure"`
	Visibility          int       `json:"visibility"`
	Sunrise             time.Time `json:"sunrise"`
	Sunset              time.Time `json:"sunset"`
	Clouds              int       `json:"clouds"`
	PrecipitationChance int       `json:"precipitationChance"`
	FromCache           bool      `json:"fromCache"`
	FetchedAt           time.Time `json:"fetchedAt"`
}
