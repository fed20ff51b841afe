package model

import "go-weather/internal/domain/entity"

// CoordinatesQuery is bound from ?lat=&lon=&refresh= on the weather endpoints.
type CoordinatesQuery struct {
	Lat     string `query:"lat" validate:"required,latitude"`
	Lon     string `query:"lon" validate:"required,longitude"`
	Refresh bool   `query:"refresh"`
}

// AddressQuery is bound from ?address= and accepts a free-form address or a 5-digit zip.
type AddressQuery struct {
	Address string `query:"address" validate:"max=256"`
}

type RefreshRequestDTO struct {
	Lat  *float64 `json:"lat" validate:"required,latitude"`
	Lon  *float64 `json:"lon" validate:"required,longitude"`
	Kind string   `json:"kind" validate:"omitempty,oneof=current forecast both"`
}

// WeatherReportDTO combines current conditions and forecast for a resolved address.
type WeatherReportDTO struct {
	Location entity.Coordinates     `json:"location"`
	Current  *entity.CurrentWeather `json:"current"`
	Forecast *entity.Forecast       `json:"forecast"`
}

type ErrorResponseDTO struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
