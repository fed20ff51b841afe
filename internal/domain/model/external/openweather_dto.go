package external

// MainDTO holds the thermodynamic block shared by the current and forecast endpoints.
type MainDTO struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

// ConditionDTO is one entry of the "weather" array.
type ConditionDTO struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type WindDTO struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type CloudsDTO struct {
	All float64 `json:"all"`
}

type SysDTO struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// VolumeDTO is the rain or snow block. Its presence marks precipitation.
type VolumeDTO struct {
	OneHour   float64 `json:"1h,omitempty"`
	ThreeHour float64 `json:"3h,omitempty"`
}

// Present reports whether any volume was reported. An empty object counts as absent.
func (v *VolumeDTO) Present() bool {
	return v != nil && (v.OneHour > 0 || v.ThreeHour > 0)
}

// CurrentWeatherResponse represents the response of /data/2.5/weather
type CurrentWeatherResponse struct {
	Name       string         `json:"name"`
	Dt         int64          `json:"dt"`
	Main       MainDTO        `json:"main"`
	Weather    []ConditionDTO `json:"weather"`
	Wind       WindDTO        `json:"wind"`
	Clouds     CloudsDTO      `json:"clouds"`
	Visibility int            `json:"visibility"`
	Sys        SysDTO         `json:"sys"`
	Rain       *VolumeDTO     `json:"rain,omitempty"`
	Snow       *VolumeDTO     `json:"snow,omitempty"`
}

// ForecastItemDTO is one 3-hour interval of /data/2.5/forecast
type ForecastItemDTO struct {
	Dt      int64          `json:"dt"`
	DtTxt   string         `json:"dt_txt"`
	Main    MainDTO        `json:"main"`
	Weather []ConditionDTO `json:"weather"`
	Wind    WindDTO        `json:"wind"`
	Clouds  CloudsDTO      `json:"clouds"`
	Pop     float64        `json:"pop"`
	Rain    *VolumeDTO     `json:"rain,omitempty"`
	Snow    *VolumeDTO     `json:"snow,omitempty"`
}

// ForecastResponse represents the response of /data/2.5/forecast
type ForecastResponse struct {
	Cnt  int               `json:"cnt"`
	List []ForecastItemDTO `json:"list"`
}

// GeoLocationDTO is one match of /geo/1.0/direct
type GeoLocationDTO struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}

// GeoZipResponse represents the response of /geo/1.0/zip
type GeoZipResponse struct {
	Zip     string  `json:"zip"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// APIErrorResponse represents error responses from the OpenWeather API.
// "cod" is a number on some endpoints and a string on others.
type APIErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
