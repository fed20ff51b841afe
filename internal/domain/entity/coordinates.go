package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinates is a resolved geographic point. ZipCode is set only when the
// location was resolved from a postal code.
type Coordinates struct {
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
	ZipCode string  `json:"zipCode,omitempty"`
}

// NewCoordinates returns a validated coordinate pair.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	c := Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Validate checks that latitude and longitude are finite and within their ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("coordinates (%v, %v) are not numbers", c.Lat, c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lon)
	}
	return nil
}

// LatString renders the latitude in the fixed format used by cache keys.
func (c Coordinates) LatString() string {
	return FormatDegrees(c.Lat)
}

// LonString renders the longitude in the fixed format used by cache keys.
func (c Coordinates) LonString() string {
	return FormatDegrees(c.Lon)
}

// Key is "{lat}_{lon}".
func (c Coordinates) Key() string {
	return c.LatString() + "_" + c.LonString()
}

func (c Coordinates) String() string {
	return "(" + c.LatString() + ", " + c.LonString() + ")"
}

// FormatDegrees is the shortest decimal that round-trips the value, so the
// same float always produces the same text.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseCoordinatesKey is the inverse of Coordinates.Key.
func ParseCoordinatesKey(key string) (Coordinates, error) {
	latText, lonText, ok := strings.Cut(key, "_")
	if !ok {
		return Coordinates{}, fmt.Errorf("invalid coordinates key %q", key)
	}
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude in key %q: %w", key, err)
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude in key %q: %w", key, err)
	}
	return NewCoordinates(lat, lon)
}
