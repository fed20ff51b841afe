package api

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-weather/internal/domain/apierror"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model/external"
	"go-weather/pkg/http"
)

var zipCodePattern = regexp.MustCompile(`^\d{5}$`)

// geocodingGateway implements GeocodingGateway with the OpenWeather geocoding API.
type geocodingGateway struct {
	httpClient *http.Client
	guard      *guard
}

// NewGeocodingGateway creates the location resolver.
func NewGeocodingGateway(cfg Config, recorder CallRecorder) GeocodingGateway {
	return &geocodingGateway{
		httpClient: http.NewHttpClient(cfg.GeoBaseURL, cfg.clientOptions()),
		guard:      newGuard("openweather-geo", cfg, recorder),
	}
}

// Resolve treats a 5-digit input as a US zip code and anything else as a place name.
func (g *geocodingGateway) Resolve(ctx context.Context, addressOrZip string) (entity.Coordinates, error) {
	query := strings.TrimSpace(addressOrZip)
	if query == "" {
		return entity.Coordinates{}, apierror.NewAddressError("Address cannot be blank")
	}

	var (
		coords entity.Coordinates
		err    error
	)
	if zipCodePattern.MatchString(query) {
		coords, err = g.resolveZip(ctx, query)
	} else {
		coords, err = g.resolveDirect(ctx, query)
	}
	if err != nil {
		return entity.Coordinates{}, err
	}

	if validateErr := coords.Validate(); validateErr != nil {
		return entity.Coordinates{}, apierror.Wrap(apierror.KindAddress, "Geocoding returned invalid coordinates", validateErr)
	}
	return coords, nil
}

func (g *geocodingGateway) resolveZip(ctx context.Context, zip string) (entity.Coordinates, error) {
	var coords entity.Coordinates

	err := g.guard.do(ctx, "geocode_zip", func() error {
		successResp, errResp, status, err := g.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath("/geo/1.0/zip").
			WithQueryParams(map[string]string{"zip": zip + ",US"}).
			WithHeaders(acceptJSON).
			WithSuccessResp(&external.GeoZipResponse{}).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()

		if err != nil {
			return addressError(zip, status, errResp, err)
		}
		response := successResp.(*external.GeoZipResponse)
		coords = entity.Coordinates{Lat: response.Lat, Lon: response.Lon, ZipCode: zip}
		return nil
	})
	return coords, err
}

func (g *geocodingGateway) resolveDirect(ctx context.Context, address string) (entity.Coordinates, error) {
	var coords entity.Coordinates

	err := g.guard.do(ctx, "geocode_direct", func() error {
		successResp, errResp, status, err := g.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath("/geo/1.0/direct").
			WithQueryParams(map[string]string{"q": address, "limit": "1"}).
			WithHeaders(acceptJSON).
			WithSuccessResp(&[]external.GeoLocationDTO{}).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()

		if err != nil {
			return addressError(address, status, errResp, err)
		}
		matches := *successResp.(*[]external.GeoLocationDTO)
		if len(matches) == 0 {
			return apierror.NewAddressError(fmt.Sprintf("Could not find location: %s", address))
		}
		coords = entity.Coordinates{Lat: matches[0].Lat, Lon: matches[0].Lon}
		return nil
	})
	return coords, err
}

// addressError reports lookup failures as address errors, except an
// unreachable provider which stays Unavailable so the breaker sees it.
func addressError(query string, status int, errResp any, err error) error {
	classified := classify(status, errResp, err)
	if kind, ok := apierror.KindOf(classified); ok && kind == apierror.KindUnavailable {
		return classified
	}
	return apierror.Wrap(apierror.KindAddress, fmt.Sprintf("Could not find location: %s", query), classified)
}
