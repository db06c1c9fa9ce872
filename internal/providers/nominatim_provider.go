package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
)

// Geocoder turns a free-text place query into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*models.Coordinate, error)
	GetProviderType() string
}

// NominatimProvider implements Geocoder against an OpenStreetMap Nominatim instance
type NominatimProvider struct {
	jsonClient
}

// nominatimPlace is one entry of a /search answer. Coordinates come back as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatimProvider(cfg config.GeocodingConfig) *NominatimProvider {
	return &NominatimProvider{
		jsonClient: jsonClient{
			BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
			UserAgent: cfg.UserAgent,
			Client:    newHTTPClient(cfg.Timeout),
		},
	}
}

func (p *NominatimProvider) GetProviderType() string {
	return "nominatim"
}

// Geocode returns the best match for query, or a NO_MATCH ProviderError.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Geocoding query cannot be empty",
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "pt-BR")

	var places []nominatimPlace
	if _, err := p.doGET(ctx, "/search?"+params.Encode(), nil, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNoMatch,
			Message: constants.GetErrorMessage(constants.ErrCodeNoMatch),
			Details: query,
		}
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Geocoder returned a malformed coordinate",
			Details: places[0].Lat + "," + places[0].Lon,
		}
	}
	return &models.Coordinate{Lat: lat, Lon: lon}, nil
}
