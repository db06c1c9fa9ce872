package providers

import (
	"context"
	"net/http"
	"strings"

	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
)

// RoutePlanner computes a road route between two points.
type RoutePlanner interface {
	Directions(ctx context.Context, from, to models.Coordinate, apiKey string) (*Route, error)
	GetProviderType() string
}

// Route is a road geometry with its length and expected driving time.
type Route struct {
	Points          []models.Coordinate
	DistanceMeters  float64
	DurationSeconds float64
}

// ORSProvider implements RoutePlanner with the openrouteservice directions API (heavy goods vehicle profile)
type ORSProvider struct {
	jsonClient
}

const orsDirectionsEndpoint = "/v2/directions/driving-hgv/geojson"

type orsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Preference  string       `json:"preference"`
}

type orsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

func NewORSProvider(cfg config.RoutingConfig) *ORSProvider {
	return &ORSProvider{
		jsonClient: jsonClient{
			BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
			Client:  newHTTPClient(cfg.Timeout),
		},
	}
}

func (p *ORSProvider) GetProviderType() string {
	return "openrouteservice"
}

// Directions requests the recommended truck route from one point to another.
func (p *ORSProvider) Directions(ctx context.Context, from, to models.Coordinate, apiKey string) (*Route, error) {
	if apiKey == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "Routing API key is not set",
		}
	}

	body := orsRequest{
		Coordinates: [][2]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
		Preference:  "recommended",
	}
	headers := http.Header{}
	headers.Set("Authorization", apiKey)

	var resp orsResponse
	if _, err := p.doPost(ctx, orsDirectionsEndpoint, headers, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 ||
		len(resp.Features[0].Properties.Segments) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Directions response has no usable route",
		}
	}
	feature := resp.Features[0]

	route := &Route{
		Points:          make([]models.Coordinate, 0, len(feature.Geometry.Coordinates)),
		DistanceMeters:  feature.Properties.Segments[0].Distance,
		DurationSeconds: feature.Properties.Segments[0].Duration,
	}
	for _, c := range feature.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		// GeoJSON positions are [lon, lat]
		route.Points = append(route.Points, models.Coordinate{Lat: c[1], Lon: c[0]})
	}
	return route, nil
}
