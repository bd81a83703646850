package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"placebook-server/models"
	"placebook-server/utils/errors"
)

// DefaultGeoEndpoint is the positionstack forward-geocoding API.
const DefaultGeoEndpoint = "http://api.positionstack.com/v1/forward"

// Geocoder resolves a postal address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.Location, error)
}

// GeoService calls the positionstack forward-geocoding API.
type GeoService struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewGeoService(endpoint, apiKey string) *GeoService {
	if endpoint == "" {
		endpoint = DefaultGeoEndpoint
	}
	return &GeoService{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type geoResult struct {
	Data []struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"data"`
}

// Resolve returns the coordinates for address, or ErrGeoResolution when the
// upstream is unreachable or has no usable result. Coordinates are never
// partially populated.
func (s *GeoService) Resolve(ctx context.Context, address string) (models.Location, error) {
	query := url.Values{}
	query.Set("access_key", s.apiKey)
	query.Set("query", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return models.Location{}, errors.ErrGeoResolution
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("Geocoding request failed for %q: %v", address, err)
		return models.Location{}, errors.ErrGeoResolution
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Geocoding returned status %d for %q", resp.StatusCode, address)
		return models.Location{}, errors.ErrGeoResolution
	}

	var result geoResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Location{}, errors.ErrGeoResolution
	}
	if len(result.Data) == 0 || result.Data[0].Latitude == nil || result.Data[0].Longitude == nil {
		return models.Location{}, errors.ErrGeoResolution
	}

	return models.Location{
		Lat: *result.Data[0].Latitude,
		Lng: *result.Data[0].Longitude,
	}, nil
}
