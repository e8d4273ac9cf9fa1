package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"meetpoint-api/internal/models"
)

// Geocoder interface for dependency injection
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (models.GeocodeResult, error)
}

// ReverseGeocoder interface for dependency injection
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c models.Coordinate) (string, error)
}

// GeocodeService resolves addresses through an ordered chain of providers.
// Any failure of one provider, not-found or unavailable alike, advances to
// the next; only when the whole chain fails does an address fail.
type GeocodeService struct {
	chain   []Geocoder
	reverse ReverseGeocoder
}

// NewGeocodeService creates a geocode service over the given provider chain.
// The reverse geocoder may be nil; reverse lookups then always use the
// coordinate-derived fallback label.
func NewGeocodeService(reverse ReverseGeocoder, chain ...Geocoder) *GeocodeService {
	return &GeocodeService{chain: chain, reverse: reverse}
}

// Geocode resolves a single address through the fallback chain.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (models.GeocodeResult, error) {
	if address == "" {
		return models.GeocodeResult{}, fmt.Errorf("service: address cannot be empty")
	}

	tried := make([]string, 0, len(s.chain))
	for _, g := range s.chain {
		result, err := g.Geocode(ctx, address)
		if err == nil {
			return result, nil
		}
		tried = append(tried, g.Name())
		log.Debug().Err(err).Str("provider", g.Name()).Str("address", address).
			Msg("geocoding provider failed, advancing chain")
	}
	return models.GeocodeResult{}, &models.GeocodingExhaustedError{Address: address, Tried: tried}
}

// GeocodeAll resolves every address sequentially and fails fast on the
// first address the whole chain cannot resolve: a missing participant
// breaks the centroid's meaning.
func (s *GeocodeService) GeocodeAll(ctx context.Context, addresses []string) ([]models.GeocodeResult, error) {
	results := make([]models.GeocodeResult, 0, len(addresses))
	for _, address := range addresses {
		result, err := s.Geocode(ctx, address)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ReverseGeocode resolves a coordinate to a human-readable label. Best
// effort: any provider failure yields a deterministic label built from the
// rounded coordinate, never an error.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, c models.Coordinate) string {
	if s.reverse != nil {
		if address, err := s.reverse.ReverseGeocode(ctx, c); err == nil && address != "" {
			return address
		}
	}
	return fmt.Sprintf("near %.4f, %.4f", c.Lat, c.Lng)
}
