package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"meetpoint-api/internal/geomath"
	"meetpoint-api/internal/models"
)

// Input bounds. Violations are rejected before any provider I/O.
const (
	maxAddresses = 20

	minRadiusMeters     = 100
	maxRadiusMeters     = 20000
	defaultRadiusMeters = 2000

	minResults        = 1
	maxResults        = 50
	defaultMaxResults = 10
)

// PipelineService sequences the full recommendation pipeline:
// geocoding, centroid, place search, merging, accessibility and ranking.
// Only the geocoding stage can fail the request; every later stage degrades.
type PipelineService struct {
	geocode       *GeocodeService
	search        *SearchService
	accessibility *AccessibilityService
	recommend     *RecommendService
}

// NewPipelineService wires the stage services into the pipeline.
func NewPipelineService(geocode *GeocodeService, search *SearchService, accessibility *AccessibilityService, recommend *RecommendService) *PipelineService {
	return &PipelineService{
		geocode:       geocode,
		search:        search,
		accessibility: accessibility,
		recommend:     recommend,
	}
}

// Recommend runs the pipeline for one request.
func (s *PipelineService) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	req, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	// GEOCODING: the only stage that can fail the pipeline.
	resolved, err := s.geocode.GeocodeAll(ctx, req.Addresses)
	if err != nil {
		return nil, fmt.Errorf("service: geocoding stage: %w", err)
	}

	// CENTROID
	origins := make([]models.Coordinate, len(resolved))
	for i, r := range resolved {
		origins[i] = r.Coordinates
	}
	center, err := geomath.Centroid(origins)
	if err != nil {
		return nil, fmt.Errorf("service: centroid stage: %w", err)
	}
	centerPoint := models.CenterPoint{
		Coordinates:  center,
		Address:      s.geocode.ReverseGeocode(ctx, center),
		AddressCount: len(resolved),
	}
	log.Info().Float64("lat", center.Lat).Float64("lng", center.Lng).
		Int("addresses", len(resolved)).Msg("centroid computed")

	// SEARCHING + MERGING
	places := s.search.Search(ctx, center, req.PlaceType, req.Preferences, req.RadiusMeters, req.MaxResults)
	log.Info().Int("candidates", len(places)).Msg("place search settled")

	// ACCESSIBILITY
	analyzed := s.accessibility.Analyze(ctx, req.Addresses, origins, places)

	// RANKING
	ranked := s.recommend.Recommend(ctx, analyzed, center, req.Addresses, req.PlaceType, req.Preferences, req.MaxResults)

	return &models.RecommendationResult{
		CenterPoint:     centerPoint,
		Recommendations: ranked,
		Diagnostics:     buildDiagnostics(req.Addresses, analyzed),
	}, nil
}

func validateRequest(req models.RecommendationRequest) (models.RecommendationRequest, error) {
	if len(req.Addresses) == 0 {
		return req, models.ErrEmptyAddressList
	}
	if len(req.Addresses) > maxAddresses {
		return req, models.ErrTooManyAddresses
	}

	if req.RadiusMeters == 0 {
		req.RadiusMeters = defaultRadiusMeters
	}
	if req.RadiusMeters < minRadiusMeters || req.RadiusMeters > maxRadiusMeters {
		return req, models.ErrRadiusOutOfRange
	}

	if req.MaxResults == 0 {
		req.MaxResults = defaultMaxResults
	}
	if req.MaxResults < minResults || req.MaxResults > maxResults {
		return req, models.ErrMaxResultsRange
	}
	return req, nil
}

// buildDiagnostics summarizes the transit-matrix work: cell count, mean
// accessibility score and the most accessible place.
func buildDiagnostics(addresses []string, analyzed []models.Place) models.Diagnostics {
	diag := models.Diagnostics{
		TransitCalculations: len(addresses) * len(analyzed),
	}

	var sum float64
	var scored int
	best := math.Inf(-1)
	for _, p := range analyzed {
		acc := p.TransportationAccessibility
		if acc == nil {
			continue
		}
		sum += acc.AccessibilityScore
		scored++
		if acc.AccessibilityScore > best {
			best = acc.AccessibilityScore
			diag.BestAccessibilityPlace = p.Name
		}
	}
	if scored > 0 {
		diag.MeanAccessibilityScore = math.Round(sum/float64(scored)*100) / 100
	}
	return diag
}
