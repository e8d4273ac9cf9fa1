package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"meetpoint-api/internal/geomath"
	"meetpoint-api/internal/models"
)

// TransitProvider interface for dependency injection
type TransitProvider interface {
	CalculateTransitTimes(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]models.TransitEstimate, error)
}

// Fallback transit model: straight-line distance at an assumed urban
// transit speed of 20 km/h plus a flat boarding/walking overhead. Purely a
// function of the coordinates, so identical inputs always yield identical
// estimated legs.
const (
	transitSpeedMetersPerMinute = 20000.0 / 60.0
	boardingOverheadMinutes     = 5.0

	maxConcurrentPlaces = 4
)

// AccessibilityService builds the per-place transit summaries: one transit
// call per (origin, place) pair, a deterministic estimate for every failed
// or non-positive leg, and the 1-10 accessibility score derived from the
// average transit time.
type AccessibilityService struct {
	transit TransitProvider
}

// NewAccessibilityService creates an accessibility service. A nil transit
// provider degrades every leg to the estimated model.
func NewAccessibilityService(transit TransitProvider) *AccessibilityService {
	return &AccessibilityService{transit: transit}
}

// Analyze attaches a transit summary to every place. Places are processed
// concurrently; all legs for one place settle before its summary is
// finalized. This stage never fails.
func (s *AccessibilityService) Analyze(ctx context.Context, addresses []string, origins []models.Coordinate, places []models.Place) []models.Place {
	if len(places) == 0 || len(origins) == 0 {
		return places
	}

	type settled struct {
		index   int
		summary *models.AccessibilitySummary
	}

	results := make(chan settled, len(places))
	sem := make(chan struct{}, maxConcurrentPlaces)
	var wg sync.WaitGroup

	for i := range places {
		wg.Add(1)
		go func(idx int, place models.Place) {
			defer wg.Done()
			sem <- struct{}{}
			summary := s.summarize(ctx, addresses, origins, place)
			<-sem
			results <- settled{index: idx, summary: summary}
		}(i, places[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	analyzed := make([]models.Place, len(places))
	copy(analyzed, places)
	for res := range results {
		analyzed[res.index].TransportationAccessibility = res.summary
	}
	return analyzed
}

// summarize computes all legs from the participant origins to one place.
func (s *AccessibilityService) summarize(ctx context.Context, addresses []string, origins []models.Coordinate, place models.Place) *models.AccessibilitySummary {
	legs := make([]models.TransitLeg, len(origins))
	anyProviderLeg := false
	totalSeconds := 0

	for i, origin := range origins {
		leg, fromProvider := s.legFor(ctx, addresses[i], origin, place.Coordinates)
		legs[i] = leg
		totalSeconds += leg.DurationSeconds
		if fromProvider {
			anyProviderLeg = true
		}
	}

	avgMinutes := int(math.Round(float64(totalSeconds) / float64(len(origins)) / 60.0))

	method := models.CalculationEstimated
	if anyProviderLeg {
		method = models.CalculationProviderAPI
	}

	return &models.AccessibilitySummary{
		AverageTransitTime: avgMinutes,
		AccessibilityScore: accessibilityScore(avgMinutes),
		FromAddresses:      legs,
		CalculationMethod:  method,
	}
}

// legFor computes one transit leg, substituting the deterministic estimate
// when the provider is absent, fails, or reports a non-positive duration.
func (s *AccessibilityService) legFor(ctx context.Context, address string, origin, dest models.Coordinate) (models.TransitLeg, bool) {
	if s.transit != nil {
		estimates, err := s.transit.CalculateTransitTimes(ctx, origin, []models.Coordinate{dest})
		if err == nil && len(estimates) == 1 && estimates[0].OK && estimates[0].DurationSeconds > 0 {
			est := estimates[0]
			return models.TransitLeg{
				Origin:          address,
				TransitTime:     formatMinutes(int(math.Round(float64(est.DurationSeconds) / 60.0))),
				TransitDistance: formatDistance(est.DistanceMeters),
				TransitMode:     "transit",
				DurationSeconds: est.DurationSeconds,
				DistanceMeters:  est.DistanceMeters,
			}, true
		}
		if err != nil {
			log.Debug().Err(err).Str("origin", address).Msg("transit call failed, using estimated leg")
		}
	}
	return estimatedLeg(address, origin, dest), false
}

// estimatedLeg is the deterministic fallback for a failed transit call.
func estimatedLeg(address string, origin, dest models.Coordinate) models.TransitLeg {
	meters := geomath.HaversineDistance(origin, dest)
	minutes := int(math.Round(boardingOverheadMinutes + meters/transitSpeedMetersPerMinute))
	return models.TransitLeg{
		Origin:          address,
		TransitTime:     formatMinutes(minutes),
		TransitDistance: formatDistance(int(meters)),
		TransitMode:     "estimated",
		DurationSeconds: minutes * 60,
		DistanceMeters:  int(meters),
	}
}

// accessibilityScore maps average transit minutes to the 1-10 score: 10
// within the 15-minute grace window, minus one point per additional 5
// minutes, floored at 1.
func accessibilityScore(avgMinutes int) float64 {
	score := 10 - int(math.Floor(float64(avgMinutes-15)/5.0))
	if score > 10 {
		score = 10
	}
	if score < 1 {
		score = 1
	}
	return float64(score)
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

func formatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000.0)
	}
	return fmt.Sprintf("%d m", meters)
}
