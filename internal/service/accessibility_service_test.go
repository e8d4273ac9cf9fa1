package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"meetpoint-api/internal/models"
)

// fakeTransit returns scripted durations keyed by origin latitude, or fails
// every call when durations is nil. Analyze calls it from concurrent
// goroutines, so the call counter is mutex-guarded.
type fakeTransit struct {
	mu        sync.Mutex
	durations map[float64]int // origin lat -> seconds
	calls     int
}

func (f *fakeTransit) CalculateTransitTimes(ctx context.Context, origin models.Coordinate, dests []models.Coordinate) ([]models.TransitEstimate, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.durations == nil {
		return nil, errors.New("transit provider down")
	}
	sec, ok := f.durations[origin.Lat]
	if !ok {
		return nil, errors.New("unknown origin")
	}
	estimates := make([]models.TransitEstimate, len(dests))
	for i := range dests {
		estimates[i] = models.TransitEstimate{DurationSeconds: sec, DistanceMeters: sec * 8, OK: true}
	}
	return estimates, nil
}

var (
	testAddresses = []string{"서울 강남구 테헤란로 152", "서울 중구 세종대로 110"}
	testOrigins   = []models.Coordinate{
		{Lat: 37.50, Lng: 127.03},
		{Lat: 37.56, Lng: 126.97},
	}
)

func testPlaces() []models.Place {
	return []models.Place{
		{Name: "place a", Coordinates: models.Coordinate{Lat: 37.53, Lng: 127.00}},
		{Name: "place b", Coordinates: models.Coordinate{Lat: 37.531, Lng: 127.001}},
		{Name: "place c", Coordinates: models.Coordinate{Lat: 37.529, Lng: 126.999}},
	}
}

func TestAccessibilityService_Analyze_ProviderDurations(t *testing.T) {
	// 600s from the first origin, 900s from the second: mean 750s = 12.5
	// minutes, rounded to 13, inside the grace window so the score is 10.
	transit := &fakeTransit{durations: map[float64]int{37.50: 600, 37.56: 900}}
	svc := NewAccessibilityService(transit)

	analyzed := svc.Analyze(context.Background(), testAddresses, testOrigins, testPlaces())

	assert.Len(t, analyzed, 3)
	for _, p := range analyzed {
		acc := p.TransportationAccessibility
		if assert.NotNil(t, acc, p.Name) {
			assert.Equal(t, 13, acc.AverageTransitTime)
			assert.Equal(t, 10.0, acc.AccessibilityScore)
			assert.Equal(t, models.CalculationProviderAPI, acc.CalculationMethod)
			assert.Len(t, acc.FromAddresses, 2)
			assert.Equal(t, testAddresses[0], acc.FromAddresses[0].Origin)
			assert.Equal(t, 600, acc.FromAddresses[0].DurationSeconds)
			assert.Equal(t, 900, acc.FromAddresses[1].DurationSeconds)
			assert.Equal(t, "transit", acc.FromAddresses[0].TransitMode)
		}
	}
	// one provider call per (origin, place) pair
	assert.Equal(t, len(testOrigins)*3, transit.calls)
}

func TestAccessibilityService_Analyze_ProviderLegDisplayRounds(t *testing.T) {
	// 750s is 12.5 minutes; the leg string must round the same way the
	// average does, not truncate to 12.
	transit := &fakeTransit{durations: map[float64]int{37.50: 750, 37.56: 750}}
	svc := NewAccessibilityService(transit)

	analyzed := svc.Analyze(context.Background(), testAddresses, testOrigins, testPlaces()[:1])

	acc := analyzed[0].TransportationAccessibility
	if assert.NotNil(t, acc) {
		assert.Equal(t, 13, acc.AverageTransitTime)
		assert.Equal(t, "13 min", acc.FromAddresses[0].TransitTime)
		assert.Equal(t, "13 min", acc.FromAddresses[1].TransitTime)
	}
}

func TestAccessibilityService_Analyze_DeterministicFallback(t *testing.T) {
	run := func() []models.Place {
		svc := NewAccessibilityService(&fakeTransit{durations: nil})
		return svc.Analyze(context.Background(), testAddresses, testOrigins, testPlaces())
	}

	first := run()
	second := run()

	assert.Equal(t, first, second, "identical inputs must yield identical estimated legs")
	for _, p := range first {
		acc := p.TransportationAccessibility
		if assert.NotNil(t, acc) {
			assert.Equal(t, models.CalculationEstimated, acc.CalculationMethod)
			for _, leg := range acc.FromAddresses {
				assert.Equal(t, "estimated", leg.TransitMode)
				assert.Greater(t, leg.DurationSeconds, 0)
			}
		}
	}
}

func TestAccessibilityService_Analyze_NilProvider(t *testing.T) {
	svc := NewAccessibilityService(nil)
	analyzed := svc.Analyze(context.Background(), testAddresses, testOrigins, testPlaces())

	for _, p := range analyzed {
		if assert.NotNil(t, p.TransportationAccessibility) {
			assert.Equal(t, models.CalculationEstimated, p.TransportationAccessibility.CalculationMethod)
		}
	}
}

func TestAccessibilityService_Analyze_EmptyPlaces(t *testing.T) {
	svc := NewAccessibilityService(nil)
	assert.Empty(t, svc.Analyze(context.Background(), testAddresses, testOrigins, nil))
}

func TestAccessibilityScore(t *testing.T) {
	tests := []struct {
		avgMinutes int
		expected   float64
	}{
		{0, 10},
		{10, 10},
		{15, 10},
		{16, 10},
		{20, 9},
		{25, 8},
		{45, 4},
		{60, 1},
		{180, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, accessibilityScore(tt.avgMinutes),
			"score for %d minutes", tt.avgMinutes)
	}
}

func TestAccessibilityScore_Monotonic(t *testing.T) {
	prev := accessibilityScore(0)
	for minutes := 5; minutes <= 120; minutes += 5 {
		curr := accessibilityScore(minutes)
		assert.LessOrEqual(t, curr, prev, "score must not increase at %d minutes", minutes)
		assert.GreaterOrEqual(t, curr, 1.0)
		assert.LessOrEqual(t, curr, 10.0)
		prev = curr
	}
}
