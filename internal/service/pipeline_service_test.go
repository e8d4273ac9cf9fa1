package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"meetpoint-api/internal/models"
)

// fakeGeocoder resolves from a fixed address table.
type fakeGeocoder struct {
	coords map[string]models.Coordinate
}

func (f *fakeGeocoder) Name() string { return "fake" }

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (models.GeocodeResult, error) {
	c, ok := f.coords[address]
	if !ok {
		return models.GeocodeResult{}, models.ErrAddressNotFound
	}
	return models.GeocodeResult{
		OriginalAddress:  address,
		FormattedAddress: address,
		Coordinates:      c,
		Accuracy:         models.AccuracyRoadAddress,
	}, nil
}

func newTestPipeline(geocoder Geocoder, searcher PlaceSearcher, transit TransitProvider, oracle ScoringOracle) *PipelineService {
	var searchers []PlaceSearcher
	if searcher != nil {
		searchers = append(searchers, searcher)
	}
	return NewPipelineService(
		NewGeocodeService(nil, geocoder),
		NewSearchService(nil, searchers...),
		NewAccessibilityService(transit),
		NewRecommendService(oracle),
	)
}

func TestPipelineService_Validation(t *testing.T) {
	pipeline := newTestPipeline(&fakeGeocoder{}, nil, nil, nil)

	manyAddresses := make([]string, 21)
	for i := range manyAddresses {
		manyAddresses[i] = "addr"
	}

	tests := []struct {
		name     string
		req      models.RecommendationRequest
		expected error
	}{
		{
			name:     "empty address list",
			req:      models.RecommendationRequest{},
			expected: models.ErrEmptyAddressList,
		},
		{
			name:     "21 addresses",
			req:      models.RecommendationRequest{Addresses: manyAddresses},
			expected: models.ErrTooManyAddresses,
		},
		{
			name:     "radius below minimum",
			req:      models.RecommendationRequest{Addresses: []string{"a"}, RadiusMeters: 50},
			expected: models.ErrRadiusOutOfRange,
		},
		{
			name:     "radius above maximum",
			req:      models.RecommendationRequest{Addresses: []string{"a"}, RadiusMeters: 25000},
			expected: models.ErrRadiusOutOfRange,
		},
		{
			name:     "max results above maximum",
			req:      models.RecommendationRequest{Addresses: []string{"a"}, MaxResults: 51},
			expected: models.ErrMaxResultsRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.Recommend(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPipelineService_GeocodingFailureFailsPipeline(t *testing.T) {
	geocoder := &fakeGeocoder{coords: map[string]models.Coordinate{
		"known": {Lat: 37.5, Lng: 127.0},
	}}
	pipeline := newTestPipeline(geocoder, nil, nil, nil)

	_, err := pipeline.Recommend(context.Background(), models.RecommendationRequest{
		Addresses: []string{"known", "unknown"},
	})

	var exhausted *models.GeocodingExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "unknown", exhausted.Address)
}

func TestPipelineService_EndToEnd(t *testing.T) {
	addrGangnam := "서울 강남구 테헤란로 152"
	addrCityHall := "서울 중구 세종대로 110"

	geocoder := &fakeGeocoder{coords: map[string]models.Coordinate{
		addrGangnam:  {Lat: 37.50, Lng: 127.03},
		addrCityHall: {Lat: 37.56, Lng: 126.97},
	}}
	searcher := &fakeSearcher{name: "kakao", nearby: []models.Place{
		place("place a", 37.530, 127.000),
		place("place b", 37.531, 127.001),
		place("place c", 37.529, 126.999),
	}}
	// 600s from gangnam, 900s from city hall, for every place
	transit := &fakeTransit{durations: map[float64]int{37.50: 600, 37.56: 900}}

	pipeline := newTestPipeline(geocoder, searcher, transit, nil)
	result, err := pipeline.Recommend(context.Background(), models.RecommendationRequest{
		Addresses: []string{addrGangnam, addrCityHall},
		PlaceType: "cafe",
	})

	assert.NoError(t, err)

	// centroid of the two addresses
	assert.InDelta(t, 37.53, result.CenterPoint.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 127.00, result.CenterPoint.Coordinates.Lng, 1e-9)
	assert.Equal(t, 2, result.CenterPoint.AddressCount)
	assert.Equal(t, "near 37.5300, 127.0000", result.CenterPoint.Address)

	// mean(600, 900) = 750s = 12.5 min, rounded to 13; inside the grace
	// window, so every place scores 10
	assert.Len(t, result.Recommendations, 3)
	for _, p := range result.Recommendations {
		acc := p.TransportationAccessibility
		if assert.NotNil(t, acc, p.Name) {
			assert.Equal(t, 13, acc.AverageTransitTime)
			assert.Equal(t, 10.0, acc.AccessibilityScore)
			assert.Equal(t, models.CalculationProviderAPI, acc.CalculationMethod)
		}
	}

	assert.Equal(t, 6, result.Diagnostics.TransitCalculations, "2 origins x 3 places")
	assert.Equal(t, 10.0, result.Diagnostics.MeanAccessibilityScore)
	assert.Equal(t, "place a", result.Diagnostics.BestAccessibilityPlace)
}

func TestPipelineService_DegradedTransitAndOracle(t *testing.T) {
	geocoder := &fakeGeocoder{coords: map[string]models.Coordinate{
		"a": {Lat: 37.50, Lng: 127.03},
	}}
	searcher := &fakeSearcher{name: "kakao", nearby: []models.Place{
		place("solo place", 37.50, 127.03),
	}}
	oracle := &MockOracle{}
	oracle.On("Score", mock.Anything, mock.Anything, mock.Anything).Return("garbage", nil)

	// transit always failing, oracle returning garbage: the request still
	// succeeds with estimated legs and heuristic ranking
	pipeline := newTestPipeline(geocoder, searcher, &fakeTransit{}, oracle)
	result, err := pipeline.Recommend(context.Background(), models.RecommendationRequest{
		Addresses: []string{"a"},
	})

	assert.NoError(t, err)
	assert.Len(t, result.Recommendations, 1)
	acc := result.Recommendations[0].TransportationAccessibility
	if assert.NotNil(t, acc) {
		assert.Equal(t, models.CalculationEstimated, acc.CalculationMethod)
	}
	assert.Nil(t, result.Recommendations[0].AIRecommendationScore)
}
