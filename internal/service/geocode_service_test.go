package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"meetpoint-api/internal/models"
)

// MockGeocoder is a mock implementation of the Geocoder interface
type MockGeocoder struct {
	mock.Mock
	name string
}

func (m *MockGeocoder) Name() string { return m.name }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (models.GeocodeResult, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(models.GeocodeResult), args.Error(1)
}

// MockReverseGeocoder is a mock implementation of the ReverseGeocoder interface
type MockReverseGeocoder struct {
	mock.Mock
}

func (m *MockReverseGeocoder) ReverseGeocode(ctx context.Context, c models.Coordinate) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func gangnamResult(address string) models.GeocodeResult {
	return models.GeocodeResult{
		OriginalAddress:  address,
		FormattedAddress: "서울 강남구 테헤란로 152",
		Coordinates:      models.Coordinate{Lat: 37.5001, Lng: 127.0364},
		Accuracy:         models.AccuracyRoadAddress,
	}
}

func TestGeocodeService_Geocode(t *testing.T) {
	const address = "서울 강남구 테헤란로 152"

	t.Run("empty address", func(t *testing.T) {
		svc := NewGeocodeService(nil, &MockGeocoder{name: "kakao"})
		_, err := svc.Geocode(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &MockGeocoder{name: "kakao"}
		secondary := &MockGeocoder{name: "naver"}
		primary.On("Geocode", mock.Anything, address).Return(gangnamResult(address), nil)

		svc := NewGeocodeService(nil, primary, secondary)
		result, err := svc.Geocode(context.Background(), address)

		assert.NoError(t, err)
		assert.Equal(t, gangnamResult(address), result)
		secondary.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("primary not found falls back to secondary", func(t *testing.T) {
		primary := &MockGeocoder{name: "kakao"}
		secondary := &MockGeocoder{name: "naver"}
		primary.On("Geocode", mock.Anything, address).Return(models.GeocodeResult{}, models.ErrAddressNotFound)
		secondary.On("Geocode", mock.Anything, address).Return(gangnamResult(address), nil)

		svc := NewGeocodeService(nil, primary, secondary)
		result, err := svc.Geocode(context.Background(), address)

		assert.NoError(t, err)
		assert.Equal(t, gangnamResult(address), result)
	})

	t.Run("whole chain failing yields exhausted error naming tried providers", func(t *testing.T) {
		primary := &MockGeocoder{name: "kakao"}
		secondary := &MockGeocoder{name: "naver"}
		primary.On("Geocode", mock.Anything, address).Return(models.GeocodeResult{}, models.ErrProviderUnavailable)
		secondary.On("Geocode", mock.Anything, address).Return(models.GeocodeResult{}, models.ErrAddressNotFound)

		svc := NewGeocodeService(nil, primary, secondary)
		_, err := svc.Geocode(context.Background(), address)

		var exhausted *models.GeocodingExhaustedError
		assert.ErrorAs(t, err, &exhausted)
		assert.Equal(t, address, exhausted.Address)
		assert.Equal(t, []string{"kakao", "naver"}, exhausted.Tried)
	})
}

func TestGeocodeService_GeocodeAll(t *testing.T) {
	t.Run("resolves all addresses in order", func(t *testing.T) {
		geocoder := &MockGeocoder{name: "kakao"}
		geocoder.On("Geocode", mock.Anything, "a").Return(gangnamResult("a"), nil)
		geocoder.On("Geocode", mock.Anything, "b").Return(gangnamResult("b"), nil)

		svc := NewGeocodeService(nil, geocoder)
		results, err := svc.GeocodeAll(context.Background(), []string{"a", "b"})

		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, "a", results[0].OriginalAddress)
		assert.Equal(t, "b", results[1].OriginalAddress)
	})

	t.Run("fails fast on first unresolvable address", func(t *testing.T) {
		geocoder := &MockGeocoder{name: "kakao"}
		geocoder.On("Geocode", mock.Anything, "a").Return(gangnamResult("a"), nil)
		geocoder.On("Geocode", mock.Anything, "bad").Return(models.GeocodeResult{}, models.ErrAddressNotFound)

		svc := NewGeocodeService(nil, geocoder)
		_, err := svc.GeocodeAll(context.Background(), []string{"a", "bad", "c"})

		var exhausted *models.GeocodingExhaustedError
		assert.ErrorAs(t, err, &exhausted)
		geocoder.AssertNotCalled(t, "Geocode", mock.Anything, "c")
	})
}

func TestGeocodeService_ReverseGeocode(t *testing.T) {
	center := models.Coordinate{Lat: 37.53, Lng: 127.0}

	t.Run("provider result used when available", func(t *testing.T) {
		reverse := &MockReverseGeocoder{}
		reverse.On("ReverseGeocode", mock.Anything, center).Return("서울 성동구 성수동", nil)

		svc := NewGeocodeService(reverse)
		assert.Equal(t, "서울 성동구 성수동", svc.ReverseGeocode(context.Background(), center))
	})

	t.Run("provider failure degrades to coordinate label", func(t *testing.T) {
		reverse := &MockReverseGeocoder{}
		reverse.On("ReverseGeocode", mock.Anything, center).Return("", models.ErrProviderUnavailable)

		svc := NewGeocodeService(reverse)
		assert.Equal(t, "near 37.5300, 127.0000", svc.ReverseGeocode(context.Background(), center))
	})

	t.Run("nil provider always uses coordinate label", func(t *testing.T) {
		svc := NewGeocodeService(nil)
		assert.Equal(t, "near 37.5300, 127.0000", svc.ReverseGeocode(context.Background(), center))
	})
}
