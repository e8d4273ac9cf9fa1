package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"meetpoint-api/internal/geomath"
	"meetpoint-api/internal/models"
)

const (
	kakaoBaseURL = "https://dapi.kakao.com"

	kakaoMaxRadius   = 20000
	kakaoMaxPageSize = 15
)

// kakaoCategoryCodes maps the pipeline's place-type filter to Kakao
// category group codes. Unmapped types fall through to keyword search.
var kakaoCategoryCodes = map[string]string{
	"restaurant": "FD6",
	"cafe":       "CE7",
	"bar":        "FD6",
	"culture":    "CT1",
	"park":       "AT4",
	"subway":     "SW8",
}

// KakaoClient talks to the Kakao Local REST API. It serves both the primary
// geocoder role and one of the place-search roles.
type KakaoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewKakaoClient creates a Kakao Local API client.
func NewKakaoClient(apiKey string) *KakaoClient {
	return &KakaoClient{
		baseURL:    kakaoBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}
}

// NewKakaoClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewKakaoClientWithBaseURL(apiKey, baseURL string) *KakaoClient {
	c := NewKakaoClient(apiKey)
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.httpClient.Timeout = 2 * time.Second
	return c
}

// Name identifies this client in fallback-chain diagnostics.
func (k *KakaoClient) Name() string { return string(models.SourceKakao) }

func (k *KakaoClient) authHeader() map[string]string {
	return map[string]string{"Authorization": "KakaoAK " + k.apiKey}
}

type kakaoAddressDocument struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
	RoadAddress *struct {
		AddressName string `json:"address_name"`
	} `json:"road_address"`
	Address *struct {
		AddressName string `json:"address_name"`
	} `json:"address"`
}

type kakaoAddressResponse struct {
	Documents []kakaoAddressDocument `json:"documents"`
}

// Geocode resolves an address through the Kakao address search endpoint.
func (k *KakaoClient) Geocode(ctx context.Context, address string) (models.GeocodeResult, error) {
	params := url.Values{"query": {address}}
	endpoint := fmt.Sprintf("%s/v2/local/search/address.json?%s", k.baseURL, params.Encode())

	var payload kakaoAddressResponse
	if err := getJSON(ctx, k.httpClient, k.limiter, endpoint, k.authHeader(), &payload); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("kakao: geocode %q: %w", address, err)
	}
	if len(payload.Documents) == 0 {
		return models.GeocodeResult{}, fmt.Errorf("kakao: geocode %q: %w", address, models.ErrAddressNotFound)
	}

	doc := payload.Documents[0]
	lat, laterr := strconv.ParseFloat(doc.Y, 64)
	lng, lngerr := strconv.ParseFloat(doc.X, 64)
	if laterr != nil || lngerr != nil {
		return models.GeocodeResult{}, fmt.Errorf("kakao: geocode %q: %w: malformed coordinates", address, models.ErrProviderUnavailable)
	}

	accuracy := models.AccuracyLandLot
	formatted := doc.AddressName
	if doc.RoadAddress != nil && doc.RoadAddress.AddressName != "" {
		accuracy = models.AccuracyRoadAddress
		formatted = doc.RoadAddress.AddressName
	}

	return models.GeocodeResult{
		OriginalAddress:  address,
		FormattedAddress: formatted,
		Coordinates:      models.Coordinate{Lat: lat, Lng: lng},
		Accuracy:         accuracy,
	}, nil
}

type kakaoCoordResponse struct {
	Documents []struct {
		RoadAddress *struct {
			AddressName string `json:"address_name"`
		} `json:"road_address"`
		Address *struct {
			AddressName string `json:"address_name"`
		} `json:"address"`
	} `json:"documents"`
}

// ReverseGeocode resolves a coordinate to an address string.
func (k *KakaoClient) ReverseGeocode(ctx context.Context, c models.Coordinate) (string, error) {
	params := url.Values{
		"x": {strconv.FormatFloat(c.Lng, 'f', -1, 64)},
		"y": {strconv.FormatFloat(c.Lat, 'f', -1, 64)},
	}
	endpoint := fmt.Sprintf("%s/v2/local/geo/coord2address.json?%s", k.baseURL, params.Encode())

	var payload kakaoCoordResponse
	if err := getJSON(ctx, k.httpClient, k.limiter, endpoint, k.authHeader(), &payload); err != nil {
		return "", fmt.Errorf("kakao: reverse geocode: %w", err)
	}
	if len(payload.Documents) == 0 {
		return "", fmt.Errorf("kakao: reverse geocode: %w", models.ErrAddressNotFound)
	}

	doc := payload.Documents[0]
	if doc.RoadAddress != nil && doc.RoadAddress.AddressName != "" {
		return doc.RoadAddress.AddressName, nil
	}
	if doc.Address != nil && doc.Address.AddressName != "" {
		return doc.Address.AddressName, nil
	}
	return "", fmt.Errorf("kakao: reverse geocode: %w", models.ErrAddressNotFound)
}

type kakaoPlaceDocument struct {
	PlaceName       string `json:"place_name"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	CategoryName    string `json:"category_name"`
	Phone           string `json:"phone"`
	PlaceURL        string `json:"place_url"`
	X               string `json:"x"`
	Y               string `json:"y"`
}

type kakaoPlaceResponse struct {
	Documents []kakaoPlaceDocument `json:"documents"`
}

// SearchNearby searches places around a center. Mapped place types use the
// category endpoint; anything else falls back to a keyword search with the
// type text as the query.
func (k *KakaoClient) SearchNearby(ctx context.Context, center models.Coordinate, placeType string, radiusMeters, limit int) ([]models.Place, error) {
	if code, ok := kakaoCategoryCodes[placeType]; ok {
		params := k.searchParams(center, radiusMeters, limit)
		params.Set("category_group_code", code)
		endpoint := fmt.Sprintf("%s/v2/local/search/category.json?%s", k.baseURL, params.Encode())
		return k.searchPlaces(ctx, endpoint, center)
	}
	return k.SearchByKeyword(ctx, center, placeType, radiusMeters, limit)
}

// SearchByKeyword searches places around a center by free-text query.
func (k *KakaoClient) SearchByKeyword(ctx context.Context, center models.Coordinate, query string, radiusMeters, limit int) ([]models.Place, error) {
	params := k.searchParams(center, radiusMeters, limit)
	params.Set("query", query)
	endpoint := fmt.Sprintf("%s/v2/local/search/keyword.json?%s", k.baseURL, params.Encode())
	return k.searchPlaces(ctx, endpoint, center)
}

func (k *KakaoClient) searchParams(center models.Coordinate, radiusMeters, limit int) url.Values {
	return url.Values{
		"x":      {strconv.FormatFloat(center.Lng, 'f', -1, 64)},
		"y":      {strconv.FormatFloat(center.Lat, 'f', -1, 64)},
		"radius": {strconv.Itoa(clampInt(radiusMeters, 0, kakaoMaxRadius))},
		"size":   {strconv.Itoa(clampInt(limit, 1, kakaoMaxPageSize))},
		"sort":   {"distance"},
	}
}

func (k *KakaoClient) searchPlaces(ctx context.Context, endpoint string, center models.Coordinate) ([]models.Place, error) {
	var payload kakaoPlaceResponse
	if err := getJSON(ctx, k.httpClient, k.limiter, endpoint, k.authHeader(), &payload); err != nil {
		return nil, fmt.Errorf("kakao: place search: %w", err)
	}

	places := make([]models.Place, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		lat, laterr := strconv.ParseFloat(doc.Y, 64)
		lng, lngerr := strconv.ParseFloat(doc.X, 64)
		if laterr != nil || lngerr != nil {
			continue
		}
		coord := models.Coordinate{Lat: lat, Lng: lng}
		places = append(places, models.Place{
			Name:               doc.PlaceName,
			Address:            doc.AddressName,
			RoadAddress:        doc.RoadAddressName,
			Coordinates:        coord,
			Category:           doc.CategoryName,
			Phone:              doc.Phone,
			URL:                doc.PlaceURL,
			DistanceFromCenter: int(geomath.HaversineDistance(center, coord)),
			Source:             models.SourceKakao,
		})
	}
	return places, nil
}
