package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"meetpoint-api/internal/geomath"
	"meetpoint-api/internal/models"
)

const (
	naverGeocodeBaseURL = "https://maps.apigw.ntruss.com"
	naverSearchBaseURL  = "https://openapi.naver.com"

	// The Naver local search API caps display at 5 items per query.
	naverMaxDisplay = 5
)

// NaverClient talks to the Naver cloud geocoding API and the Naver open
// local-search API. It is the secondary geocoder in the fallback chain and
// an additional place-search source.
type NaverClient struct {
	geocodeBaseURL string
	searchBaseURL  string
	clientID       string
	clientSecret   string
	httpClient     *http.Client
	limiter        *rate.Limiter
}

// NewNaverClient creates a Naver API client.
func NewNaverClient(clientID, clientSecret string) *NaverClient {
	return &NaverClient{
		geocodeBaseURL: naverGeocodeBaseURL,
		searchBaseURL:  naverSearchBaseURL,
		clientID:       clientID,
		clientSecret:   clientSecret,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		limiter:        rate.NewLimiter(rate.Limit(10), 5),
	}
}

// NewNaverClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewNaverClientWithBaseURL(clientID, clientSecret, baseURL string) *NaverClient {
	c := NewNaverClient(clientID, clientSecret)
	c.geocodeBaseURL = baseURL
	c.searchBaseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.httpClient.Timeout = 2 * time.Second
	return c
}

// Name identifies this client in fallback-chain diagnostics.
func (n *NaverClient) Name() string { return string(models.SourceNaver) }

type naverGeocodeResponse struct {
	Status    string `json:"status"`
	Addresses []struct {
		RoadAddress  string `json:"roadAddress"`
		JibunAddress string `json:"jibunAddress"`
		X            string `json:"x"`
		Y            string `json:"y"`
	} `json:"addresses"`
}

// Geocode resolves an address through the Naver geocoding endpoint.
func (n *NaverClient) Geocode(ctx context.Context, address string) (models.GeocodeResult, error) {
	params := url.Values{"query": {address}}
	endpoint := fmt.Sprintf("%s/map-geocode/v2/geocode?%s", n.geocodeBaseURL, params.Encode())
	headers := map[string]string{
		"x-ncp-apigw-api-key-id": n.clientID,
		"x-ncp-apigw-api-key":    n.clientSecret,
	}

	var payload naverGeocodeResponse
	if err := getJSON(ctx, n.httpClient, n.limiter, endpoint, headers, &payload); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("naver: geocode %q: %w", address, err)
	}
	if payload.Status != "OK" {
		return models.GeocodeResult{}, fmt.Errorf("naver: geocode %q: %w: status %s", address, models.ErrProviderUnavailable, payload.Status)
	}
	if len(payload.Addresses) == 0 {
		return models.GeocodeResult{}, fmt.Errorf("naver: geocode %q: %w", address, models.ErrAddressNotFound)
	}

	addr := payload.Addresses[0]
	lat, laterr := strconv.ParseFloat(addr.Y, 64)
	lng, lngerr := strconv.ParseFloat(addr.X, 64)
	if laterr != nil || lngerr != nil {
		return models.GeocodeResult{}, fmt.Errorf("naver: geocode %q: %w: malformed coordinates", address, models.ErrProviderUnavailable)
	}

	accuracy := models.AccuracyLandLot
	formatted := addr.JibunAddress
	if addr.RoadAddress != "" {
		accuracy = models.AccuracyRoadAddress
		formatted = addr.RoadAddress
	}

	return models.GeocodeResult{
		OriginalAddress:  address,
		FormattedAddress: formatted,
		Coordinates:      models.Coordinate{Lat: lat, Lng: lng},
		Accuracy:         accuracy,
	}, nil
}

type naverLocalResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		Link        string `json:"link"`
		Telephone   string `json:"telephone"`
		MapX        string `json:"mapx"`
		MapY        string `json:"mapy"`
	} `json:"items"`
}

// SearchNearby searches the local API with the place type as query text.
// Naver's local search is query-anchored rather than radius-anchored, so
// results outside the requested radius are filtered out client-side.
func (n *NaverClient) SearchNearby(ctx context.Context, center models.Coordinate, placeType string, radiusMeters, limit int) ([]models.Place, error) {
	return n.SearchByKeyword(ctx, center, placeType, radiusMeters, limit)
}

// SearchByKeyword searches the local API by free-text query.
func (n *NaverClient) SearchByKeyword(ctx context.Context, center models.Coordinate, query string, radiusMeters, limit int) ([]models.Place, error) {
	params := url.Values{
		"query":   {query},
		"display": {strconv.Itoa(clampInt(limit, 1, naverMaxDisplay))},
		"sort":    {"random"},
	}
	endpoint := fmt.Sprintf("%s/v1/search/local.json?%s", n.searchBaseURL, params.Encode())
	headers := map[string]string{
		"X-Naver-Client-Id":     n.clientID,
		"X-Naver-Client-Secret": n.clientSecret,
	}

	var payload naverLocalResponse
	if err := getJSON(ctx, n.httpClient, n.limiter, endpoint, headers, &payload); err != nil {
		return nil, fmt.Errorf("naver: local search: %w", err)
	}

	places := make([]models.Place, 0, len(payload.Items))
	for _, item := range payload.Items {
		coord, ok := parseNaverMapCoord(item.MapX, item.MapY)
		if !ok {
			continue
		}
		distance := int(geomath.HaversineDistance(center, coord))
		if radiusMeters > 0 && distance > radiusMeters {
			continue
		}
		places = append(places, models.Place{
			Name:               stripNaverMarkup(item.Title),
			Address:            item.Address,
			RoadAddress:        item.RoadAddress,
			Coordinates:        coord,
			Category:           item.Category,
			Phone:              item.Telephone,
			URL:                item.Link,
			DistanceFromCenter: distance,
			Source:             models.SourceNaver,
		})
	}
	return places, nil
}

// parseNaverMapCoord converts the local API's WGS84*1e7 integer strings to
// a coordinate.
func parseNaverMapCoord(mapX, mapY string) (models.Coordinate, bool) {
	x, xerr := strconv.ParseFloat(mapX, 64)
	y, yerr := strconv.ParseFloat(mapY, 64)
	if xerr != nil || yerr != nil {
		return models.Coordinate{}, false
	}
	return models.Coordinate{Lat: y / 1e7, Lng: x / 1e7}, true
}

// stripNaverMarkup removes the <b> highlight tags the search API embeds in
// place titles.
func stripNaverMarkup(s string) string {
	replacer := strings.NewReplacer("<b>", "", "</b>", "", "&amp;", "&")
	return replacer.Replace(s)
}
