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
	googleBaseURL = "https://maps.googleapis.com/maps/api"

	googleMaxRadius  = 50000
	googleMaxResults = 20
)

// GoogleClient talks to the Google Maps Places and Distance Matrix APIs.
// It is the fallback place-search source and the only real transit-matrix
// source.
type GoogleClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGoogleClient creates a Google Maps API client.
func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		baseURL:    googleBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}
}

// NewGoogleClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewGoogleClientWithBaseURL(apiKey, baseURL string) *GoogleClient {
	c := NewGoogleClient(apiKey)
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.httpClient.Timeout = 2 * time.Second
	return c
}

// Name identifies this client in fan-out diagnostics.
func (g *GoogleClient) Name() string { return string(models.SourceGoogle) }

type googlePlacesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name           string `json:"name"`
		Vicinity       string `json:"vicinity"`
		BusinessStatus string `json:"business_status"`
		Geometry       struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		PriceLevel       *int     `json:"price_level"`
		Types            []string `json:"types"`
		OpeningHours     *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

// SearchNearby queries the Places nearby-search endpoint with a type filter.
func (g *GoogleClient) SearchNearby(ctx context.Context, center models.Coordinate, placeType string, radiusMeters, limit int) ([]models.Place, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", center.Lat, center.Lng)},
		"radius":   {strconv.Itoa(clampInt(radiusMeters, 1, googleMaxRadius))},
		"key":      {g.apiKey},
	}
	if placeType != "" {
		params.Set("type", placeType)
	}
	return g.searchPlaces(ctx, params, center, limit)
}

// SearchByKeyword queries the same endpoint with a free-text keyword.
func (g *GoogleClient) SearchByKeyword(ctx context.Context, center models.Coordinate, query string, radiusMeters, limit int) ([]models.Place, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", center.Lat, center.Lng)},
		"radius":   {strconv.Itoa(clampInt(radiusMeters, 1, googleMaxRadius))},
		"keyword":  {query},
		"key":      {g.apiKey},
	}
	return g.searchPlaces(ctx, params, center, limit)
}

func (g *GoogleClient) searchPlaces(ctx context.Context, params url.Values, center models.Coordinate, limit int) ([]models.Place, error) {
	endpoint := fmt.Sprintf("%s/place/nearbysearch/json?%s", g.baseURL, params.Encode())

	var payload googlePlacesResponse
	if err := getJSON(ctx, g.httpClient, g.limiter, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("google: place search: %w", err)
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google: place search: %w: status %s", models.ErrProviderUnavailable, payload.Status)
	}

	limit = clampInt(limit, 1, googleMaxResults)
	places := make([]models.Place, 0, limit)
	for _, r := range payload.Results {
		if len(places) >= limit {
			break
		}
		coord := models.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
		p := models.Place{
			Name:               r.Name,
			Address:            r.Vicinity,
			Coordinates:        coord,
			Category:           strings.Join(r.Types, ","),
			Rating:             r.Rating,
			RatingCount:        r.UserRatingsTotal,
			PriceLevel:         r.PriceLevel,
			BusinessStatus:     r.BusinessStatus,
			DistanceFromCenter: int(geomath.HaversineDistance(center, coord)),
			Source:             models.SourceGoogle,
		}
		if r.OpeningHours != nil {
			open := r.OpeningHours.OpenNow
			p.OpenNow = &open
		}
		places = append(places, p)
	}
	return places, nil
}

type googleMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// CalculateTransitTimes queries the Distance Matrix API in transit mode for
// one origin against many destinations. Per-destination failures are
// reported as unsuccessful estimates rather than errors; only a failure of
// the whole call returns an error.
func (g *GoogleClient) CalculateTransitTimes(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]models.TransitEstimate, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = fmt.Sprintf("%f,%f", d.Lat, d.Lng)
	}
	params := url.Values{
		"origins":      {fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		"destinations": {strings.Join(dests, "|")},
		"mode":         {"transit"},
		"key":          {g.apiKey},
	}
	endpoint := fmt.Sprintf("%s/distancematrix/json?%s", g.baseURL, params.Encode())

	var payload googleMatrixResponse
	if err := getJSON(ctx, g.httpClient, g.limiter, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("google: distance matrix: %w", err)
	}
	if payload.Status != "OK" || len(payload.Rows) == 0 {
		return nil, fmt.Errorf("google: distance matrix: %w: status %s", models.ErrProviderUnavailable, payload.Status)
	}

	estimates := make([]models.TransitEstimate, len(destinations))
	for i, el := range payload.Rows[0].Elements {
		if i >= len(estimates) {
			break
		}
		if el.Status != "OK" || el.Duration.Value <= 0 {
			continue
		}
		estimates[i] = models.TransitEstimate{
			DurationSeconds: el.Duration.Value,
			DistanceMeters:  el.Distance.Value,
			OK:              true,
		}
	}
	return estimates, nil
}
