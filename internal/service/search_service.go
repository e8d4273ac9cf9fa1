package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"meetpoint-api/internal/models"
)

// PlaceSearcher interface for dependency injection
type PlaceSearcher interface {
	Name() string
	SearchNearby(ctx context.Context, center models.Coordinate, placeType string, radiusMeters, limit int) ([]models.Place, error)
	SearchByKeyword(ctx context.Context, center models.Coordinate, query string, radiusMeters, limit int) ([]models.Place, error)
}

const (
	defaultPlaceType  = "restaurant"
	searchCallTimeout = 10 * time.Second
	maxSearchRadius   = 20000
)

// SearchService fans out place searches across providers, merges the
// settled results in provider order, falls back to a reserve provider when
// every primary provider fails, and broadens the search once when the
// merged candidate set comes back empty.
type SearchService struct {
	providers   []PlaceSearcher
	fallback    PlaceSearcher
	callTimeout time.Duration
}

// NewSearchService creates a search service. The fallback provider may be
// nil; providers may be empty when no search credential is configured, in
// which case every search returns an empty set.
func NewSearchService(fallback PlaceSearcher, providers ...PlaceSearcher) *SearchService {
	return &SearchService{
		providers:   providers,
		fallback:    fallback,
		callTimeout: searchCallTimeout,
	}
}

// searchCall is one provider query in the fan-out.
type searchCall struct {
	provider PlaceSearcher
	keyword  string // empty means nearby search with the place type
}

// Search runs the SEARCHING and MERGING stages: concurrent provider
// fan-out, settle-all, ordered dedup merge, reserve-provider fallback and
// one broadened retry. It never fails; exhausting every option yields an
// empty slice.
func (s *SearchService) Search(ctx context.Context, center models.Coordinate, placeType, preferences string, radiusMeters, limit int) []models.Place {
	if placeType == "" {
		placeType = defaultPlaceType
	}

	calls := make([]searchCall, 0, 2*len(s.providers))
	for _, p := range s.providers {
		calls = append(calls, searchCall{provider: p})
		if preferences != "" {
			calls = append(calls, searchCall{provider: p, keyword: preferences})
		}
	}

	merged, anySucceeded := s.fanOut(ctx, calls, center, placeType, radiusMeters, limit)

	if !anySucceeded && s.fallback != nil {
		log.Warn().Msg("all primary place-search providers failed, using fallback provider")
		merged, _ = s.fanOut(ctx, []searchCall{{provider: s.fallback}}, center, placeType, radiusMeters, limit)
	}

	if len(merged) == 0 {
		broadened := radiusMeters * 2
		if broadened > maxSearchRadius {
			broadened = maxSearchRadius
		}
		log.Info().Int("radius", broadened).Msg("empty candidate set, broadening search once")

		calls = calls[:0]
		for _, p := range s.providers {
			calls = append(calls, searchCall{provider: p, keyword: defaultPlaceType})
		}
		if s.fallback != nil {
			calls = append(calls, searchCall{provider: s.fallback, keyword: defaultPlaceType})
		}
		merged, _ = s.fanOut(ctx, calls, center, defaultPlaceType, broadened, limit)
	}

	return merged
}

// fanOut issues every call concurrently with a per-call timeout, waits for
// all of them to settle, and merges the successful result sets in call
// order. A failed or timed-out call contributes an empty set.
func (s *SearchService) fanOut(ctx context.Context, calls []searchCall, center models.Coordinate, placeType string, radiusMeters, limit int) ([]models.Place, bool) {
	type settled struct {
		index  int
		places []models.Place
		err    error
	}

	results := make(chan settled, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(idx int, c searchCall) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			var places []models.Place
			var err error
			if c.keyword != "" {
				places, err = c.provider.SearchByKeyword(callCtx, center, c.keyword, radiusMeters, limit)
			} else {
				places, err = c.provider.SearchNearby(callCtx, center, placeType, radiusMeters, limit)
			}
			results <- settled{index: idx, places: places, err: err}
		}(i, call)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	perCall := make([][]models.Place, len(calls))
	anySucceeded := false
	for res := range results {
		if res.err != nil {
			log.Warn().Err(res.err).Str("provider", calls[res.index].provider.Name()).
				Msg("place search call failed, treating as empty")
			continue
		}
		perCall[res.index] = res.places
		anySucceeded = true
	}

	var merged []models.Place
	for _, places := range perCall {
		merged = MergePlaces(merged, places)
	}
	return merged, anySucceeded
}
