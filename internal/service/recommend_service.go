package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"meetpoint-api/internal/models"
)

// ScoringOracle interface for dependency injection
type ScoringOracle interface {
	Score(ctx context.Context, contextText, instruction string) (string, error)
}

const oracleInstruction = `You rank candidate meeting places for a group of people.
Score each numbered place from 1 (poor) to 10 (excellent) considering transit
accessibility for every participant, place quality and the stated preferences.
Respond with ONLY a JSON array, one object per recommended place:
[{"placeIndex": <1-based index from the list>, "score": <1-10>, "reason": "<one sentence>"}]`

const defaultAccessibilityScore = 5.0

// RecommendService ranks the analyzed places. The primary path asks the
// scoring oracle for scored, explained picks; any oracle failure or
// unparseable output degrades to a deterministic accessibility-based
// ranking. It never surfaces an error to the caller.
type RecommendService struct {
	oracle ScoringOracle
}

// NewRecommendService creates a recommendation service. A nil oracle means
// the heuristic ranking is always used.
func NewRecommendService(oracle ScoringOracle) *RecommendService {
	return &RecommendService{oracle: oracle}
}

// oracleEntry is one element of the oracle's expected JSON array.
type oracleEntry struct {
	PlaceIndex int     `json:"placeIndex"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

// Recommend returns the top places, ranked and truncated to maxResults.
func (s *RecommendService) Recommend(ctx context.Context, places []models.Place, center models.Coordinate, addresses []string, placeType, preferences string, maxResults int) []models.Place {
	if len(places) == 0 {
		return []models.Place{}
	}

	if s.oracle == nil {
		return fallbackRanking(places, maxResults)
	}

	raw, err := s.oracle.Score(ctx, buildOracleContext(places, addresses, placeType, preferences), oracleInstruction)
	if err != nil {
		log.Warn().Err(err).Msg("scoring oracle unavailable, using accessibility ranking")
		return fallbackRanking(places, maxResults)
	}

	entries := parseOracleEntries(raw, len(places))
	if len(entries) == 0 {
		log.Warn().Str("raw", truncateForLog(raw)).
			Msg("no valid entries in oracle output, using accessibility ranking")
		return fallbackRanking(places, maxResults)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	ranked := make([]models.Place, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.PlaceIndex] {
			continue
		}
		seen[e.PlaceIndex] = true

		place := places[e.PlaceIndex-1]
		score := e.Score
		place.AIRecommendationScore = &score
		place.AIAnalysis = e.Reason
		ranked = append(ranked, place)
		if len(ranked) == maxResults {
			break
		}
	}
	return ranked
}

// buildOracleContext serializes the candidate places into the numbered
// textual context the oracle scores against.
func buildOracleContext(places []models.Place, addresses []string, placeType, preferences string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Participants start from %d addresses: %s\n", len(addresses), strings.Join(addresses, "; "))
	if placeType != "" {
		fmt.Fprintf(&b, "Requested place type: %s\n", placeType)
	}
	if preferences != "" {
		fmt.Fprintf(&b, "Preferences: %s\n", preferences)
	}
	b.WriteString("Candidate places:\n")

	for i, p := range places {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		if p.Category != "" {
			fmt.Fprintf(&b, " (%s)", p.Category)
		}
		fmt.Fprintf(&b, " - %s, %dm from center", p.Address, p.DistanceFromCenter)
		if p.Rating != nil {
			fmt.Fprintf(&b, ", rating %.1f/5 (%d reviews)", *p.Rating, p.RatingCount)
		}
		if p.BusinessStatus != "" {
			fmt.Fprintf(&b, ", status %s", p.BusinessStatus)
		}
		if p.PriceLevel != nil {
			fmt.Fprintf(&b, ", price level %d/4", *p.PriceLevel)
		}
		if p.OpenNow != nil {
			if *p.OpenNow {
				b.WriteString(", open now")
			} else {
				b.WriteString(", closed now")
			}
		}
		if acc := p.TransportationAccessibility; acc != nil {
			fmt.Fprintf(&b, ", avg transit %d min, accessibility %.0f/10",
				acc.AverageTransitTime, acc.AccessibilityScore)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// parseOracleEntries extracts the first well-formed JSON array from the raw
// oracle output and validates each element independently, discarding rather
// than failing on bad entries.
func parseOracleEntries(raw string, placeCount int) []oracleEntry {
	arrayText, ok := extractJSONArray(raw)
	if !ok {
		return nil
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal([]byte(arrayText), &rawEntries); err != nil {
		return nil
	}

	entries := make([]oracleEntry, 0, len(rawEntries))
	for _, rawEntry := range rawEntries {
		var e oracleEntry
		if err := json.Unmarshal(rawEntry, &e); err != nil {
			log.Debug().Err(err).Msg("discarding malformed oracle entry")
			continue
		}
		if e.PlaceIndex < 1 || e.PlaceIndex > placeCount || e.Reason == "" {
			log.Debug().Int("placeIndex", e.PlaceIndex).Msg("discarding out-of-range oracle entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// extractJSONArray returns the first balanced [...] substring of s. Bracket
// depth is tracked outside JSON string literals so brackets inside reasons
// do not truncate the array.
func extractJSONArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// fallbackRanking sorts by accessibility score descending, treating places
// without a summary as middling rather than worst.
func fallbackRanking(places []models.Place, maxResults int) []models.Place {
	ranked := make([]models.Place, len(places))
	copy(ranked, places)

	sort.SliceStable(ranked, func(i, j int) bool {
		return heuristicScore(ranked[i]) > heuristicScore(ranked[j])
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

func heuristicScore(p models.Place) float64 {
	if p.TransportationAccessibility == nil {
		return defaultAccessibilityScore
	}
	return p.TransportationAccessibility.AccessibilityScore
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
