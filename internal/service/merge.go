package service

import (
	"meetpoint-api/internal/geomath"
	"meetpoint-api/internal/models"
)

// Dedup thresholds. Both must hold for two records to be considered the
// same place: two distinct shops can share a generic name, and two distinct
// shops can sit in the same building.
const (
	nameSimilarityThreshold  = 0.7
	proximityThresholdMeters = 100.0
)

// MergePlaces combines candidate lists from two providers. Every primary
// record is kept; a secondary record is appended only when no record in the
// accumulating result matches it. On a match the primary-side record wins
// and the secondary duplicate is dropped without metadata reconciliation.
func MergePlaces(primary, secondary []models.Place) []models.Place {
	merged := make([]models.Place, 0, len(primary)+len(secondary))
	merged = append(merged, primary...)

	for _, candidate := range secondary {
		if !containsMatch(merged, candidate) {
			merged = append(merged, candidate)
		}
	}
	return merged
}

func containsMatch(places []models.Place, candidate models.Place) bool {
	for _, p := range places {
		if isSamePlace(p, candidate) {
			return true
		}
	}
	return false
}

func isSamePlace(a, b models.Place) bool {
	if geomath.StringSimilarity(a.Name, b.Name) <= nameSimilarityThreshold {
		return false
	}
	return geomath.HaversineDistance(a.Coordinates, b.Coordinates) < proximityThresholdMeters
}
