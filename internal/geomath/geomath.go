// Package geomath provides the pure geometry and string-distance helpers
// used by the recommendation pipeline. No I/O.
package geomath

import (
	"errors"

	"github.com/golang/geo/s2"

	"meetpoint-api/internal/models"
)

// EarthRadiusMeters is Earth's mean radius.
const EarthRadiusMeters = 6371000.0

// ErrNoPoints is returned by Centroid for an empty point set.
var ErrNoPoints = errors.New("geomath: centroid of empty point set")

// Centroid returns the arithmetic mean coordinate of the given points.
// A single point is returned unchanged to avoid floating round-trip noise.
func Centroid(points []models.Coordinate) (models.Coordinate, error) {
	if len(points) == 0 {
		return models.Coordinate{}, ErrNoPoints
	}
	if len(points) == 1 {
		return points[0], nil
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return models.Coordinate{Lat: sumLat / n, Lng: sumLng / n}, nil
}

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(a, b models.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// EditDistance returns the Levenshtein distance between a and b
// (insert/delete/substitute, unit cost each).
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// StringSimilarity returns 1 - editDistance/maxLen, in [0,1].
// Two empty strings are considered identical.
func StringSimilarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1.0 - float64(EditDistance(a, b))/float64(longest)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
