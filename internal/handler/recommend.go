package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetpoint-api/internal/models"
)

// RecommendationService interface for dependency injection
type RecommendationService interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error)
}

// RecommendHandler handles meeting-place recommendation requests
type RecommendHandler struct {
	service RecommendationService
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(svc RecommendationService) *RecommendHandler {
	return &RecommendHandler{service: svc}
}

// recommendRequest is the request body for POST /api/v1/recommendations
type recommendRequest struct {
	Addresses    []string `json:"addresses" binding:"required"`
	PlaceType    string   `json:"place_type"`
	RadiusMeters int      `json:"radius_meters"`
	MaxResults   int      `json:"max_results"`
	Preferences  string   `json:"preferences"`
}

// Recommend godoc
// @Summary      Recommend meeting places for a group of addresses
// @Description  Geocodes every address, finds candidate places around the group centroid and returns them ranked by transit accessibility and AI scoring
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request body recommendRequest true "Recommendation request"
// @Success      200 {object} models.RecommendationResult
// @Failure      400 {object} map[string]string
// @Failure      422 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/v1/recommendations [post]
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), models.RecommendationRequest{
		Addresses:    req.Addresses,
		PlaceType:    req.PlaceType,
		RadiusMeters: req.RadiusMeters,
		MaxResults:   req.MaxResults,
		Preferences:  req.Preferences,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusFor maps the pipeline error taxonomy to HTTP statuses: input errors
// are the caller's fault, exhausted geocoding means the addresses could not
// be resolved, anything else is internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyAddressList),
		errors.Is(err, models.ErrTooManyAddresses),
		errors.Is(err, models.ErrRadiusOutOfRange),
		errors.Is(err, models.ErrMaxResultsRange):
		return http.StatusBadRequest
	}

	var exhausted *models.GeocodingExhaustedError
	if errors.As(err, &exhausted) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
