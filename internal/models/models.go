package models

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"` // -90 to 90
	Lng float64 `json:"lng"` // -180 to 180
}

// Accuracy describes how a geocoding provider matched an address.
type Accuracy string

const (
	AccuracyRoadAddress Accuracy = "ROAD_ADDRESS"
	AccuracyLandLot     Accuracy = "LAND_LOT"
)

// GeocodeResult is the resolved form of one input address.
type GeocodeResult struct {
	OriginalAddress  string     `json:"original_address"`
	FormattedAddress string     `json:"formatted_address"`
	Coordinates      Coordinate `json:"coordinates"`
	Accuracy         Accuracy   `json:"accuracy"`
}

// CenterPoint is the fairness-neutral anchor derived from all resolved
// addresses, with a best-effort human-readable label.
type CenterPoint struct {
	Coordinates  Coordinate `json:"coordinates"`
	Address      string     `json:"address"`
	AddressCount int        `json:"address_count"`
}

// PlaceSource identifies which search provider produced a place record.
type PlaceSource string

const (
	SourceKakao  PlaceSource = "kakao"
	SourceNaver  PlaceSource = "naver"
	SourceGoogle PlaceSource = "google"
)

// Place is a candidate meeting place. It is created by a search provider
// transform and progressively enriched as it moves through the pipeline:
// the accessibility analyzer attaches TransportationAccessibility and the
// recommendation engine attaches AIRecommendationScore / AIAnalysis.
type Place struct {
	Name               string      `json:"name"`
	Address            string      `json:"address"`
	RoadAddress        string      `json:"road_address,omitempty"`
	Coordinates        Coordinate  `json:"coordinates"`
	Category           string      `json:"category,omitempty"`
	Rating             *float64    `json:"rating,omitempty"`
	RatingCount        int         `json:"rating_count,omitempty"`
	DistanceFromCenter int         `json:"distance_from_center"` // meters
	Phone              string      `json:"phone,omitempty"`
	URL                string      `json:"url,omitempty"`
	Source             PlaceSource `json:"source"`
	BusinessStatus     string      `json:"business_status,omitempty"`
	PriceLevel         *int        `json:"price_level,omitempty"`
	OpenNow            *bool       `json:"open_now,omitempty"`

	TransportationAccessibility *AccessibilitySummary `json:"transportation_accessibility,omitempty"`
	AIRecommendationScore       *float64              `json:"ai_recommendation_score,omitempty"`
	AIAnalysis                  string                `json:"ai_analysis,omitempty"`
}

// TransitLeg is one (origin address, place) transit calculation.
type TransitLeg struct {
	Origin          string `json:"origin"`
	TransitTime     string `json:"transit_time"`
	TransitDistance string `json:"transit_distance"`
	TransitMode     string `json:"transit_mode"`
	DurationSeconds int    `json:"duration_seconds"`
	DistanceMeters  int    `json:"distance_meters"`
}

// Calculation methods for an accessibility summary.
const (
	CalculationProviderAPI = "provider_api"
	CalculationEstimated   = "estimated"
)

// AccessibilitySummary aggregates all transit legs from the participant
// addresses to a single place.
type AccessibilitySummary struct {
	AverageTransitTime int          `json:"average_transit_time"` // minutes
	AccessibilityScore float64      `json:"accessibility_score"`  // 1..10
	FromAddresses      []TransitLeg `json:"from_addresses"`
	CalculationMethod  string       `json:"calculation_method"`
}

// TransitEstimate is a single cell of a transit matrix as returned by a
// transit provider: one origin against one destination.
type TransitEstimate struct {
	DurationSeconds int
	DistanceMeters  int
	OK              bool
}

// Diagnostics summarizes the transit-matrix work done for one request.
type Diagnostics struct {
	TransitCalculations    int     `json:"transit_calculations"`
	MeanAccessibilityScore float64 `json:"mean_accessibility_score"`
	BestAccessibilityPlace string  `json:"best_accessibility_place,omitempty"`
}

// RecommendationRequest carries the validated input of one recommendation
// pipeline run. Zero values for Radius and MaxResults mean "use defaults".
type RecommendationRequest struct {
	Addresses    []string `json:"addresses"`
	PlaceType    string   `json:"place_type,omitempty"`
	RadiusMeters int      `json:"radius_meters,omitempty"`
	MaxResults   int      `json:"max_results,omitempty"`
	Preferences  string   `json:"preferences,omitempty"`
}

// RecommendationResult is the final output of the pipeline.
type RecommendationResult struct {
	CenterPoint     CenterPoint `json:"center_point"`
	Recommendations []Place     `json:"recommendations"`
	Diagnostics     Diagnostics `json:"diagnostics"`
}
