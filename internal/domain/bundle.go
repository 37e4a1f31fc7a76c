package domain

// CategoryStatus distinguishes the reasons a category may have no
// recommendation: the caller can tell "searched, found nothing" from
// "not searched" and from "search failed".
type CategoryStatus string

const (
	CategoryStatusRecommended CategoryStatus = "recommended"
	CategoryStatusEmpty       CategoryStatus = "unavailable"
	CategoryStatusError       CategoryStatus = "error"
	CategoryStatusNotSearched CategoryStatus = "not_searched"
)

// CategoryOutcome reports one category's fate in the final bundle.
type CategoryOutcome struct {
	Status CategoryStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// BundleSummary carries the per-category candidate counts.
type BundleSummary struct {
	FlightCount     int `json:"flight_count"`
	HotelCount      int `json:"hotel_count"`
	CarCount        int `json:"car_count"`
	RestaurantCount int `json:"restaurant_count"`
}

// RecommendationBundle is the single output of a planning run. A bundle is
// always produced, even when every search failed; missing categories show an
// explicit outcome marker rather than being omitted.
type RecommendationBundle struct {
	Request TripRequest   `json:"request"`
	Summary BundleSummary `json:"summary"`

	RecommendedFlight     *GoalScore        `json:"recommended_flight,omitempty"`
	RecommendedHotel      *ScoredHotel      `json:"recommended_hotel,omitempty"`
	RecommendedCar        *ScoredCar        `json:"recommended_car,omitempty"`
	RecommendedRestaurant *ScoredRestaurant `json:"recommended_restaurant,omitempty"`

	// TotalCostEstimate sums each category's chosen offer, with missing
	// categories contributing zero.
	TotalCostEstimate float64 `json:"total_cost_estimate"`
	Currency          string  `json:"currency,omitempty"`

	GoalEvaluation    *GoalEvaluation    `json:"goal_evaluation,omitempty"`
	HotelRanking      []ScoredHotel      `json:"hotel_ranking,omitempty"`
	CarRanking        []ScoredCar        `json:"car_ranking,omitempty"`
	RestaurantRanking []ScoredRestaurant `json:"restaurant_ranking,omitempty"`

	Outcomes map[OfferKind]CategoryOutcome `json:"outcomes"`
	Errors   []StageError                  `json:"errors,omitempty"`

	// Context is the grounding text retrieved for the request's subject,
	// empty when no history applies.
	Context string `json:"context,omitempty"`
}
