package domain

// BudgetStatus labels a goal score relative to the budget target.
type BudgetStatus string

const (
	BudgetStatusWithin BudgetStatus = "within budget"
	BudgetStatusOver   BudgetStatus = "over budget"
)

// RecommendationTier is the human-readable band derived from a combined score.
type RecommendationTier string

const (
	TierExcellent RecommendationTier = "excellent"
	TierGood      RecommendationTier = "good"
	TierFair      RecommendationTier = "fair"
	TierPoor      RecommendationTier = "poor"
)

// SubScore is one named component of a utility score.
type SubScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScoreResult holds the evaluation of a single offer: its sub-scores, the
// combined score, and the recommendation tier. Derived every run, never persisted.
// Price is the resolved amount the score was computed from; it may differ
// from the offer's numeric field when only a raw price string was provided.
type ScoreResult struct {
	OfferID       string             `json:"offer_id"`
	Kind          OfferKind          `json:"kind"`
	Price         float64            `json:"price"`
	SubScores     []SubScore         `json:"sub_scores"`
	CombinedScore float64            `json:"combined_score"`
	Tier          RecommendationTier `json:"tier"`
}

// Sub returns the value of the named sub-score, or 0 if absent.
func (s ScoreResult) Sub(name string) float64 {
	for _, sub := range s.SubScores {
		if sub.Name == name {
			return sub.Value
		}
	}
	return 0
}

// GoalScore is the budget-goal evaluation of a single flight offer.
type GoalScore struct {
	Offer  FlightOffer  `json:"offer"`
	Price  float64      `json:"price"`
	Score  float64      `json:"score"`
	Status BudgetStatus `json:"status"`
}

// GoalEvaluation reports the two extremes of a flight list against a budget
// target: the cheapest offer and the most expensive alternative. An empty
// input is a legitimate outcome, reported through Skipped rather than an error.
type GoalEvaluation struct {
	Budget        float64    `json:"budget"`
	PenaltyFactor float64    `json:"penalty_factor"`
	Cheapest      *GoalScore `json:"cheapest,omitempty"`
	MostExpensive *GoalScore `json:"most_expensive,omitempty"`
	Skipped       bool       `json:"skipped,omitempty"`
	SkippedReason string     `json:"skipped_reason,omitempty"`
}

// ScoredHotel pairs a hotel offer with its utility evaluation.
type ScoredHotel struct {
	Offer HotelOffer  `json:"offer"`
	Score ScoreResult `json:"score"`
}

// ScoredCar pairs a car offer with its utility evaluation.
type ScoredCar struct {
	Offer CarOffer    `json:"offer"`
	Score ScoreResult `json:"score"`
}

// ScoredRestaurant pairs a restaurant offer with its utility evaluation.
type ScoredRestaurant struct {
	Offer RestaurantOffer `json:"offer"`
	Score ScoreResult     `json:"score"`
}
