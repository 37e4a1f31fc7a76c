package scoring

import (
	"sort"
	"strings"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// Sub-score names used in ScoreResult entries.
const (
	SubScorePrice       = "price_utility"
	SubScoreRating      = "rating_utility"
	SubScoreCarType     = "type_utility"
	SubScoreReviewBonus = "review_bonus"
)

// reviewBonusThreshold is the review count above which a restaurant earns a
// flat bonus.
const reviewBonusThreshold = 100

// UtilityEvaluator ranks hotels, cars, and restaurants by additive
// piecewise-linear sub-scores, each centered at 0 for a moderate tier.
// Offers without a positive price are filtered before scoring and ranking
// is descending by combined score with a deterministic tie-break: lower
// price first, then higher rating.
type UtilityEvaluator struct{}

// NewUtilityEvaluator creates a UtilityEvaluator.
func NewUtilityEvaluator() *UtilityEvaluator {
	return &UtilityEvaluator{}
}

// EvaluateHotels scores and ranks hotel offers by nightly price and star
// rating.
func (e *UtilityEvaluator) EvaluateHotels(offers []domain.HotelOffer) []domain.ScoredHotel {
	scored := make([]domain.ScoredHotel, 0, len(offers))
	for _, offer := range offers {
		price := resolvePrice(offer.PricePerNight, offer.RawPrice)
		if price <= 0 {
			continue
		}
		subScores := []domain.SubScore{
			{Name: SubScorePrice, Value: HotelPriceUtility(price)},
			{Name: SubScoreRating, Value: RatingUtility(offer.Stars)},
		}
		scored = append(scored, domain.ScoredHotel{
			Offer: offer,
			Score: buildScore(offer.ID, domain.OfferKindHotel, price, subScores),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return lessRanked(
			scored[i].Score.CombinedScore, scored[i].Score.Price, scored[i].Offer.Stars,
			scored[j].Score.CombinedScore, scored[j].Score.Price, scored[j].Offer.Stars,
		)
	})
	return scored
}

// EvaluateCars scores and ranks car offers by daily price and vehicle class.
func (e *UtilityEvaluator) EvaluateCars(offers []domain.CarOffer) []domain.ScoredCar {
	scored := make([]domain.ScoredCar, 0, len(offers))
	for _, offer := range offers {
		price := resolvePrice(offer.PricePerDay, offer.RawPrice)
		if price <= 0 {
			continue
		}
		subScores := []domain.SubScore{
			{Name: SubScorePrice, Value: CarPriceUtility(price)},
			{Name: SubScoreCarType, Value: CarTypeUtility(offer.CarType)},
		}
		scored = append(scored, domain.ScoredCar{
			Offer: offer,
			Score: buildScore(offer.ID, domain.OfferKindCar, price, subScores),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return lessRanked(
			scored[i].Score.CombinedScore, scored[i].Score.Price, scored[i].Offer.Rating,
			scored[j].Score.CombinedScore, scored[j].Score.Price, scored[j].Offer.Rating,
		)
	})
	return scored
}

// EvaluateRestaurants scores and ranks restaurant offers by rating, with a
// flat bonus for a large review volume.
func (e *UtilityEvaluator) EvaluateRestaurants(offers []domain.RestaurantOffer) []domain.ScoredRestaurant {
	scored := make([]domain.ScoredRestaurant, 0, len(offers))
	for _, offer := range offers {
		price := resolvePrice(offer.AveragePrice, offer.RawPrice)
		if price <= 0 {
			continue
		}
		subScores := []domain.SubScore{
			{Name: SubScoreRating, Value: RatingUtility(offer.Rating)},
		}
		if offer.ReviewCount > reviewBonusThreshold {
			subScores = append(subScores, domain.SubScore{Name: SubScoreReviewBonus, Value: 5})
		}
		scored = append(scored, domain.ScoredRestaurant{
			Offer: offer,
			Score: buildScore(offer.ID, domain.OfferKindRestaurant, price, subScores),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return lessRanked(
			scored[i].Score.CombinedScore, scored[i].Score.Price, scored[i].Offer.Rating,
			scored[j].Score.CombinedScore, scored[j].Score.Price, scored[j].Offer.Rating,
		)
	})
	return scored
}

// HotelPriceUtility maps a nightly rate to its piecewise band.
func HotelPriceUtility(pricePerNight float64) float64 {
	switch {
	case pricePerNight >= 250:
		return -40
	case pricePerNight >= 180:
		return -20
	case pricePerNight >= 150:
		return 0
	case pricePerNight >= 120:
		return 20
	default:
		return 40
	}
}

// CarPriceUtility maps a daily rate to its piecewise band.
func CarPriceUtility(pricePerDay float64) float64 {
	switch {
	case pricePerDay >= 100:
		return -40
	case pricePerDay >= 70:
		return -20
	case pricePerDay >= 50:
		return 0
	case pricePerDay >= 30:
		return 20
	default:
		return 40
	}
}

// RatingUtility maps a star rating to its band. Thresholds sit halfway
// between whole stars so fractional ratings land in the nearest band.
func RatingUtility(rating float64) float64 {
	switch {
	case rating >= 4.5:
		return 40
	case rating >= 3.5:
		return 20
	case rating >= 2.5:
		return 0
	case rating >= 1.5:
		return -20
	default:
		return -40
	}
}

// CarTypeUtility maps a vehicle class to its band. Unknown classes score
// the lowest band.
func CarTypeUtility(carType string) float64 {
	switch strings.ToLower(strings.TrimSpace(carType)) {
	case "economy", "compact":
		return 20
	case "midsize", "mid-size", "intermediate":
		return 10
	case "suv", "fullsize", "full-size":
		return 0
	case "luxury", "premium":
		return -10
	default:
		return -20
	}
}

func buildScore(offerID string, kind domain.OfferKind, price float64, subScores []domain.SubScore) domain.ScoreResult {
	var combined float64
	for _, s := range subScores {
		combined += s.Value
	}
	return domain.ScoreResult{
		OfferID:       offerID,
		Kind:          kind,
		Price:         price,
		SubScores:     subScores,
		CombinedScore: combined,
		Tier:          TierFor(kind, combined),
	}
}

// lessRanked orders by descending combined score, then ascending price, then
// descending rating. The secondary keys make equal-score orderings
// deterministic instead of depending on input order.
func lessRanked(scoreI, priceI, ratingI, scoreJ, priceJ, ratingJ float64) bool {
	if scoreI != scoreJ {
		return scoreI > scoreJ
	}
	if priceI != priceJ {
		return priceI < priceJ
	}
	return ratingI > ratingJ
}

func resolvePrice(resolved float64, raw string) float64 {
	if resolved > 0 {
		return resolved
	}
	if raw != "" {
		if price, err := domain.ParsePrice(raw); err == nil {
			return price
		}
	}
	return 0
}
