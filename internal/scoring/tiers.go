package scoring

import "github.com/tripweave-ai/tripweave/internal/domain"

// Tier bands per offer category. Each category's achievable score range
// differs (hotels combine two ±40 sub-scores, cars a ±40 and a +20/−20,
// restaurants a ±40 plus a +5 bonus), so the bands are fixed per category
// rather than shared.
var tierBands = map[domain.OfferKind][3]float64{
	// excellent >= first, good >= second, fair >= third, else poor
	domain.OfferKindHotel:      {60, 20, -20},
	domain.OfferKindCar:        {40, 10, -20},
	domain.OfferKindRestaurant: {30, 10, -10},
}

// TierFor maps a combined score to the category's recommendation tier.
func TierFor(kind domain.OfferKind, combined float64) domain.RecommendationTier {
	bands, ok := tierBands[kind]
	if !ok {
		bands = tierBands[domain.OfferKindHotel]
	}
	switch {
	case combined >= bands[0]:
		return domain.TierExcellent
	case combined >= bands[1]:
		return domain.TierGood
	case combined >= bands[2]:
		return domain.TierFair
	default:
		return domain.TierPoor
	}
}
