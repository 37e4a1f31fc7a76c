// Package scoring holds the two offer-ranking engines: the budget-goal
// evaluator for flights and the piecewise utility evaluator for hotels,
// cars, and restaurants.
package scoring

import (
	"fmt"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// DefaultPenaltyFactor is the fraction applied to budget overage and withheld
// from budget savings.
const DefaultPenaltyFactor = 0.1

// GoalEvaluator ranks flight offers against a budget target with an
// asymmetric reward/penalty: savings earn a discounted reward, overage earns
// a small strictly negative penalty.
type GoalEvaluator struct {
	penaltyFactor float64
}

// NewGoalEvaluator creates a GoalEvaluator. A non-positive penalty factor
// falls back to the default.
func NewGoalEvaluator(penaltyFactor float64) *GoalEvaluator {
	if penaltyFactor <= 0 {
		penaltyFactor = DefaultPenaltyFactor
	}
	return &GoalEvaluator{penaltyFactor: penaltyFactor}
}

// Evaluate scores the cheapest and most expensive priced offers against the
// budget. Only the two extremes are evaluated: the pipeline needs a best pick
// and a worst-case alternative, not the whole set. Offers without a resolved
// positive price are excluded; an empty result is reported via Skipped.
func (e *GoalEvaluator) Evaluate(offers []domain.FlightOffer, budget float64) domain.GoalEvaluation {
	eval := domain.GoalEvaluation{
		Budget:        budget,
		PenaltyFactor: e.penaltyFactor,
	}

	type priced struct {
		offer domain.FlightOffer
		price float64
	}
	candidates := make([]priced, 0, len(offers))
	for _, offer := range offers {
		price, ok := resolveFlightPrice(offer)
		if !ok {
			continue
		}
		candidates = append(candidates, priced{offer: offer, price: price})
	}

	if len(candidates) == 0 {
		eval.Skipped = true
		eval.SkippedReason = "no priced flights to evaluate"
		return eval
	}

	cheapest := candidates[0]
	expensive := candidates[0]
	for _, c := range candidates[1:] {
		if c.price < cheapest.price {
			cheapest = c
		}
		if c.price > expensive.price {
			expensive = c
		}
	}

	eval.Cheapest = e.scoreOffer(cheapest.offer, cheapest.price, budget)
	eval.MostExpensive = e.scoreOffer(expensive.offer, expensive.price, budget)
	return eval
}

func (e *GoalEvaluator) scoreOffer(offer domain.FlightOffer, price, budget float64) *domain.GoalScore {
	excess := price - budget

	score := &domain.GoalScore{Offer: offer, Price: price}
	if excess <= 0 {
		score.Score = -excess * (1 - e.penaltyFactor)
		score.Status = domain.BudgetStatusWithin
	} else {
		score.Score = -excess * e.penaltyFactor
		score.Status = domain.BudgetStatusOver
	}
	return score
}

// resolveFlightPrice returns the offer's numeric price, parsing the raw
// provider string when the resolved field is unset. A zero or unresolved
// price excludes the offer: missing provider data must never rank as free.
func resolveFlightPrice(offer domain.FlightOffer) (float64, bool) {
	if offer.Price > 0 {
		return offer.Price, true
	}
	if offer.RawPrice != "" {
		price, err := domain.ParsePrice(offer.RawPrice)
		if err == nil && price > 0 {
			return price, true
		}
	}
	return 0, false
}

// Summary renders a one-line description of a goal score for logs and
// grounding text.
func Summary(s *domain.GoalScore) string {
	if s == nil {
		return "no offer evaluated"
	}
	return fmt.Sprintf("%s %s at %.2f (%s, score %.1f)",
		s.Offer.Airline, s.Offer.FlightNo, s.Price, s.Status, s.Score)
}
