package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripweave-ai/tripweave/internal/domain"
)

func TestGoalEvaluator_RewardAndPenalty(t *testing.T) {
	evaluator := NewGoalEvaluator(0.1)

	offers := []domain.FlightOffer{
		{ID: "f1", Airline: "AA", Price: 180},
		{ID: "f2", Airline: "BB", Price: 340},
	}

	eval := evaluator.Evaluate(offers, 200)

	assert.False(t, eval.Skipped)
	assert.NotNil(t, eval.Cheapest)
	assert.NotNil(t, eval.MostExpensive)

	// (200-180)*0.9 = 18.0
	assert.Equal(t, "f1", eval.Cheapest.Offer.ID)
	assert.InDelta(t, 18.0, eval.Cheapest.Score, 1e-9)
	assert.Equal(t, domain.BudgetStatusWithin, eval.Cheapest.Status)

	// -(340-200)*0.1 = -14.0
	assert.Equal(t, "f2", eval.MostExpensive.Offer.ID)
	assert.InDelta(t, -14.0, eval.MostExpensive.Score, 1e-9)
	assert.Equal(t, domain.BudgetStatusOver, eval.MostExpensive.Status)
}

func TestGoalEvaluator_SignFlipAtBudget(t *testing.T) {
	for _, penalty := range []float64{0.05, 0.1, 0.5, 0.99} {
		evaluator := NewGoalEvaluator(penalty)

		within := evaluator.Evaluate([]domain.FlightOffer{{ID: "f", Price: 199.99}}, 200)
		assert.GreaterOrEqual(t, within.Cheapest.Score, 0.0, "penalty %v", penalty)
		assert.Equal(t, domain.BudgetStatusWithin, within.Cheapest.Status)

		atBudget := evaluator.Evaluate([]domain.FlightOffer{{ID: "f", Price: 200}}, 200)
		assert.GreaterOrEqual(t, atBudget.Cheapest.Score, 0.0, "penalty %v", penalty)

		over := evaluator.Evaluate([]domain.FlightOffer{{ID: "f", Price: 200.01}}, 200)
		assert.Less(t, over.Cheapest.Score, 0.0, "penalty %v", penalty)
		assert.Equal(t, domain.BudgetStatusOver, over.Cheapest.Status)
	}
}

func TestGoalEvaluator_ParsesRawProviderPrices(t *testing.T) {
	evaluator := NewGoalEvaluator(0)

	offers := []domain.FlightOffer{
		{ID: "f1", RawPrice: "$1,180.50"},
		{ID: "f2", RawPrice: "USD 340"},
	}

	eval := evaluator.Evaluate(offers, 500)

	assert.Equal(t, "f2", eval.Cheapest.Offer.ID)
	assert.InDelta(t, 340.0, eval.Cheapest.Price, 1e-9)
	assert.Equal(t, "f1", eval.MostExpensive.Offer.ID)
	assert.InDelta(t, 1180.50, eval.MostExpensive.Price, 1e-9)
}

func TestGoalEvaluator_SkipsWhenNoPricedOffers(t *testing.T) {
	evaluator := NewGoalEvaluator(0.1)

	eval := evaluator.Evaluate(nil, 200)
	assert.True(t, eval.Skipped)
	assert.Nil(t, eval.Cheapest)
	assert.Nil(t, eval.MostExpensive)

	eval = evaluator.Evaluate([]domain.FlightOffer{
		{ID: "f1", Price: 0},
		{ID: "f2", RawPrice: "call us"},
	}, 200)
	assert.True(t, eval.Skipped)
	assert.NotEmpty(t, eval.SkippedReason)
}

func TestGoalEvaluator_SingleOfferIsBothExtremes(t *testing.T) {
	evaluator := NewGoalEvaluator(0.1)

	eval := evaluator.Evaluate([]domain.FlightOffer{{ID: "only", Price: 150}}, 200)

	assert.Equal(t, "only", eval.Cheapest.Offer.ID)
	assert.Equal(t, "only", eval.MostExpensive.Offer.ID)
	assert.InDelta(t, eval.Cheapest.Score, eval.MostExpensive.Score, 1e-9)
}

func TestGoalEvaluator_DefaultPenaltyFactor(t *testing.T) {
	evaluator := NewGoalEvaluator(0)
	eval := evaluator.Evaluate([]domain.FlightOffer{{ID: "f", Price: 100}}, 200)
	assert.InDelta(t, DefaultPenaltyFactor, eval.PenaltyFactor, 1e-9)
	// (200-100)*(1-0.1) = 90
	assert.InDelta(t, 90.0, eval.Cheapest.Score, 1e-9)
}
