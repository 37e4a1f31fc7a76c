package pipeline

import (
	"context"
	"fmt"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// contextTopK is how many chunks of subject history ground the bundle.
const contextTopK = 5

// synthesize merges every slot into the final bundle: summary counts, one
// recommended offer per category, the total-cost estimate, the full
// rankings, and every per-stage error.
func (p *Pipeline) synthesize(ctx context.Context, state domain.PlanningState) domain.RecommendationBundle {
	bundle := domain.RecommendationBundle{
		Request:  state.Request,
		Currency: state.Request.Currency,
		Errors:   state.Errors(),
		Outcomes: map[domain.OfferKind]domain.CategoryOutcome{},
	}

	if state.Flights.OK() {
		bundle.Summary.FlightCount = len(state.Flights.Value)
	}
	if state.Hotels.OK() {
		bundle.Summary.HotelCount = len(state.Hotels.Value)
	}
	if state.Cars.OK() {
		bundle.Summary.CarCount = len(state.Cars.Value)
	}

	if state.GoalEvaluation.OK() {
		eval := state.GoalEvaluation.Value
		bundle.GoalEvaluation = &eval
		if eval.Cheapest != nil {
			bundle.RecommendedFlight = eval.Cheapest
			bundle.TotalCostEstimate += eval.Cheapest.Price
		}
	}
	bundle.Outcomes[domain.OfferKindFlight] = outcomeFor(state.Flights.Done, state.Flights.Err, bundle.RecommendedFlight != nil)

	if state.UtilityEvaluation.OK() {
		bundle.HotelRanking = state.UtilityEvaluation.Value
		if len(bundle.HotelRanking) > 0 {
			top := bundle.HotelRanking[0]
			bundle.RecommendedHotel = &top
			bundle.TotalCostEstimate += top.Score.Price
		}
	}
	bundle.Outcomes[domain.OfferKindHotel] = outcomeFor(state.Hotels.Done, state.Hotels.Err, bundle.RecommendedHotel != nil)

	if state.CarEvaluation.OK() {
		bundle.CarRanking = state.CarEvaluation.Value
		if len(bundle.CarRanking) > 0 {
			top := bundle.CarRanking[0]
			bundle.RecommendedCar = &top
			bundle.TotalCostEstimate += top.Score.Price
		}
	}
	bundle.Outcomes[domain.OfferKindCar] = outcomeFor(state.Cars.Done, state.Cars.Err, bundle.RecommendedCar != nil)

	// The sequential pipeline does not search dining; the fan-out flavor
	// overlays its restaurant results after this returns.
	bundle.Outcomes[domain.OfferKindRestaurant] = domain.CategoryOutcome{Status: domain.CategoryStatusNotSearched}

	bundle.Context = p.retrieveContext(ctx, state.Request)
	return bundle
}

// outcomeFor derives the category marker so callers can distinguish
// "searched, found nothing" from "not searched" and from "failed".
func outcomeFor(searched bool, errMsg string, recommended bool) domain.CategoryOutcome {
	switch {
	case recommended:
		return domain.CategoryOutcome{Status: domain.CategoryStatusRecommended}
	case errMsg != "":
		return domain.CategoryOutcome{Status: domain.CategoryStatusError, Error: errMsg}
	case searched:
		return domain.CategoryOutcome{Status: domain.CategoryStatusEmpty}
	default:
		return domain.CategoryOutcome{Status: domain.CategoryStatusNotSearched}
	}
}

// retrieveContext grounds the bundle in the subject's history, degrading to
// an empty string when no retriever is wired or the subject is anonymous.
func (p *Pipeline) retrieveContext(ctx context.Context, req domain.TripRequest) string {
	if p.retriever == nil || req.SubjectID == "" {
		return ""
	}
	query := fmt.Sprintf("trip from %s to %s, preferences: %s",
		req.Origin, req.Destination, req.Preferences)
	return p.retriever.RetrieveContext(ctx, req.SubjectID, query, contextTopK, nil)
}
