// Package pipeline executes the staged planning run: three searches, three
// evaluations, and a terminal synthesis, threaded through one planning state.
// Stages never halt the run; a failed stage stores its error marker and the
// marker advances, because later stages tolerate missing inputs.
package pipeline

import (
	"context"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/fanout"
	"github.com/tripweave-ai/tripweave/internal/providers"
	"github.com/tripweave-ai/tripweave/internal/scoring"
)

// ContextRetriever supplies grounding text for the request's subject. A nil
// retriever or a failing one degrades to no grounding context.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) string
}

// Pipeline runs planning stages strictly sequentially over one state per
// run. The state is never shared across runs; each stage reads the previous
// stages' slots and the reducer builds the next state from the stage output.
type Pipeline struct {
	coordinator *fanout.Coordinator
	goal        *scoring.GoalEvaluator
	utility     *scoring.UtilityEvaluator
	retriever   ContextRetriever
}

// New creates a Pipeline. The retriever may be nil.
func New(coordinator *fanout.Coordinator, goal *scoring.GoalEvaluator, utility *scoring.UtilityEvaluator, retriever ContextRetriever) *Pipeline {
	return &Pipeline{
		coordinator: coordinator,
		goal:        goal,
		utility:     utility,
		retriever:   retriever,
	}
}

// Run executes all stages in order and always returns a bundle, even when
// every search failed: the contract is "always returns a bundle", never an
// unhandled failure for partial outcomes.
func (p *Pipeline) Run(ctx context.Context, req domain.TripRequest) domain.RecommendationBundle {
	state := domain.NewPlanningState(req)
	for state.Stage != domain.StageTerminal {
		state = p.step(ctx, state)
	}
	if state.Final == nil {
		// Synthesis always sets Final; this is a defensive empty bundle.
		bundle := p.synthesize(ctx, state)
		state.Final = &bundle
	}
	return *state.Final
}

// step is the reducer: it dispatches the current stage, writes exactly one
// slot on a copy of the state, and advances the marker.
func (p *Pipeline) step(ctx context.Context, state domain.PlanningState) domain.PlanningState {
	next := state

	switch state.Stage {
	case domain.StageFlightSearch:
		next.Flights = p.coordinator.LookupFlights(ctx, criteriaFor(state.Request))
	case domain.StageHotelSearch:
		next.Hotels = p.coordinator.LookupHotels(ctx, criteriaFor(state.Request))
	case domain.StageCarRentalSearch:
		next.Cars = p.coordinator.LookupCars(ctx, criteriaFor(state.Request))
	case domain.StageGoalEvaluation:
		next.GoalEvaluation = p.evaluateGoal(state)
	case domain.StageUtilityEvaluation:
		next.UtilityEvaluation = p.evaluateHotels(state)
	case domain.StageCarEvaluation:
		next.CarEvaluation = p.evaluateCars(state)
	case domain.StageSynthesis:
		bundle := p.synthesize(ctx, state)
		next.Final = &bundle
	}

	next.Stage = domain.NextStage(state.Stage)
	return next
}

// evaluateGoal scores flights against the budget. Missing or failed flight
// input is a valid evaluator outcome, reported as skipped rather than error.
func (p *Pipeline) evaluateGoal(state domain.PlanningState) domain.Result[domain.GoalEvaluation] {
	if !state.Flights.OK() {
		return domain.Ok(domain.GoalEvaluation{
			Budget:        state.Request.Budget,
			Skipped:       true,
			SkippedReason: "no flights to evaluate",
		})
	}
	return domain.Ok(p.goal.Evaluate(state.Flights.Value, state.Request.Budget))
}

func (p *Pipeline) evaluateHotels(state domain.PlanningState) domain.Result[[]domain.ScoredHotel] {
	if !state.Hotels.OK() {
		return domain.Ok([]domain.ScoredHotel(nil))
	}
	return domain.Ok(p.utility.EvaluateHotels(state.Hotels.Value))
}

func (p *Pipeline) evaluateCars(state domain.PlanningState) domain.Result[[]domain.ScoredCar] {
	if !state.Cars.OK() {
		return domain.Ok([]domain.ScoredCar(nil))
	}
	return domain.Ok(p.utility.EvaluateCars(state.Cars.Value))
}

func criteriaFor(req domain.TripRequest) providers.SearchCriteria {
	return providers.SearchCriteria{
		Origin:      req.Origin,
		Destination: req.Destination,
		Country:     req.Country,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		Preferences: req.Preferences,
	}
}
