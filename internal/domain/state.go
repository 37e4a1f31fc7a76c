package domain

// Stage names one step of the planning pipeline.
type Stage string

const (
	StageFlightSearch      Stage = "flight_search"
	StageHotelSearch       Stage = "hotel_search"
	StageCarRentalSearch   Stage = "car_rental_search"
	StageGoalEvaluation    Stage = "goal_evaluation"
	StageUtilityEvaluation Stage = "utility_evaluation"
	StageCarEvaluation     Stage = "car_evaluation"
	StageSynthesis         Stage = "synthesis"
	StageTerminal          Stage = "terminal"
)

// StageOrder is the fixed pipeline order. The marker only ever moves forward
// through this list; a failed stage stores its error and still advances.
var StageOrder = []Stage{
	StageFlightSearch,
	StageHotelSearch,
	StageCarRentalSearch,
	StageGoalEvaluation,
	StageUtilityEvaluation,
	StageCarEvaluation,
	StageSynthesis,
	StageTerminal,
}

// NextStage returns the stage after s, or terminal when s is last or unknown.
func NextStage(s Stage) Stage {
	for i, stage := range StageOrder {
		if stage == s && i+1 < len(StageOrder) {
			return StageOrder[i+1]
		}
	}
	return StageTerminal
}

// StageError records a failed stage for the final bundle.
type StageError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// PlanningState is the record threaded through the pipeline. Exactly one
// instance exists per run, owned by the executor. Stages never mutate it;
// each stage returns its slot value and the reducer builds the next state.
type PlanningState struct {
	Request TripRequest
	Stage   Stage

	Flights           Result[[]FlightOffer]
	Hotels            Result[[]HotelOffer]
	Cars              Result[[]CarOffer]
	GoalEvaluation    Result[GoalEvaluation]
	UtilityEvaluation Result[[]ScoredHotel]
	CarEvaluation     Result[[]ScoredCar]

	Final *RecommendationBundle
}

// NewPlanningState builds the initial state positioned at the first stage.
func NewPlanningState(req TripRequest) PlanningState {
	return PlanningState{Request: req, Stage: StageFlightSearch}
}

// Errors collects the error markers of every completed-but-failed slot, in
// pipeline order.
func (s PlanningState) Errors() []StageError {
	var errs []StageError
	if s.Flights.Failed() {
		errs = append(errs, StageError{Stage: StageFlightSearch, Message: s.Flights.Err})
	}
	if s.Hotels.Failed() {
		errs = append(errs, StageError{Stage: StageHotelSearch, Message: s.Hotels.Err})
	}
	if s.Cars.Failed() {
		errs = append(errs, StageError{Stage: StageCarRentalSearch, Message: s.Cars.Err})
	}
	if s.GoalEvaluation.Failed() {
		errs = append(errs, StageError{Stage: StageGoalEvaluation, Message: s.GoalEvaluation.Err})
	}
	if s.UtilityEvaluation.Failed() {
		errs = append(errs, StageError{Stage: StageUtilityEvaluation, Message: s.UtilityEvaluation.Err})
	}
	if s.CarEvaluation.Failed() {
		errs = append(errs, StageError{Stage: StageCarEvaluation, Message: s.CarEvaluation.Err})
	}
	return errs
}
