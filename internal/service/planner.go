package service

import (
	"context"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/fanout"
	"github.com/tripweave-ai/tripweave/internal/pipeline"
	"github.com/tripweave-ai/tripweave/internal/providers"
	"github.com/tripweave-ai/tripweave/internal/retrieval"
	"github.com/tripweave-ai/tripweave/internal/scoring"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// PlannerService is the façade over planning and retrieval. One call plans a
// whole trip; the retrieval methods manage and query the subject's index.
type PlannerService struct {
	registry    providers.Registry
	pipeline    *pipeline.Pipeline
	coordinator *fanout.Coordinator
	utility     *scoring.UtilityEvaluator
	retriever   *retrieval.Retriever
	indexer     *retrieval.Indexer
}

func NewPlannerService(
	registry providers.Registry,
	p *pipeline.Pipeline,
	coordinator *fanout.Coordinator,
	utility *scoring.UtilityEvaluator,
	retriever *retrieval.Retriever,
	indexer *retrieval.Indexer,
) *PlannerService {
	return &PlannerService{
		registry:    registry,
		pipeline:    p,
		coordinator: coordinator,
		utility:     utility,
		retriever:   retriever,
		indexer:     indexer,
	}
}

// RunPlan plans the trip and always returns a bundle when the request and
// configuration are valid. Individual category failures are reported inside
// the bundle, never as an error from this method.
func (s *PlannerService) RunPlan(ctx context.Context, req domain.TripRequest) (*domain.RecommendationBundle, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlannerService.RunPlan", telemetry.SpanAttributes{
		SubjectID:   req.SubjectID,
		Destination: req.Destination,
		Operation:   "plan",
	})
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetError(err)
		return nil, err
	}
	if err := s.registry.Validate(); err != nil {
		span.SetError(err)
		return nil, err
	}

	bundle := s.pipeline.Run(ctx, req)
	s.overlayRestaurants(ctx, req, &bundle)
	return &bundle, nil
}

// overlayRestaurants adds dining recommendations on top of the core bundle.
// Restaurants ride the same cached lookup path as the other categories but
// never contribute to the cost estimate.
func (s *PlannerService) overlayRestaurants(ctx context.Context, req domain.TripRequest, bundle *domain.RecommendationBundle) {
	result := s.coordinator.LookupRestaurants(ctx, providers.SearchCriteria{
		Origin:      req.Origin,
		Destination: req.Destination,
		Country:     req.Country,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		Preferences: req.Preferences,
	})
	if !result.Done {
		return
	}
	if result.Failed() {
		bundle.Outcomes[domain.OfferKindRestaurant] = domain.CategoryOutcome{
			Status: domain.CategoryStatusError,
			Error:  result.Err,
		}
		return
	}

	bundle.Summary.RestaurantCount = len(result.Value)
	ranked := s.utility.EvaluateRestaurants(result.Value)
	bundle.RestaurantRanking = ranked
	if len(ranked) == 0 {
		bundle.Outcomes[domain.OfferKindRestaurant] = domain.CategoryOutcome{Status: domain.CategoryStatusEmpty}
		return
	}

	top := ranked[0]
	bundle.RecommendedRestaurant = &top
	bundle.Outcomes[domain.OfferKindRestaurant] = domain.CategoryOutcome{Status: domain.CategoryStatusRecommended}
}

// RetrieveContext returns grounding text for the subject and query, or an
// empty string when retrieval cannot serve.
func (s *PlannerService) RetrieveContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) string {
	ctx, span := telemetry.StartSpan(ctx, "PlannerService.RetrieveContext", telemetry.SpanAttributes{
		SubjectID: subjectID,
		Operation: "retrieve_context",
	})
	defer span.End()

	return s.retriever.RetrieveContext(ctx, subjectID, query, k, sourceTypes)
}

// SearchContext returns the ranked chunks for the subject and query.
func (s *PlannerService) SearchContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) ([]domain.RetrievedChunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlannerService.SearchContext", telemetry.SpanAttributes{
		SubjectID: subjectID,
		Operation: "search_context",
	})
	defer span.End()

	return s.retriever.Search(ctx, subjectID, query, k, sourceTypes)
}

// IndexSubject synchronously rebuilds the subject's index and returns the
// indexed chunk count. A partial failure still indexes what it can.
func (s *PlannerService) IndexSubject(ctx context.Context, subjectID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlannerService.IndexSubject", telemetry.SpanAttributes{
		SubjectID: subjectID,
		Operation: "index_subject",
	})
	defer span.End()

	return s.indexer.IndexSubject(ctx, subjectID)
}

// DeleteSubjectIndex removes the subject's chunks from the shared index.
func (s *PlannerService) DeleteSubjectIndex(ctx context.Context, subjectID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlannerService.DeleteSubjectIndex", telemetry.SpanAttributes{
		SubjectID: subjectID,
		Operation: "delete_subject_index",
	})
	defer span.End()

	return s.indexer.DeleteSubjectIndex(ctx, subjectID)
}
