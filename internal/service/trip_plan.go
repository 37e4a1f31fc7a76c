package service

import (
	"context"
	"time"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// TripPlanRepositoryInterface defines the repository interface for plan persistence
type TripPlanRepositoryInterface interface {
	Create(ctx context.Context, p *domain.TripPlan) error
	Update(ctx context.Context, p *domain.TripPlan) error
	GetByID(ctx context.Context, id string) (*domain.TripPlan, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.TripPlan, error)
	ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.TripPlan], error)
	Delete(ctx context.Context, id string) error
}

// TripPlanService handles business logic for saved trip plans.
type TripPlanService struct {
	tx      TxRunner
	repo    TripPlanRepositoryInterface
	uuidGen UUIDGenerator
}

func NewTripPlanService(tx TxRunner, repo TripPlanRepositoryInterface) *TripPlanService {
	return &TripPlanService{tx: tx, repo: repo, uuidGen: &DefaultUUIDGenerator{}}
}

func NewTripPlanServiceWithUUIDGen(tx TxRunner, repo TripPlanRepositoryInterface, uuidGen UUIDGenerator) *TripPlanService {
	return &TripPlanService{tx: tx, repo: repo, uuidGen: uuidGen}
}

// SavePlanInput represents the input for saving a trip plan
type SavePlanInput struct {
	SubjectID   string
	Destination string
	Country     string
	StartDate   time.Time
	EndDate     time.Time
	Days        []domain.PlanDay
}

// Create saves a plan and queues a reindex job for its subject.
func (s *TripPlanService) Create(ctx context.Context, input SavePlanInput) (*domain.TripPlan, error) {
	ctx, span := telemetry.StartSpan(ctx, "TripPlanService.Create", telemetry.SpanAttributes{
		SubjectID:   input.SubjectID,
		Destination: input.Destination,
		Operation:   "create",
	})
	defer span.End()

	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubject
	}
	if input.Destination == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "plan destination is required")
	}

	now := time.Now().UTC()
	plan := &domain.TripPlan{
		ID:          s.uuidGen.NewString(),
		SubjectID:   input.SubjectID,
		Destination: input.Destination,
		Country:     input.Country,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Days:        input.Days,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.TripPlans().Create(ctx, plan); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: input.SubjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: now,
		})
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return plan, nil
}

// UpdateDays replaces a plan's day-by-day narrative and queues a reindex.
func (s *TripPlanService) UpdateDays(ctx context.Context, planID string, days []domain.PlanDay) (*domain.TripPlan, error) {
	ctx, span := telemetry.StartSpan(ctx, "TripPlanService.UpdateDays", telemetry.SpanAttributes{
		TripPlanID: planID,
		Operation:  "update",
	})
	defer span.End()

	plan, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	plan.Days = days
	plan.UpdatedAt = time.Now().UTC()

	err = s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.TripPlans().Update(ctx, plan); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: plan.SubjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: plan.UpdatedAt,
		})
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return plan, nil
}

// GetByID retrieves a plan by ID.
func (s *TripPlanService) GetByID(ctx context.Context, id string) (*domain.TripPlan, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPlansInput represents the input for listing a subject's plans
type ListPlansInput struct {
	SubjectID string
	Cursor    string
	Limit     int
}

// List returns one page of the subject's plans, newest first.
func (s *TripPlanService) List(ctx context.Context, input ListPlansInput) (*pagination.PageResult[domain.TripPlan], error) {
	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubject
	}

	var cursor *pagination.Cursor
	if input.Cursor != "" {
		decoded, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, err
		}
		cursor = decoded
	}

	return s.repo.ListBySubjectPage(ctx, input.SubjectID, cursor, input.Limit)
}

// Delete removes a plan and queues a reindex for its subject.
func (s *TripPlanService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "TripPlanService.Delete", telemetry.SpanAttributes{
		TripPlanID: id,
		Operation:  "delete",
	})
	defer span.End()

	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.TripPlans().Delete(ctx, id); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: plan.SubjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		span.SetError(err)
	}
	return err
}
