package service

import (
	"context"
	"time"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// FeedbackRepositoryInterface defines the repository interface for feedback persistence
type FeedbackRepositoryInterface interface {
	Create(ctx context.Context, f *domain.Feedback) error
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Feedback, error)
}

// SessionRepositoryInterface defines the repository interface for session intents
type SessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.SessionIntent) error
	ListBySubject(ctx context.Context, subjectID string) ([]domain.SessionIntent, error)
}

// ProfileRepositoryInterface defines the repository interface for traveler profiles
type ProfileRepositoryInterface interface {
	Upsert(ctx context.Context, p *domain.TravelerProfile) error
	GetBySubject(ctx context.Context, subjectID string) (*domain.TravelerProfile, error)
}

// HistoryService records the lighter source families: trip feedback, session
// intents, and the traveler profile. Each write queues a subject reindex so
// retrieval picks the change up.
type HistoryService struct {
	tx       TxRunner
	profiles ProfileRepositoryInterface
	uuidGen  UUIDGenerator
}

func NewHistoryService(tx TxRunner, profiles ProfileRepositoryInterface) *HistoryService {
	return &HistoryService{tx: tx, profiles: profiles, uuidGen: &DefaultUUIDGenerator{}}
}

func NewHistoryServiceWithUUIDGen(tx TxRunner, profiles ProfileRepositoryInterface, uuidGen UUIDGenerator) *HistoryService {
	return &HistoryService{tx: tx, profiles: profiles, uuidGen: uuidGen}
}

// AddFeedbackInput represents the input for recording trip feedback
type AddFeedbackInput struct {
	SubjectID  string
	TripPlanID string
	Rating     int
	Comment    string
}

// AddFeedback records a rating and queues a reindex for its subject.
func (s *HistoryService) AddFeedback(ctx context.Context, input AddFeedbackInput) (*domain.Feedback, error) {
	ctx, span := telemetry.StartSpan(ctx, "HistoryService.AddFeedback", telemetry.SpanAttributes{
		SubjectID:  input.SubjectID,
		TripPlanID: input.TripPlanID,
		Operation:  "add_feedback",
	})
	defer span.End()

	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubject
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "rating must be between 1 and 5")
	}

	now := time.Now().UTC()
	feedback := &domain.Feedback{
		ID:         s.uuidGen.NewString(),
		SubjectID:  input.SubjectID,
		TripPlanID: input.TripPlanID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  now,
	}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Feedback().Create(ctx, feedback); err != nil {
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
	return feedback, nil
}

// RecordSessionIntent saves a summarized planning session and queues a
// reindex for its subject.
func (s *HistoryService) RecordSessionIntent(ctx context.Context, subjectID, summary string) (*domain.SessionIntent, error) {
	ctx, span := telemetry.StartSpan(ctx, "HistoryService.RecordSessionIntent", telemetry.SpanAttributes{
		SubjectID: subjectID,
		Operation: "record_session",
	})
	defer span.End()

	if subjectID == "" {
		return nil, domain.ErrMissingSubject
	}
	if summary == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "session summary is required")
	}

	now := time.Now().UTC()
	intent := &domain.SessionIntent{
		ID:        s.uuidGen.NewString(),
		SubjectID: subjectID,
		Summary:   summary,
		CreatedAt: now,
	}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Sessions().Create(ctx, intent); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: subjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: now,
		})
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return intent, nil
}

// UpsertProfile stores the subject's preference profile. Profile writes go
// straight through the repository since there is exactly one row per
// subject; the reindex job is still queued.
func (s *HistoryService) UpsertProfile(ctx context.Context, profile domain.TravelerProfile) error {
	ctx, span := telemetry.StartSpan(ctx, "HistoryService.UpsertProfile", telemetry.SpanAttributes{
		SubjectID: profile.SubjectID,
		Operation: "upsert_profile",
	})
	defer span.End()

	if profile.SubjectID == "" {
		return domain.ErrMissingSubject
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Upsert(ctx, &profile); err != nil {
		span.SetError(err)
		return err
	}

	return s.tx.WithTx(ctx, func(repos TxRepositories) error {
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: profile.SubjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: profile.UpdatedAt,
		})
	})
}

// GetProfile returns the subject's profile, or nil when none is stored.
func (s *HistoryService) GetProfile(ctx context.Context, subjectID string) (*domain.TravelerProfile, error) {
	if subjectID == "" {
		return nil, domain.ErrMissingSubject
	}
	return s.profiles.GetBySubject(ctx, subjectID)
}
