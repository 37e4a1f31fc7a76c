package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// Sources bundles the per-family repositories behind the indexer's reader
// contract, so indexing sees one object for a subject's whole history.
type Sources struct {
	bookings *BookingRepository
	plans    *TripPlanRepository
	feedback *FeedbackRepository
	sessions *SessionRepository
	profiles *ProfileRepository
}

func NewSources(pool *pgxpool.Pool) *Sources {
	return &Sources{
		bookings: NewBookingRepository(pool),
		plans:    NewTripPlanRepository(pool),
		feedback: NewFeedbackRepository(pool),
		sessions: NewSessionRepository(pool),
		profiles: NewProfileRepository(pool),
	}
}

func (s *Sources) BookingsBySubject(ctx context.Context, subjectID string) ([]domain.Booking, error) {
	return s.bookings.ListBySubject(ctx, subjectID)
}

func (s *Sources) PlansBySubject(ctx context.Context, subjectID string) ([]domain.TripPlan, error) {
	return s.plans.ListBySubject(ctx, subjectID)
}

func (s *Sources) FeedbackBySubject(ctx context.Context, subjectID string) ([]domain.Feedback, error) {
	return s.feedback.ListBySubject(ctx, subjectID)
}

func (s *Sources) SessionsBySubject(ctx context.Context, subjectID string) ([]domain.SessionIntent, error) {
	return s.sessions.ListBySubject(ctx, subjectID)
}

func (s *Sources) ProfileBySubject(ctx context.Context, subjectID string) (*domain.TravelerProfile, error) {
	return s.profiles.GetBySubject(ctx, subjectID)
}
