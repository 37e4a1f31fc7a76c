package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// BookingRepositoryInterface defines the repository interface for booking persistence
type BookingRepositoryInterface interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Booking, error)
	ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.Booking], error)
	Delete(ctx context.Context, id string) error
}

// IndexJobRepositoryInterface defines the repository interface for index job persistence
type IndexJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.IndexJob) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// BookingService handles business logic for the booking history. Every write
// queues a reindex job in the same transaction, so the subject's retrieval
// index catches up in the background.
type BookingService struct {
	tx      TxRunner
	repo    BookingRepositoryInterface
	uuidGen UUIDGenerator
}

func NewBookingService(tx TxRunner, repo BookingRepositoryInterface) *BookingService {
	return &BookingService{tx: tx, repo: repo, uuidGen: &DefaultUUIDGenerator{}}
}

// NewBookingServiceWithUUIDGen creates a BookingService with a custom UUID
// generator (for testing).
func NewBookingServiceWithUUIDGen(tx TxRunner, repo BookingRepositoryInterface, uuidGen UUIDGenerator) *BookingService {
	return &BookingService{tx: tx, repo: repo, uuidGen: uuidGen}
}

// CreateBookingInput represents the input for recording a booking
type CreateBookingInput struct {
	SubjectID string
	Kind      domain.OfferKind
	Title     string
	Location  string
	StartDate time.Time
	EndDate   time.Time
	Price     float64
	Currency  string
	Notes     string
}

// Create records a booking and queues a reindex job for its subject.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.Create", telemetry.SpanAttributes{
		SubjectID: input.SubjectID,
		Operation: "create",
	})
	defer span.End()

	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubject
	}
	if input.Title == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "booking title is required")
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:        s.uuidGen.NewString(),
		SubjectID: input.SubjectID,
		Kind:      input.Kind,
		Title:     input.Title,
		Location:  input.Location,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Price:     input.Price,
		Currency:  input.Currency,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Bookings().Create(ctx, booking); err != nil {
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
	return booking, nil
}

// GetByID retrieves a booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBookingsInput represents the input for listing a subject's bookings
type ListBookingsInput struct {
	SubjectID string
	Cursor    string
	Limit     int
}

// List returns one page of the subject's bookings, newest first.
func (s *BookingService) List(ctx context.Context, input ListBookingsInput) (*pagination.PageResult[domain.Booking], error) {
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

// Delete removes a booking and queues a reindex job so its chunks drop out
// of the subject's index.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.Delete", telemetry.SpanAttributes{
		Operation: "delete",
	})
	defer span.End()

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Bookings().Delete(ctx, id); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:        s.uuidGen.NewString(),
			SubjectID: booking.SubjectID,
			Status:    domain.IndexJobStatusPending,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		span.SetError(err)
	}
	return err
}
