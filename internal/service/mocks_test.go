package service

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
)

// stubTxRunner runs the function immediately against the provided
// repositories, outside any real transaction.
type stubTxRunner struct {
	repos TxRepositories
	err   error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(s.repos)
}

type stubTxRepos struct {
	bookings  BookingRepositoryInterface
	tripPlans TripPlanRepositoryInterface
	feedback  FeedbackRepositoryInterface
	sessions  SessionRepositoryInterface
	documents DocumentRepositoryInterface
	indexJobs IndexJobRepositoryInterface
}

func (s *stubTxRepos) Bookings() BookingRepositoryInterface    { return s.bookings }
func (s *stubTxRepos) TripPlans() TripPlanRepositoryInterface  { return s.tripPlans }
func (s *stubTxRepos) Feedback() FeedbackRepositoryInterface   { return s.feedback }
func (s *stubTxRepos) Sessions() SessionRepositoryInterface    { return s.sessions }
func (s *stubTxRepos) Documents() DocumentRepositoryInterface  { return s.documents }
func (s *stubTxRepos) IndexJobs() IndexJobRepositoryInterface  { return s.indexJobs }

// seqUUIDGen returns uuid-1, uuid-2, ... deterministically.
type seqUUIDGen struct {
	n int
}

func (g *seqUUIDGen) NewString() string {
	g.n++
	return fmt.Sprintf("uuid-%d", g.n)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.Booking, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.Booking], error) {
	args := m.Called(ctx, subjectID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[domain.Booking]), args.Error(1)
}

func (m *MockBookingRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockIndexJobRepo struct {
	mock.Mock
}

func (m *MockIndexJobRepo) Create(ctx context.Context, job *domain.IndexJob) error {
	return m.Called(ctx, job).Error(0)
}

type MockTripPlanRepo struct {
	mock.Mock
}

func (m *MockTripPlanRepo) Create(ctx context.Context, p *domain.TripPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockTripPlanRepo) Update(ctx context.Context, p *domain.TripPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockTripPlanRepo) GetByID(ctx context.Context, id string) (*domain.TripPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripPlan), args.Error(1)
}

func (m *MockTripPlanRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.TripPlan, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripPlan), args.Error(1)
}

func (m *MockTripPlanRepo) ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.TripPlan], error) {
	args := m.Called(ctx, subjectID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[domain.TripPlan]), args.Error(1)
}

func (m *MockTripPlanRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Create(ctx context.Context, f *domain.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFeedbackRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, s *domain.SessionIntent) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.SessionIntent, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionIntent), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Upsert(ctx context.Context, p *domain.TravelerProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) GetBySubject(ctx context.Context, subjectID string) (*domain.TravelerProfile, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelerProfile), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, d *domain.Document) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByScope(ctx context.Context, scope string) ([]domain.Document, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockDocumentIngester struct {
	mock.Mock
}

func (m *MockDocumentIngester) DeleteDocument(ctx context.Context, doc domain.Document) (int, error) {
	args := m.Called(ctx, doc)
	return args.Int(0), args.Error(1)
}
