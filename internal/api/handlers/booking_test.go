package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, input service.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, input service.ListBookingsInput) (*pagination.PageResult[domain.Booking], error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[domain.Booking]), args.Error(1)
}

func (m *MockBookingService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestBooking() *domain.Booking {
	now := time.Now().UTC()
	return &domain.Booking{
		ID:        "b-123",
		SubjectID: "u1",
		Kind:      domain.OfferKindFlight,
		Title:     "TAP flight to Lisbon",
		Location:  "Lisbon",
		StartDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		Price:     320,
		Currency:  "EUR",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func idRequest(method, url, id string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBookingHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateBookingInput) bool {
		return input.SubjectID == "u1" && input.Kind == domain.OfferKindFlight && input.Title == "TAP flight to Lisbon"
	})).Return(newTestBooking(), nil)

	body := `{"subject_id":"u1","kind":"flight","title":"TAP flight to Lisbon","location":"Lisbon","start_date":"2026-05-10","end_date":"2026-05-14","price":320,"currency":"EUR"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBookingHandler_Create_MissingSubject(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	body := `{"kind":"flight","title":"TAP flight to Lisbon"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingHandler_Create_InvalidKind(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	body := `{"subject_id":"u1","kind":"cruise","title":"Mediterranean cruise"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Get_Success(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "b-123").Return(newTestBooking(), nil)

	req := idRequest(http.MethodGet, "/bookings/b-123", "b-123", "")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data BookingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-123", resp.Data.ID)
	assert.Equal(t, "2026-05-10", resp.Data.StartDate)
}

func TestBookingHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrBookingNotFound)

	req := idRequest(http.MethodGet, "/bookings/missing", "missing", "")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_List_Success(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	page := &pagination.PageResult[domain.Booking]{
		Items:   []domain.Booking{*newTestBooking()},
		Cursor:  "next-cursor",
		HasMore: true,
	}
	mockSvc.On("List", mock.Anything, service.ListBookingsInput{
		SubjectID: "u1",
		Cursor:    "abc",
		Limit:     5,
	}).Return(page, nil)

	req := subjectRequest(http.MethodGet, "/subjects/u1/bookings?cursor=abc&limit=5", "u1")
	w := httptest.NewRecorder()

	handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data BookingListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.True(t, resp.Data.HasMore)
	assert.Equal(t, "next-cursor", resp.Data.Cursor)
}

func TestBookingHandler_List_BadCursor(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	mockSvc.On("List", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid cursor"))

	req := subjectRequest(http.MethodGet, "/subjects/u1/bookings?cursor=garbage", "u1")
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockBookingService)
	handler := NewBookingHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "b-123").Return(nil)

	req := idRequest(http.MethodDelete, "/bookings/b-123", "b-123", "")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
