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
	"github.com/tripweave-ai/tripweave/internal/service"
)

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) AddFeedback(ctx context.Context, input service.AddFeedbackInput) (*domain.Feedback, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockHistoryService) RecordSessionIntent(ctx context.Context, subjectID, summary string) (*domain.SessionIntent, error) {
	args := m.Called(ctx, subjectID, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionIntent), args.Error(1)
}

func (m *MockHistoryService) UpsertProfile(ctx context.Context, profile domain.TravelerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockHistoryService) GetProfile(ctx context.Context, subjectID string) (*domain.TravelerProfile, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelerProfile), args.Error(1)
}

func TestHistoryHandler_AddFeedback_Success(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	feedback := &domain.Feedback{
		ID:         "f-1",
		SubjectID:  "u1",
		TripPlanID: "p-1",
		Rating:     4,
		Comment:    "Great hotel, noisy street.",
		CreatedAt:  time.Now().UTC(),
	}
	mockSvc.On("AddFeedback", mock.Anything, service.AddFeedbackInput{
		SubjectID:  "u1",
		TripPlanID: "p-1",
		Rating:     4,
		Comment:    "Great hotel, noisy street.",
	}).Return(feedback, nil)

	body := `{"subject_id":"u1","trip_plan_id":"p-1","rating":4,"comment":"Great hotel, noisy street."}`
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AddFeedback(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data FeedbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Rating)
	mockSvc.AssertExpectations(t)
}

func TestHistoryHandler_AddFeedback_InvalidRating(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	mockSvc.On("AddFeedback", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "rating must be between 1 and 5"))

	body := `{"subject_id":"u1","rating":9}`
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AddFeedback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler_RecordSession_Success(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	intent := &domain.SessionIntent{
		ID:        "s-1",
		SubjectID: "u1",
		Summary:   "Looking for a quiet beach week in October.",
		CreatedAt: time.Now().UTC(),
	}
	mockSvc.On("RecordSessionIntent", mock.Anything, "u1", "Looking for a quiet beach week in October.").
		Return(intent, nil)

	body := `{"subject_id":"u1","summary":"Looking for a quiet beach week in October."}`
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.RecordSession(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHistoryHandler_UpsertProfile_Success(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	mockSvc.On("UpsertProfile", mock.Anything, mock.MatchedBy(func(p domain.TravelerProfile) bool {
		return p.SubjectID == "u1" && p.HomeCity == "Porto" && len(p.Interests) == 2
	})).Return(nil)

	body := `{"home_city":"Porto","seat_class":"economy","hotel_stars":4,"interests":["food","architecture"]}`
	req := httptest.NewRequest(http.MethodPut, "/subjects/u1/profile", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("subjectID", "u1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.UpsertProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHistoryHandler_GetProfile_Success(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	profile := &domain.TravelerProfile{
		SubjectID: "u1",
		HomeCity:  "Porto",
		SeatClass: "economy",
		UpdatedAt: time.Now().UTC(),
	}
	mockSvc.On("GetProfile", mock.Anything, "u1").Return(profile, nil)

	req := subjectRequest(http.MethodGet, "/subjects/u1/profile", "u1")
	w := httptest.NewRecorder()

	handler.GetProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Porto", resp.Data.HomeCity)
}

func TestHistoryHandler_GetProfile_NotFound(t *testing.T) {
	mockSvc := new(MockHistoryService)
	handler := NewHistoryHandler(mockSvc)

	mockSvc.On("GetProfile", mock.Anything, "ghost").Return(nil, nil)

	req := subjectRequest(http.MethodGet, "/subjects/ghost/profile", "ghost")
	w := httptest.NewRecorder()

	handler.GetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
