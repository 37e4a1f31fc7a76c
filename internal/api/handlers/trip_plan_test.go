package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type MockTripPlanService struct {
	mock.Mock
}

func (m *MockTripPlanService) Create(ctx context.Context, input service.SavePlanInput) (*domain.TripPlan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripPlan), args.Error(1)
}

func (m *MockTripPlanService) UpdateDays(ctx context.Context, planID string, days []domain.PlanDay) (*domain.TripPlan, error) {
	args := m.Called(ctx, planID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripPlan), args.Error(1)
}

func (m *MockTripPlanService) GetByID(ctx context.Context, id string) (*domain.TripPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripPlan), args.Error(1)
}

func (m *MockTripPlanService) List(ctx context.Context, input service.ListPlansInput) (*pagination.PageResult[domain.TripPlan], error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[domain.TripPlan]), args.Error(1)
}

func (m *MockTripPlanService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestPlan() *domain.TripPlan {
	now := time.Now().UTC()
	return &domain.TripPlan{
		ID:          "p-123",
		SubjectID:   "u1",
		Destination: "Barcelona",
		Country:     "Spain",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Days: []domain.PlanDay{
			{Day: 1, Title: "Gothic Quarter", Narrative: "Walk the old town and the cathedral."},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTripPlanHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.SavePlanInput) bool {
		return input.SubjectID == "u1" && input.Destination == "Barcelona" && len(input.Days) == 1
	})).Return(newTestPlan(), nil)

	body := `{"subject_id":"u1","destination":"Barcelona","country":"Spain","start_date":"2026-09-10","end_date":"2026-09-14","days":[{"day":1,"title":"Gothic Quarter","narrative":"Walk the old town and the cathedral."}]}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data TripPlanResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p-123", resp.Data.ID)
	require.Len(t, resp.Data.Days, 1)
	assert.Equal(t, "Gothic Quarter", resp.Data.Days[0].Title)
	mockSvc.AssertExpectations(t)
}

func TestTripPlanHandler_Create_MissingDestination(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	body := `{"subject_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTripPlanHandler_UpdateDays_Success(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	updated := newTestPlan()
	updated.Days = append(updated.Days, domain.PlanDay{Day: 2, Title: "Sagrada Familia", Narrative: "Morning visit."})

	mockSvc.On("UpdateDays", mock.Anything, "p-123", mock.MatchedBy(func(days []domain.PlanDay) bool {
		return len(days) == 2 && days[1].Title == "Sagrada Familia"
	})).Return(updated, nil)

	body := `{"days":[{"day":1,"title":"Gothic Quarter","narrative":"Walk the old town."},{"day":2,"title":"Sagrada Familia","narrative":"Morning visit."}]}`
	req := idRequest(http.MethodPut, "/plans/p-123/days", "p-123", body)
	w := httptest.NewRecorder()

	handler.UpdateDays(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTripPlanHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrTripPlanNotFound)

	req := idRequest(http.MethodGet, "/plans/missing", "missing", "")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripPlanHandler_List_Success(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	page := &pagination.PageResult[domain.TripPlan]{
		Items: []domain.TripPlan{*newTestPlan()},
	}
	mockSvc.On("List", mock.Anything, service.ListPlansInput{SubjectID: "u1", Limit: 20}).Return(page, nil)

	req := subjectRequest(http.MethodGet, "/subjects/u1/plans", "u1")
	w := httptest.NewRecorder()

	handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TripPlanListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.False(t, resp.Data.HasMore)
}

func TestTripPlanHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockTripPlanService)
	handler := NewTripPlanHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "p-123").Return(nil)

	req := idRequest(http.MethodDelete, "/plans/p-123", "p-123", "")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
