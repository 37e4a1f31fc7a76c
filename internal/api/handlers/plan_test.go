package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripweave-ai/tripweave/internal/domain"
)

type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) RunPlan(ctx context.Context, req domain.TripRequest) (*domain.RecommendationBundle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationBundle), args.Error(1)
}

func (m *MockPlannerService) SearchContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) ([]domain.RetrievedChunk, error) {
	args := m.Called(ctx, subjectID, query, k, sourceTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedChunk), args.Error(1)
}

func (m *MockPlannerService) IndexSubject(ctx context.Context, subjectID string) (int, error) {
	args := m.Called(ctx, subjectID)
	return args.Int(0), args.Error(1)
}

func (m *MockPlannerService) DeleteSubjectIndex(ctx context.Context, subjectID string) (int, error) {
	args := m.Called(ctx, subjectID)
	return args.Int(0), args.Error(1)
}

func subjectRequest(method, url, subjectID string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("subjectID", subjectID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPlanHandler_Run_Success(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	bundle := &domain.RecommendationBundle{
		Summary:           domain.BundleSummary{FlightCount: 2},
		TotalCostEstimate: 420,
		Currency:          "EUR",
		Outcomes: map[domain.OfferKind]domain.CategoryOutcome{
			domain.OfferKindFlight: {Status: domain.CategoryStatusRecommended},
		},
	}
	mockSvc.On("RunPlan", mock.Anything, mock.MatchedBy(func(req domain.TripRequest) bool {
		return req.Origin == "LIS" && req.Destination == "Barcelona" && req.SubjectID == "u1"
	})).Return(bundle, nil)

	body := `{"origin":"LIS","destination":"Barcelona","start_date":"2026-09-10","end_date":"2026-09-14","travelers":2,"budget":900,"currency":"EUR","subject_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Run(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestPlanHandler_Run_InvalidDate(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	body := `{"origin":"LIS","destination":"Barcelona","start_date":"next week","end_date":"2026-09-14"}`
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Run(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RunPlan", mock.Anything, mock.Anything)
}

func TestPlanHandler_Run_InvalidBody(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Run(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_Run_ValidationError(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("RunPlan", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "trip request missing origin"))

	body := `{"destination":"Barcelona","start_date":"2026-09-10","end_date":"2026-09-14"}`
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Run(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_Run_NoProviders(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("RunPlan", mock.Anything, mock.Anything).Return(nil, domain.ErrNoProvidersConfigured)

	body := `{"origin":"LIS","destination":"Barcelona","start_date":"2026-09-10","end_date":"2026-09-14"}`
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Run(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPlanHandler_QueryContext_Success(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	chunks := []domain.RetrievedChunk{
		{
			Chunk: domain.KnowledgeChunk{
				SubjectID:  "u1",
				SourceType: domain.SourceTypeBooking,
				SourceID:   "b1",
				Content:    "Booking: flight to Lisbon",
			},
			Distance: 0.21,
			Band:     domain.RelevanceNear,
		},
	}
	mockSvc.On("SearchContext", mock.Anything, "u1", "lisbon flights", 5, []domain.SourceType{domain.SourceTypeBooking}).
		Return(chunks, nil)

	body := `{"subject_id":"u1","query":"lisbon flights","k":5,"source_types":["booking"]}`
	req := httptest.NewRequest(http.MethodPost, "/context/query", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.QueryContext(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ContextQueryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Chunks, 1)
	assert.Equal(t, "booking", resp.Data.Chunks[0].SourceType)
	assert.Equal(t, "near", resp.Data.Chunks[0].Band)
	mockSvc.AssertExpectations(t)
}

func TestPlanHandler_QueryContext_InvalidSourceType(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	body := `{"subject_id":"u1","query":"lisbon","source_types":["timeline"]}`
	req := httptest.NewRequest(http.MethodPost, "/context/query", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.QueryContext(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SearchContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanHandler_QueryContext_MissingSubject(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("SearchContext", mock.Anything, "", "lisbon", 0, []domain.SourceType(nil)).
		Return(nil, domain.ErrMissingSubject)

	body := `{"query":"lisbon"}`
	req := httptest.NewRequest(http.MethodPost, "/context/query", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.QueryContext(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_IndexSubject_Success(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("IndexSubject", mock.Anything, "u1").Return(7, nil)

	req := subjectRequest(http.MethodPost, "/subjects/u1/index", "u1")
	w := httptest.NewRecorder()

	handler.IndexSubject(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data IndexResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Data.ChunkCount)
	mockSvc.AssertExpectations(t)
}

func TestPlanHandler_IndexSubject_PartialFailureStillOK(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	partialErr := domain.NewDomainError(domain.ErrCodeIndexingPartial, "feedback source failed")
	mockSvc.On("IndexSubject", mock.Anything, "u1").Return(5, partialErr)

	req := subjectRequest(http.MethodPost, "/subjects/u1/index", "u1")
	w := httptest.NewRecorder()

	handler.IndexSubject(w, req)

	// A partial index is still usable; the count reflects what was stored
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data IndexResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Data.ChunkCount)
}

func TestPlanHandler_IndexSubject_UnknownSubject(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("IndexSubject", mock.Anything, "ghost").Return(0, domain.ErrMissingSubject)

	req := subjectRequest(http.MethodPost, "/subjects/ghost/index", "ghost")
	w := httptest.NewRecorder()

	handler.IndexSubject(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_DeleteSubjectIndex_Success(t *testing.T) {
	mockSvc := new(MockPlannerService)
	handler := NewPlanHandler(mockSvc)

	mockSvc.On("DeleteSubjectIndex", mock.Anything, "u1").Return(7, nil)

	req := subjectRequest(http.MethodDelete, "/subjects/u1/index", "u1")
	w := httptest.NewRecorder()

	handler.DeleteSubjectIndex(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
