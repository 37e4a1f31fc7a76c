package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/domain"
)

type PlannerService interface {
	RunPlan(ctx context.Context, req domain.TripRequest) (*domain.RecommendationBundle, error)
	SearchContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) ([]domain.RetrievedChunk, error)
	IndexSubject(ctx context.Context, subjectID string) (int, error)
	DeleteSubjectIndex(ctx context.Context, subjectID string) (int, error)
}

type PlanHandler struct {
	svc PlannerService
}

func NewPlanHandler(svc PlannerService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

type RunPlanRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Country     string  `json:"country"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Travelers   int     `json:"travelers"`
	Budget      float64 `json:"budget"`
	Currency    string  `json:"currency"`
	Preferences string  `json:"preferences"`
	SubjectID   string  `json:"subject_id"`
}

func (h *PlanHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid start_date (expected YYYY-MM-DD)")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid end_date (expected YYYY-MM-DD)")
		return
	}

	tripReq := domain.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Country:     req.Country,
		StartDate:   startDate,
		EndDate:     endDate,
		Travelers:   req.Travelers,
		Budget:      req.Budget,
		Currency:    req.Currency,
		Preferences: req.Preferences,
		SubjectID:   req.SubjectID,
	}

	bundle, err := h.svc.RunPlan(r.Context(), tripReq)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, bundle)
}

type ContextQueryRequest struct {
	SubjectID   string   `json:"subject_id"`
	Query       string   `json:"query"`
	K           int      `json:"k"`
	SourceTypes []string `json:"source_types"`
}

type RetrievedChunkResponse struct {
	SubjectID  string  `json:"subject_id"`
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
	Band       string  `json:"band"`
}

type ContextQueryResponse struct {
	Chunks []RetrievedChunkResponse `json:"chunks"`
}

func (h *PlanHandler) QueryContext(w http.ResponseWriter, r *http.Request) {
	var req ContextQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var sourceTypes []domain.SourceType
	for _, s := range req.SourceTypes {
		st := domain.SourceType(s)
		if !domain.ValidSourceType(st) {
			api.Error(w, http.StatusBadRequest, "invalid source type: "+s)
			return
		}
		sourceTypes = append(sourceTypes, st)
	}

	chunks, err := h.svc.SearchContext(r.Context(), req.SubjectID, req.Query, req.K, sourceTypes)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]RetrievedChunkResponse, len(chunks))
	for i, c := range chunks {
		responses[i] = RetrievedChunkResponse{
			SubjectID:  c.Chunk.SubjectID,
			SourceType: string(c.Chunk.SourceType),
			SourceID:   c.Chunk.SourceID,
			Content:    c.Chunk.Content,
			Distance:   c.Distance,
			Band:       string(c.Band),
		}
	}

	api.Success(w, http.StatusOK, ContextQueryResponse{Chunks: responses})
}

type IndexResponse struct {
	SubjectID  string `json:"subject_id"`
	ChunkCount int    `json:"chunk_count"`
}

func (h *PlanHandler) IndexSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	count, err := h.svc.IndexSubject(r.Context(), subjectID)
	if err != nil && api.DomainErrorToHTTP(err) != http.StatusOK {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, IndexResponse{SubjectID: subjectID, ChunkCount: count})
}

func (h *PlanHandler) DeleteSubjectIndex(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	count, err := h.svc.DeleteSubjectIndex(r.Context(), subjectID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, IndexResponse{SubjectID: subjectID, ChunkCount: count})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
