package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type TripPlanServiceInterface interface {
	Create(ctx context.Context, input service.SavePlanInput) (*domain.TripPlan, error)
	UpdateDays(ctx context.Context, planID string, days []domain.PlanDay) (*domain.TripPlan, error)
	GetByID(ctx context.Context, id string) (*domain.TripPlan, error)
	List(ctx context.Context, input service.ListPlansInput) (*pagination.PageResult[domain.TripPlan], error)
	Delete(ctx context.Context, id string) error
}

type TripPlanHandler struct {
	svc TripPlanServiceInterface
}

func NewTripPlanHandler(svc TripPlanServiceInterface) *TripPlanHandler {
	return &TripPlanHandler{svc: svc}
}

type PlanDayRequest struct {
	Day       int    `json:"day"`
	Title     string `json:"title"`
	Narrative string `json:"narrative"`
}

type SavePlanRequest struct {
	SubjectID   string           `json:"subject_id"`
	Destination string           `json:"destination"`
	Country     string           `json:"country"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Days        []PlanDayRequest `json:"days"`
}

type UpdatePlanDaysRequest struct {
	Days []PlanDayRequest `json:"days"`
}

type TripPlanResponse struct {
	ID          string           `json:"id"`
	SubjectID   string           `json:"subject_id"`
	Destination string           `json:"destination"`
	Country     string           `json:"country"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Days        []PlanDayRequest `json:"days"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

func planToResponse(p *domain.TripPlan) *TripPlanResponse {
	days := make([]PlanDayRequest, len(p.Days))
	for i, d := range p.Days {
		days[i] = PlanDayRequest{Day: d.Day, Title: d.Title, Narrative: d.Narrative}
	}
	return &TripPlanResponse{
		ID:          p.ID,
		SubjectID:   p.SubjectID,
		Destination: p.Destination,
		Country:     p.Country,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
		Days:        days,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func planDaysFromRequest(days []PlanDayRequest) []domain.PlanDay {
	out := make([]domain.PlanDay, len(days))
	for i, d := range days {
		out[i] = domain.PlanDay{Day: d.Day, Title: d.Title, Narrative: d.Narrative}
	}
	return out
}

func (h *TripPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SubjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject_id is required")
		return
	}
	if req.Destination == "" {
		api.Error(w, http.StatusBadRequest, "destination is required")
		return
	}

	startDate, _ := parseDate(req.StartDate)
	endDate, _ := parseDate(req.EndDate)

	input := service.SavePlanInput{
		SubjectID:   req.SubjectID,
		Destination: req.Destination,
		Country:     req.Country,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        planDaysFromRequest(req.Days),
	}

	plan, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, planToResponse(plan))
}

func (h *TripPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	plan, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, planToResponse(plan))
}

func (h *TripPlanHandler) UpdateDays(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req UpdatePlanDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.svc.UpdateDays(r.Context(), id, planDaysFromRequest(req.Days))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, planToResponse(plan))
}

type TripPlanListResponse struct {
	Items   []*TripPlanResponse `json:"items"`
	Cursor  string              `json:"cursor,omitempty"`
	HasMore bool                `json:"has_more"`
}

func (h *TripPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	input := service.ListPlansInput{
		SubjectID: subjectID,
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     parseLimit(r.URL.Query().Get("limit")),
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*TripPlanResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = planToResponse(&page.Items[i])
	}

	api.Success(w, http.StatusOK, TripPlanListResponse{
		Items:   responses,
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	})
}

func (h *TripPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}
