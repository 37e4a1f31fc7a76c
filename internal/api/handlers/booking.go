package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type BookingServiceInterface interface {
	Create(ctx context.Context, input service.CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, input service.ListBookingsInput) (*pagination.PageResult[domain.Booking], error)
	Delete(ctx context.Context, id string) error
}

type BookingHandler struct {
	svc BookingServiceInterface
}

func NewBookingHandler(svc BookingServiceInterface) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type CreateBookingRequest struct {
	SubjectID string  `json:"subject_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Notes     string  `json:"notes"`
}

type BookingResponse struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subject_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

func bookingToResponse(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID,
		SubjectID: b.SubjectID,
		Kind:      string(b.Kind),
		Title:     b.Title,
		Location:  b.Location,
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
		Price:     b.Price,
		Currency:  b.Currency,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SubjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject_id is required")
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	kind := domain.OfferKind(req.Kind)
	if req.Kind != "" && !domain.ValidOfferKind(kind) {
		api.Error(w, http.StatusBadRequest, "invalid booking kind")
		return
	}

	startDate, _ := parseDate(req.StartDate)
	endDate, _ := parseDate(req.EndDate)

	input := service.CreateBookingInput{
		SubjectID: req.SubjectID,
		Kind:      kind,
		Title:     req.Title,
		Location:  req.Location,
		StartDate: startDate,
		EndDate:   endDate,
		Price:     req.Price,
		Currency:  req.Currency,
		Notes:     req.Notes,
	}

	booking, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, bookingToResponse(booking))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	booking, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, bookingToResponse(booking))
}

type BookingListResponse struct {
	Items   []*BookingResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	input := service.ListBookingsInput{
		SubjectID: subjectID,
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     parseLimit(r.URL.Query().Get("limit")),
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*BookingResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = bookingToResponse(&page.Items[i])
	}

	api.Success(w, http.StatusOK, BookingListResponse{
		Items:   responses,
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func parseLimit(s string) int {
	limit := 20
	if s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}
