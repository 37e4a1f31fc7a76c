package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type HistoryServiceInterface interface {
	AddFeedback(ctx context.Context, input service.AddFeedbackInput) (*domain.Feedback, error)
	RecordSessionIntent(ctx context.Context, subjectID, summary string) (*domain.SessionIntent, error)
	UpsertProfile(ctx context.Context, profile domain.TravelerProfile) error
	GetProfile(ctx context.Context, subjectID string) (*domain.TravelerProfile, error)
}

type HistoryHandler struct {
	svc HistoryServiceInterface
}

func NewHistoryHandler(svc HistoryServiceInterface) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type AddFeedbackRequest struct {
	SubjectID  string `json:"subject_id"`
	TripPlanID string `json:"trip_plan_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type FeedbackResponse struct {
	ID         string `json:"id"`
	SubjectID  string `json:"subject_id"`
	TripPlanID string `json:"trip_plan_id,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

func (h *HistoryHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	var req AddFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.AddFeedbackInput{
		SubjectID:  req.SubjectID,
		TripPlanID: req.TripPlanID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	feedback, err := h.svc.AddFeedback(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, FeedbackResponse{
		ID:         feedback.ID,
		SubjectID:  feedback.SubjectID,
		TripPlanID: feedback.TripPlanID,
		Rating:     feedback.Rating,
		Comment:    feedback.Comment,
		CreatedAt:  feedback.CreatedAt.Format(time.RFC3339),
	})
}

type RecordSessionRequest struct {
	SubjectID string `json:"subject_id"`
	Summary   string `json:"summary"`
}

type SessionIntentResponse struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

func (h *HistoryHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var req RecordSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intent, err := h.svc.RecordSessionIntent(r.Context(), req.SubjectID, req.Summary)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, SessionIntentResponse{
		ID:        intent.ID,
		SubjectID: intent.SubjectID,
		Summary:   intent.Summary,
		CreatedAt: intent.CreatedAt.Format(time.RFC3339),
	})
}

type ProfileRequest struct {
	HomeCity     string   `json:"home_city"`
	SeatClass    string   `json:"seat_class"`
	HotelStars   float64  `json:"hotel_stars"`
	DietaryNotes string   `json:"dietary_notes"`
	Interests    []string `json:"interests"`
}

type ProfileResponse struct {
	SubjectID    string   `json:"subject_id"`
	HomeCity     string   `json:"home_city,omitempty"`
	SeatClass    string   `json:"seat_class,omitempty"`
	HotelStars   float64  `json:"hotel_stars,omitempty"`
	DietaryNotes string   `json:"dietary_notes,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	UpdatedAt    string   `json:"updated_at"`
}

func (h *HistoryHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := domain.TravelerProfile{
		SubjectID:    subjectID,
		HomeCity:     req.HomeCity,
		SeatClass:    req.SeatClass,
		HotelStars:   req.HotelStars,
		DietaryNotes: req.DietaryNotes,
		Interests:    req.Interests,
	}

	if err := h.svc.UpsertProfile(r.Context(), profile); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"subject_id": subjectID, "status": "updated"})
}

func (h *HistoryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), subjectID)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if profile == nil {
		api.HandleError(w, domain.ErrProfileNotFound)
		return
	}

	api.Success(w, http.StatusOK, ProfileResponse{
		SubjectID:    profile.SubjectID,
		HomeCity:     profile.HomeCity,
		SeatClass:    profile.SeatClass,
		HotelStars:   profile.HotelStars,
		DietaryNotes: profile.DietaryNotes,
		Interests:    profile.Interests,
		UpdatedAt:    profile.UpdatedAt.Format(time.RFC3339),
	})
}
