package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/api/handlers"
	"github.com/tripweave-ai/tripweave/internal/api/middleware"
)

type RouterConfig struct {
	PlanHandler     *handlers.PlanHandler
	BookingHandler  *handlers.BookingHandler
	TripPlanHandler *handlers.TripPlanHandler
	HistoryHandler  *handlers.HistoryHandler
	DocumentHandler *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Documents are the largest accepted payload
	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/plan", cfg.PlanHandler.Run)
	r.Post("/context/query", cfg.PlanHandler.QueryContext)

	r.Route("/subjects/{subjectID}", func(r chi.Router) {
		r.Post("/index", cfg.PlanHandler.IndexSubject)
		r.Delete("/index", cfg.PlanHandler.DeleteSubjectIndex)
		r.Get("/bookings", cfg.BookingHandler.List)
		r.Get("/plans", cfg.TripPlanHandler.List)
		r.Put("/profile", cfg.HistoryHandler.UpsertProfile)
		r.Get("/profile", cfg.HistoryHandler.GetProfile)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", cfg.BookingHandler.Create)
		r.Get("/{id}", cfg.BookingHandler.Get)
		r.Delete("/{id}", cfg.BookingHandler.Delete)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Post("/", cfg.TripPlanHandler.Create)
		r.Get("/{id}", cfg.TripPlanHandler.Get)
		r.Put("/{id}/days", cfg.TripPlanHandler.UpdateDays)
		r.Delete("/{id}", cfg.TripPlanHandler.Delete)
	})

	r.Post("/feedback", cfg.HistoryHandler.AddFeedback)
	r.Post("/sessions", cfg.HistoryHandler.RecordSession)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", cfg.DocumentHandler.Upload)
		r.Get("/", cfg.DocumentHandler.List)
		r.Get("/{id}", cfg.DocumentHandler.Get)
		r.Delete("/{id}", cfg.DocumentHandler.Delete)
	})

	return r
}
