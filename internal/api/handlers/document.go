package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tripweave-ai/tripweave/internal/api"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/service"
)

type DocumentServiceInterface interface {
	Upload(ctx context.Context, input service.UploadInput) (*domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, scope string) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type DocumentHandler struct {
	svc DocumentServiceInterface
}

func NewDocumentHandler(svc DocumentServiceInterface) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type DocumentResponse struct {
	ID          string `json:"id"`
	Scope       string `json:"scope"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	SHA256      string `json:"sha256"`
	CreatedAt   string `json:"created_at"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		Scope:       d.Scope,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		SHA256:      d.SHA256,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

// Upload accepts a multipart form with a "file" field and an optional
// "scope" field. An empty scope stores the document as shared reference
// material visible to every subject.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	input := service.UploadInput{
		Scope:       r.FormValue("scope"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	doc, err := h.svc.Upload(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, documentToResponse(doc))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

type DocumentListResponse struct {
	Items []*DocumentResponse `json:"items"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	docs, err := h.svc.List(r.Context(), scope)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = documentToResponse(&docs[i])
	}

	api.Success(w, http.StatusOK, DocumentListResponse{Items: responses})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
