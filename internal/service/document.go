package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// DocumentRepositoryInterface defines the repository interface for document metadata
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByScope(ctx context.Context, scope string) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage is the blob backend for uploaded documents.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
}

// DocumentIngesterInterface removes a document's chunks from the index.
type DocumentIngesterInterface interface {
	DeleteDocument(ctx context.Context, doc domain.Document) (int, error)
}

// maxDocumentBytes bounds uploads; larger reference material should be split
// before upload.
const maxDocumentBytes = 20 << 20

// DocumentService handles reference document uploads. Bytes go to blob
// storage, metadata to the database, and an ingestion job is queued in the
// same transaction as the metadata row.
type DocumentService struct {
	tx       TxRunner
	repo     DocumentRepositoryInterface
	blobs    ObjectStorage
	ingester DocumentIngesterInterface
	uuidGen  UUIDGenerator
}

func NewDocumentService(tx TxRunner, repo DocumentRepositoryInterface, blobs ObjectStorage, ingester DocumentIngesterInterface) *DocumentService {
	return &DocumentService{tx: tx, repo: repo, blobs: blobs, ingester: ingester, uuidGen: &DefaultUUIDGenerator{}}
}

func NewDocumentServiceWithUUIDGen(tx TxRunner, repo DocumentRepositoryInterface, blobs ObjectStorage, ingester DocumentIngesterInterface, uuidGen UUIDGenerator) *DocumentService {
	return &DocumentService{tx: tx, repo: repo, blobs: blobs, ingester: ingester, uuidGen: uuidGen}
}

// UploadInput represents the input for uploading a reference document
type UploadInput struct {
	Scope       string
	Filename    string
	ContentType string
	Data        []byte
}

// Upload stores the document and queues its ingestion into the chunk index.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Upload", telemetry.SpanAttributes{
		SubjectID: input.Scope,
		Operation: "upload",
	})
	defer span.End()

	if input.Filename == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document filename is required")
	}
	if len(input.Data) == 0 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document body is empty")
	}
	if len(input.Data) > maxDocumentBytes {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document exceeds the upload size limit")
	}

	scope := input.Scope
	if scope == "" {
		scope = domain.GlobalSubject
	}

	now := time.Now().UTC()
	id := s.uuidGen.NewString()
	sum := sha256.Sum256(input.Data)

	doc := &domain.Document{
		ID:          id,
		Scope:       scope,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		SizeBytes:   int64(len(input.Data)),
		StorageKey:  fmt.Sprintf("documents/%s/%s", scope, id),
		SHA256:      hex.EncodeToString(sum[:]),
		CreatedAt:   now,
	}

	if err := s.blobs.Upload(ctx, doc.StorageKey, doc.ContentType, input.Data); err != nil {
		span.SetError(err)
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Documents().Create(ctx, doc); err != nil {
			return err
		}
		return repos.IndexJobs().Create(ctx, &domain.IndexJob{
			ID:         s.uuidGen.NewString(),
			DocumentID: doc.ID,
			Status:     domain.IndexJobStatusPending,
			CreatedAt:  now,
		})
	})
	if err != nil {
		// The metadata write failed after the blob landed. Best-effort
		// cleanup; an orphaned blob is harmless to retrieval.
		_ = s.blobs.DeleteObject(ctx, doc.StorageKey)
		span.SetError(err)
		return nil, err
	}
	return doc, nil
}

// GetByID retrieves document metadata.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the documents visible in a scope. An empty scope lists the
// shared company documents.
func (s *DocumentService) List(ctx context.Context, scope string) ([]domain.Document, error) {
	if scope == "" {
		scope = domain.GlobalSubject
	}
	return s.repo.ListByScope(ctx, scope)
}

// Delete removes a document everywhere it exists: chunk index first, then
// blob, then metadata.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Delete", telemetry.SpanAttributes{
		DocumentID: id,
		Operation:  "delete",
	})
	defer span.End()

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.ingester.DeleteDocument(ctx, *doc); err != nil {
		span.SetError(err)
		return err
	}
	if err := s.blobs.DeleteObject(ctx, doc.StorageKey); err != nil {
		span.SetError(err)
		return err
	}
	return s.repo.Delete(ctx, id)
}
