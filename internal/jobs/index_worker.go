package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

const (
	// MaxRetries is the maximum number of retries for a failed job
	MaxRetries = 3

	// claimBatchSize caps how many jobs a single poll claims
	claimBatchSize = 10
)

// IndexJobRepository defines the interface for index job persistence
type IndexJobRepository interface {
	// ClaimPending retrieves pending index jobs and marks them processing
	ClaimPending(ctx context.Context, limit int) ([]*domain.IndexJob, error)

	// UpdateStatus updates the status of an index job
	UpdateStatus(ctx context.Context, id string, status domain.IndexJobStatus, errMsg string) error

	// IncrementRetries increments the retry count for a job
	IncrementRetries(ctx context.Context, id string) error
}

// SubjectIndexer rebuilds a subject's knowledge index from its history.
type SubjectIndexer interface {
	IndexSubject(ctx context.Context, subjectID string) (int, error)
}

// DocumentIngester chunks and indexes an uploaded document.
type DocumentIngester interface {
	IngestDocument(ctx context.Context, doc domain.Document) (int, error)
}

// DocumentReader loads document metadata for ingestion jobs.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// IndexWorker processes queued index jobs. Subject jobs re-index a
// traveler's history; document jobs ingest an uploaded document.
type IndexWorker struct {
	repo      IndexJobRepository
	indexer   SubjectIndexer
	ingester  DocumentIngester
	documents DocumentReader
}

// NewIndexWorker creates a new IndexWorker instance
func NewIndexWorker(repo IndexJobRepository, indexer SubjectIndexer, ingester DocumentIngester, documents DocumentReader) *IndexWorker {
	return &IndexWorker{
		repo:      repo,
		indexer:   indexer,
		ingester:  ingester,
		documents: documents,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *IndexWorker) ProcessJobs(ctx context.Context) error {
	jobs, err := w.repo.ClaimPending(ctx, claimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending index jobs", len(jobs))

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}

	return nil
}

func (w *IndexWorker) processJob(ctx context.Context, job *domain.IndexJob) error {
	var err error
	switch {
	case job.DocumentID != "":
		log.Printf("Processing job %s for document %s", job.ID, job.DocumentID)
		err = w.ingestDocument(ctx, job.DocumentID)
	case job.SubjectID != "":
		log.Printf("Processing job %s for subject %s", job.ID, job.SubjectID)
		_, err = w.indexer.IndexSubject(ctx, job.SubjectID)
	default:
		return fmt.Errorf("job %s has neither subject_id nor document_id", job.ID)
	}

	if err != nil {
		return w.handleJobFailure(ctx, job, err)
	}

	if err := w.repo.UpdateStatus(ctx, job.ID, domain.IndexJobStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	log.Printf("Job %s completed successfully", job.ID)
	return nil
}

func (w *IndexWorker) ingestDocument(ctx context.Context, documentID string) error {
	doc, err := w.documents.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	_, err = w.ingester.IngestDocument(ctx, *doc)
	return err
}

// handleJobFailure handles a failed job with retry logic
func (w *IndexWorker) handleJobFailure(ctx context.Context, job *domain.IndexJob, jobErr error) error {
	log.Printf("Job %s failed: %v", job.ID, jobErr)

	if err := w.repo.IncrementRetries(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to increment retries: %w", err)
	}

	if job.Retries+1 >= MaxRetries {
		log.Printf("Job %s exceeded max retries (%d), marking as failed", job.ID, MaxRetries)
		errMsg := fmt.Sprintf("max retries exceeded: %v", jobErr)
		if err := w.repo.UpdateStatus(ctx, job.ID, domain.IndexJobStatusFailed, errMsg); err != nil {
			return fmt.Errorf("failed to update job status to failed: %w", err)
		}
		return nil
	}

	// Reset to pending so the next poll picks it up again
	log.Printf("Job %s will be retried (attempt %d/%d)", job.ID, job.Retries+1, MaxRetries)
	errMsg := fmt.Sprintf("retry %d: %v", job.Retries+1, jobErr)
	if err := w.repo.UpdateStatus(ctx, job.ID, domain.IndexJobStatusPending, errMsg); err != nil {
		return fmt.Errorf("failed to reset job status to pending: %w", err)
	}

	return nil
}
