package domain

import (
	"fmt"
	"time"
)

// IndexJobStatus represents the status of a background index job
type IndexJobStatus string

const (
	IndexJobStatusPending    IndexJobStatus = "pending"
	IndexJobStatusProcessing IndexJobStatus = "processing"
	IndexJobStatusCompleted  IndexJobStatus = "completed"
	IndexJobStatusFailed     IndexJobStatus = "failed"
)

// IndexJob represents an async indexing job: either a subject reindex or a
// document ingestion, depending on which ID is set.
type IndexJob struct {
	ID          string
	SubjectID   string // Set for subject reindex jobs
	DocumentID  string // Set for document ingestion jobs
	Status      IndexJobStatus
	Retries     int32
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ValidateIndexJob validates an IndexJob instance
func ValidateIndexJob(j *IndexJob) error {
	if j == nil {
		return fmt.Errorf("index job cannot be nil")
	}
	if j.ID == "" {
		return fmt.Errorf("index job ID is required")
	}
	if j.SubjectID == "" && j.DocumentID == "" {
		return fmt.Errorf("index job requires a subject_id or document_id")
	}
	switch j.Status {
	case IndexJobStatusPending, IndexJobStatusProcessing,
		IndexJobStatusCompleted, IndexJobStatusFailed:
	default:
		return fmt.Errorf("invalid index job status: %s", j.Status)
	}
	return nil
}

// IndexFreshness marks a subject's chunks as current until ExpiresAt. When
// the flag is absent or expired the subject must be re-indexed before
// retrieval is served for it.
type IndexFreshness struct {
	SubjectID  string    `json:"subject_id"`
	ChunkCount int       `json:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Fresh reports whether the flag is still within its TTL at now.
func (f IndexFreshness) Fresh(now time.Time) bool {
	return now.Before(f.ExpiresAt)
}
