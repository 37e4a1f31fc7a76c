// Package retrieval grounds planning and conversational responses in
// subject-scoped history. It chunks heterogeneous source records into
// descriptive text fragments, embeds and stores them with a subject tag, and
// serves top-k context for a query. One shared index backs every subject;
// isolation is enforced by a mandatory subject filter on every read and
// every delete.
package retrieval

import (
	"context"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// QueryFilter scopes a similarity query. SubjectIDs is mandatory: the shared
// index is never queried unscoped.
type QueryFilter struct {
	SubjectIDs  []string
	SourceTypes []domain.SourceType
}

// VectorStore is the chunk index contract. The pgvector-backed
// implementation lives in the repository package.
type VectorStore interface {
	// Upsert inserts or replaces chunks by their content-hash IDs.
	Upsert(ctx context.Context, chunks []domain.KnowledgeChunk) error

	// Query returns the k nearest chunks to the embedding, restricted by
	// the filter. Implementations must reject an empty subject filter.
	Query(ctx context.Context, embedding []float32, filter QueryFilter, k int) ([]domain.RetrievedChunk, error)

	// DeleteBySubject removes every chunk tagged with the subject and
	// reports how many were removed.
	DeleteBySubject(ctx context.Context, subjectID string) (int, error)

	// DeleteBySource removes the chunks of one source record within a
	// subject, for delete-then-reinsert on record change.
	DeleteBySource(ctx context.Context, subjectID string, sourceType domain.SourceType, sourceID string) (int, error)
}

// Embedder turns text into a vector. The OpenAI-backed client is used when
// an API key is configured; the local fallback keeps retrieval working
// keyless.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
