package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// Distance thresholds for the coarse relevance bands.
const (
	nearDistance   = 0.35
	mediumDistance = 0.60
)

// DefaultTopK is the retrieval depth when the caller does not specify one.
const DefaultTopK = 5

// Retriever serves grounding context from the shared chunk index. Every
// query carries the subject filter plus the global scope, so one subject's
// history can never leak into another's answer while shared documents stay
// reachable.
type Retriever struct {
	store    VectorStore
	embedder Embedder
	indexer  *Indexer
}

// NewRetriever creates a Retriever. The indexer enforces the freshness TTL
// before subject-scoped queries; it may be nil when freshness is managed
// elsewhere.
func NewRetriever(store VectorStore, embedder Embedder, indexer *Indexer) *Retriever {
	return &Retriever{store: store, embedder: embedder, indexer: indexer}
}

// Search returns the top-k chunks for the query, each annotated with a
// relevance band. An empty result is valid and does not error.
func (r *Retriever) Search(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, domain.ErrMissingSubject
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrMissingQuery
	}
	if k <= 0 {
		k = DefaultTopK
	}

	if r.indexer != nil && subjectID != domain.GlobalSubject {
		if err := r.indexer.EnsureFresh(ctx, subjectID); err != nil {
			// A partial index still serves; only log the gap.
			log.Printf("retrieval: refresh for subject %s degraded: %v", subjectID, err)
		}
	}

	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeRetrievalDegraded, "query embedding failed", err)
	}

	subjects := []string{subjectID}
	if subjectID != domain.GlobalSubject {
		subjects = append(subjects, domain.GlobalSubject)
	}

	results, err := r.store.Query(ctx, embedding, QueryFilter{
		SubjectIDs:  subjects,
		SourceTypes: sourceTypes,
	}, k)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeRetrievalDegraded, "chunk query failed", err)
	}

	for i := range results {
		results[i].Band = BandFor(results[i].Distance)
	}
	return results, nil
}

// RetrieveContext renders the top-k chunks as grounding text. All failures
// degrade to an empty string: callers treat "no grounding context" the same
// as "answer from general knowledge".
func (r *Retriever) RetrieveContext(ctx context.Context, subjectID, query string, k int, sourceTypes []domain.SourceType) string {
	results, err := r.Search(ctx, subjectID, query, k, sourceTypes)
	if err != nil {
		log.Printf("retrieval: context for subject %s degraded to empty: %v", subjectID, err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s/%s] %s", result.Chunk.SourceType, result.Band, result.Chunk.Content)
	}
	return sb.String()
}

// BandFor maps a cosine distance to its coarse relevance band.
func BandFor(distance float64) domain.RelevanceBand {
	switch {
	case distance < nearDistance:
		return domain.RelevanceNear
	case distance < mediumDistance:
		return domain.RelevanceMedium
	default:
		return domain.RelevanceFar
	}
}
