package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tripweave-ai/tripweave/internal/cache"
	"github.com/tripweave-ai/tripweave/internal/domain"
)

// DefaultFreshnessTTL is how long a subject's index is trusted before a
// retrieval forces a rebuild. Amortizes indexing cost across a chat session
// while bounding staleness.
const DefaultFreshnessTTL = 300 * time.Second

// SourceReader loads a subject's indexable records. Implemented by the
// repository layer.
type SourceReader interface {
	BookingsBySubject(ctx context.Context, subjectID string) ([]domain.Booking, error)
	PlansBySubject(ctx context.Context, subjectID string) ([]domain.TripPlan, error)
	FeedbackBySubject(ctx context.Context, subjectID string) ([]domain.Feedback, error)
	SessionsBySubject(ctx context.Context, subjectID string) ([]domain.SessionIntent, error)
	ProfileBySubject(ctx context.Context, subjectID string) (*domain.TravelerProfile, error)
}

// Indexer rebuilds a subject's slice of the shared chunk index. Reindexing
// is always delete-all-then-reinsert for the subject tag, so no fragment of
// a deleted or edited record survives.
type Indexer struct {
	sources  SourceReader
	store    VectorStore
	embedder Embedder
	cache    cache.KeyValueCache
	ttl      time.Duration
}

// NewIndexer creates an Indexer. The cache holds the per-subject freshness
// flags; a nil cache disables freshness and every retrieval reindexes.
func NewIndexer(sources SourceReader, store VectorStore, embedder Embedder, kv cache.KeyValueCache) *Indexer {
	return &Indexer{
		sources:  sources,
		store:    store,
		embedder: embedder,
		cache:    kv,
		ttl:      DefaultFreshnessTTL,
	}
}

// WithFreshnessTTL overrides the freshness window.
func (i *Indexer) WithFreshnessTTL(ttl time.Duration) *Indexer {
	if ttl > 0 {
		i.ttl = ttl
	}
	return i
}

type chunkDraft struct {
	sourceType domain.SourceType
	sourceID   string
	index      int
	content    string
}

// IndexSubject rebuilds the subject's chunks and returns how many were
// indexed. Each source-record group is gathered and embedded independently:
// one failing group is recorded and the others still index. When at least
// one group failed the returned error carries the INDEXING_PARTIAL_FAILURE
// code alongside the count of chunks that did index.
func (i *Indexer) IndexSubject(ctx context.Context, subjectID string) (int, error) {
	if strings.TrimSpace(subjectID) == "" {
		return 0, domain.ErrMissingSubject
	}

	groups := []struct {
		name   string
		gather func() ([]chunkDraft, error)
	}{
		{"bookings", func() ([]chunkDraft, error) { return i.gatherBookings(ctx, subjectID) }},
		{"plans", func() ([]chunkDraft, error) { return i.gatherPlans(ctx, subjectID) }},
		{"feedback", func() ([]chunkDraft, error) { return i.gatherFeedback(ctx, subjectID) }},
		{"sessions", func() ([]chunkDraft, error) { return i.gatherSessions(ctx, subjectID) }},
		{"profile", func() ([]chunkDraft, error) { return i.gatherProfile(ctx, subjectID) }},
	}

	var drafts []chunkDraft
	var failedGroups []string
	for _, group := range groups {
		groupDrafts, err := group.gather()
		if err != nil {
			log.Printf("retrieval: indexing group %s for subject %s failed: %v", group.name, subjectID, err)
			failedGroups = append(failedGroups, group.name)
			continue
		}
		drafts = append(drafts, groupDrafts...)
	}

	chunks, embedFailed := i.embedDrafts(ctx, subjectID, drafts)
	failedGroups = append(failedGroups, embedFailed...)

	// Delete-then-reinsert for the whole subject tag. The delete carries
	// the subject filter like every other store operation.
	if _, err := i.store.DeleteBySubject(ctx, subjectID); err != nil {
		return 0, fmt.Errorf("failed to clear subject index: %w", err)
	}
	if len(chunks) > 0 {
		if err := i.store.Upsert(ctx, chunks); err != nil {
			return 0, fmt.Errorf("failed to store subject chunks: %w", err)
		}
	}

	i.markFresh(ctx, subjectID, len(chunks))

	if len(failedGroups) > 0 {
		return len(chunks), domain.NewDomainError(domain.ErrCodeIndexingPartial,
			fmt.Sprintf("groups failed to index: %s", strings.Join(failedGroups, ", ")))
	}
	return len(chunks), nil
}

// DeleteSubjectIndex removes every chunk for the subject and clears its
// freshness flag.
func (i *Indexer) DeleteSubjectIndex(ctx context.Context, subjectID string) (int, error) {
	if strings.TrimSpace(subjectID) == "" {
		return 0, domain.ErrMissingSubject
	}
	deleted, err := i.store.DeleteBySubject(ctx, subjectID)
	if err != nil {
		return 0, err
	}
	if i.cache != nil {
		i.cache.Delete(ctx, freshnessKey(subjectID))
	}
	return deleted, nil
}

// EnsureFresh reindexes the subject when no freshness flag exists or the
// flag has expired. A lost cache backend reads as absent, which degrades to
// a conservative reindex rather than serving stale chunks.
func (i *Indexer) EnsureFresh(ctx context.Context, subjectID string) error {
	if i.cache != nil {
		var flag domain.IndexFreshness
		if i.cache.Get(ctx, freshnessKey(subjectID), &flag) && flag.Fresh(time.Now()) {
			return nil
		}
	}
	_, err := i.IndexSubject(ctx, subjectID)
	return err
}

func (i *Indexer) markFresh(ctx context.Context, subjectID string, count int) {
	if i.cache == nil {
		return
	}
	now := time.Now().UTC()
	i.cache.Set(ctx, freshnessKey(subjectID), domain.IndexFreshness{
		SubjectID:  subjectID,
		ChunkCount: count,
		IndexedAt:  now,
		ExpiresAt:  now.Add(i.ttl),
	}, i.ttl)
}

func freshnessKey(subjectID string) string {
	return "index:fresh:" + subjectID
}

// embedDrafts embeds drafts grouped by source type so an embedder outage for
// one group does not discard the others.
func (i *Indexer) embedDrafts(ctx context.Context, subjectID string, drafts []chunkDraft) ([]domain.KnowledgeChunk, []string) {
	chunks := make([]domain.KnowledgeChunk, 0, len(drafts))
	failed := map[domain.SourceType]bool{}
	now := time.Now().UTC()

	for _, draft := range drafts {
		if failed[draft.sourceType] {
			continue
		}
		embedding, err := i.embedder.GenerateEmbedding(ctx, draft.content)
		if err != nil {
			log.Printf("retrieval: embedding %s chunk for subject %s failed: %v", draft.sourceType, subjectID, err)
			failed[draft.sourceType] = true
			continue
		}
		chunks = append(chunks, domain.KnowledgeChunk{
			ID:         domain.ChunkID(subjectID, draft.sourceType, draft.sourceID, draft.index, draft.content),
			SubjectID:  subjectID,
			SourceType: draft.sourceType,
			SourceID:   draft.sourceID,
			ChunkIndex: draft.index,
			Content:    draft.content,
			Embedding:  embedding,
			CreatedAt:  now,
		})
	}

	var failedNames []string
	for sourceType := range failed {
		failedNames = append(failedNames, string(sourceType)+" embedding")
	}
	if len(failed) > 0 {
		// Drop the chunks of failed groups entirely so a group is either
		// fully indexed or fully absent, never half-present.
		kept := chunks[:0]
		for _, c := range chunks {
			if !failed[c.SourceType] {
				kept = append(kept, c)
			}
		}
		chunks = kept
	}
	return chunks, failedNames
}

func (i *Indexer) gatherBookings(ctx context.Context, subjectID string) ([]chunkDraft, error) {
	bookings, err := i.sources.BookingsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	var drafts []chunkDraft
	for _, b := range bookings {
		drafts = append(drafts, chunkDraft{
			sourceType: domain.SourceTypeBooking,
			sourceID:   b.ID,
			content:    bookingNarrative(b),
		})
	}
	return drafts, nil
}

func (i *Indexer) gatherPlans(ctx context.Context, subjectID string) ([]chunkDraft, error) {
	plans, err := i.sources.PlansBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	var drafts []chunkDraft
	for _, p := range plans {
		for idx, content := range planNarratives(p) {
			drafts = append(drafts, chunkDraft{
				sourceType: domain.SourceTypePlan,
				sourceID:   p.ID,
				index:      idx,
				content:    content,
			})
		}
	}
	return drafts, nil
}

func (i *Indexer) gatherFeedback(ctx context.Context, subjectID string) ([]chunkDraft, error) {
	feedback, err := i.sources.FeedbackBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	var drafts []chunkDraft
	for _, f := range feedback {
		drafts = append(drafts, chunkDraft{
			sourceType: domain.SourceTypeFeedback,
			sourceID:   f.ID,
			content:    feedbackNarrative(f),
		})
	}
	return drafts, nil
}

func (i *Indexer) gatherSessions(ctx context.Context, subjectID string) ([]chunkDraft, error) {
	sessions, err := i.sources.SessionsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	var drafts []chunkDraft
	for _, s := range sessions {
		if strings.TrimSpace(s.Summary) == "" {
			continue
		}
		drafts = append(drafts, chunkDraft{
			sourceType: domain.SourceTypeSession,
			sourceID:   s.ID,
			content:    sessionNarrative(s),
		})
	}
	return drafts, nil
}

func (i *Indexer) gatherProfile(ctx context.Context, subjectID string) ([]chunkDraft, error) {
	profile, err := i.sources.ProfileBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	content := profileNarrative(*profile)
	if content == "" {
		return nil, nil
	}
	return []chunkDraft{{
		sourceType: domain.SourceTypeProfile,
		sourceID:   subjectID,
		content:    content,
	}}, nil
}
