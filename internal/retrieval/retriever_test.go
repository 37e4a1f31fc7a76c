package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

func seedChunk(t *testing.T, store *fakeVectorStore, embedder Embedder, subjectID string, sourceType domain.SourceType, sourceID, content string) {
	t.Helper()
	embedding, err := embedder.GenerateEmbedding(context.Background(), content)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), []domain.KnowledgeChunk{{
		ID:         domain.ChunkID(subjectID, sourceType, sourceID, 0, content),
		SubjectID:  subjectID,
		SourceType: sourceType,
		SourceID:   sourceID,
		Content:    content,
		Embedding:  embedding,
		CreatedAt:  time.Now().UTC(),
	}}))
}

func TestSearchRanksSimilarChunksFirst(t *testing.T) {
	store := newFakeVectorStore()
	embedder := NewLocalEmbedder(256)
	seedChunk(t, store, embedder, "u1", domain.SourceTypeBooking, "bk-1", "Booking: Hotel Mundial in Lisbon, four nights in May.")
	seedChunk(t, store, embedder, "u1", domain.SourceTypeFeedback, "fb-1", "Traveler feedback rated 5 out of 5: loved the quiet hotel in Lisbon.")
	seedChunk(t, store, embedder, "u1", domain.SourceTypeSession, "ss-1", "Past planning session: car rental pickup times in Reykjavik.")

	retriever := NewRetriever(store, embedder, nil)
	results, err := retriever.Search(context.Background(), "u1", "hotel in Lisbon", 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// The Lisbon hotel chunks beat the unrelated Reykjavik one.
	assert.NotEqual(t, domain.SourceTypeSession, results[0].Chunk.SourceType)
	assert.Equal(t, domain.SourceTypeSession, results[2].Chunk.SourceType)
	for _, r := range results {
		assert.NotEmpty(t, r.Band)
	}
}

func TestSearchIsolatesSubjects(t *testing.T) {
	store := newFakeVectorStore()
	embedder := NewLocalEmbedder(256)
	seedChunk(t, store, embedder, "u1", domain.SourceTypeBooking, "bk-1", "Booking: Hotel Mundial in Lisbon.")
	seedChunk(t, store, embedder, "u2", domain.SourceTypeBooking, "bk-2", "Booking: Hotel Avenida in Lisbon.")

	retriever := NewRetriever(store, embedder, nil)
	results, err := retriever.Search(context.Background(), "u1", "hotel in Lisbon", 10, nil)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "u1", results[0].Chunk.SubjectID)
}

func TestSearchIncludesGlobalScope(t *testing.T) {
	store := newFakeVectorStore()
	embedder := NewLocalEmbedder(256)
	seedChunk(t, store, embedder, "u1", domain.SourceTypeBooking, "bk-1", "Booking: Hotel Mundial in Lisbon.")
	seedChunk(t, store, embedder, domain.GlobalSubject, domain.SourceTypeDocument, "doc-1", "Company travel policy: hotels above 200 EUR per night need approval.")

	retriever := NewRetriever(store, embedder, nil)
	results, err := retriever.Search(context.Background(), "u1", "hotel policy", 10, nil)
	require.NoError(t, err)

	subjects := map[string]bool{}
	for _, r := range results {
		subjects[r.Chunk.SubjectID] = true
	}
	assert.True(t, subjects["u1"])
	assert.True(t, subjects[domain.GlobalSubject], "shared documents must stay reachable")
}

func TestSearchFiltersBySourceType(t *testing.T) {
	store := newFakeVectorStore()
	embedder := NewLocalEmbedder(256)
	seedChunk(t, store, embedder, "u1", domain.SourceTypeBooking, "bk-1", "Booking: Hotel Mundial in Lisbon.")
	seedChunk(t, store, embedder, "u1", domain.SourceTypeFeedback, "fb-1", "Traveler feedback about a hotel in Lisbon.")

	retriever := NewRetriever(store, embedder, nil)
	results, err := retriever.Search(context.Background(), "u1", "hotel", 10, []domain.SourceType{domain.SourceTypeFeedback})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, domain.SourceTypeFeedback, results[0].Chunk.SourceType)
}

func TestSearchValidatesInput(t *testing.T) {
	retriever := NewRetriever(newFakeVectorStore(), NewLocalEmbedder(64), nil)

	_, err := retriever.Search(context.Background(), "", "hotel", 5, nil)
	assert.ErrorIs(t, err, domain.ErrMissingSubject)

	_, err = retriever.Search(context.Background(), "u1", "   ", 5, nil)
	assert.ErrorIs(t, err, domain.ErrMissingQuery)
}

func TestSearchEmptyIndexReturnsNoResults(t *testing.T) {
	retriever := NewRetriever(newFakeVectorStore(), NewLocalEmbedder(64), nil)
	results, err := retriever.Search(context.Background(), "u1", "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveContextFormatsChunks(t *testing.T) {
	store := newFakeVectorStore()
	embedder := NewLocalEmbedder(256)
	seedChunk(t, store, embedder, "u1", domain.SourceTypeBooking, "bk-1", "Booking: Hotel Mundial in Lisbon.")

	retriever := NewRetriever(store, embedder, nil)
	text := retriever.RetrieveContext(context.Background(), "u1", "hotel in Lisbon", 5, nil)

	require.NotEmpty(t, text)
	line := strings.Split(text, "\n")[0]
	assert.True(t, strings.HasPrefix(line, "[booking/"), "line %q should carry source type and band", line)
	assert.Contains(t, line, "Hotel Mundial")
}

func TestRetrieveContextDegradesToEmpty(t *testing.T) {
	store := newFakeVectorStore()
	store.queryErr = errors.New("index offline")
	retriever := NewRetriever(store, NewLocalEmbedder(64), nil)

	assert.Empty(t, retriever.RetrieveContext(context.Background(), "u1", "hotel", 5, nil))
	assert.Empty(t, retriever.RetrieveContext(context.Background(), "", "hotel", 5, nil))

	embedFail := &failingEmbedder{inner: NewLocalEmbedder(64), marker: "hotel"}
	retriever = NewRetriever(newFakeVectorStore(), embedFail, nil)
	assert.Empty(t, retriever.RetrieveContext(context.Background(), "u1", "hotel", 5, nil))
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, domain.RelevanceNear, BandFor(0.0))
	assert.Equal(t, domain.RelevanceNear, BandFor(0.34))
	assert.Equal(t, domain.RelevanceMedium, BandFor(0.35))
	assert.Equal(t, domain.RelevanceMedium, BandFor(0.59))
	assert.Equal(t, domain.RelevanceFar, BandFor(0.60))
	assert.Equal(t, domain.RelevanceFar, BandFor(1.2))
}

func TestLocalEmbedderDeterministicAndNormalized(t *testing.T) {
	embedder := NewLocalEmbedder(128)
	a, err := embedder.GenerateEmbedding(context.Background(), "hotel in Lisbon near the river")
	require.NoError(t, err)
	b, err := embedder.GenerateEmbedding(context.Background(), "hotel in Lisbon near the river")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	_, err = embedder.GenerateEmbedding(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrMissingQuery)
}
