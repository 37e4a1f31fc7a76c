package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// fakeVectorStore is an in-memory VectorStore that ranks by real cosine
// distance, so tests exercise actual similarity ordering.
type fakeVectorStore struct {
	mu     sync.Mutex
	chunks map[string]domain.KnowledgeChunk

	upsertErr error
	queryErr  error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{chunks: map[string]domain.KnowledgeChunk{}}
}

func (f *fakeVectorStore) Upsert(_ context.Context, chunks []domain.KnowledgeChunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		f.chunks[c.ID] = c
	}
	return nil
}

func (f *fakeVectorStore) Query(_ context.Context, embedding []float32, filter QueryFilter, k int) ([]domain.RetrievedChunk, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(filter.SubjectIDs) == 0 {
		return nil, errors.New("unscoped query rejected")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	subjects := map[string]bool{}
	for _, s := range filter.SubjectIDs {
		subjects[s] = true
	}
	types := map[domain.SourceType]bool{}
	for _, t := range filter.SourceTypes {
		types[t] = true
	}

	var results []domain.RetrievedChunk
	for _, c := range f.chunks {
		if !subjects[c.SubjectID] {
			continue
		}
		if len(types) > 0 && !types[c.SourceType] {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:    c,
			Distance: cosineDistance(embedding, c.Embedding),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (f *fakeVectorStore) DeleteBySubject(_ context.Context, subjectID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for id, c := range f.chunks {
		if c.SubjectID == subjectID {
			delete(f.chunks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeVectorStore) DeleteBySource(_ context.Context, subjectID string, sourceType domain.SourceType, sourceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for id, c := range f.chunks {
		if c.SubjectID == subjectID && c.SourceType == sourceType && c.SourceID == sourceID {
			delete(f.chunks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeVectorStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

func (f *fakeVectorStore) countBySubject(subjectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.chunks {
		if c.SubjectID == subjectID {
			n++
		}
	}
	return n
}

func (f *fakeVectorStore) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for id := range f.chunks {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func cosineDistance(a, b []float32) float64 {
	var dot float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
	}
	return 1 - dot
}

// fakeSourceReader serves fixed records per subject, with optional per-group
// failures.
type fakeSourceReader struct {
	bookings map[string][]domain.Booking
	plans    map[string][]domain.TripPlan
	feedback map[string][]domain.Feedback
	sessions map[string][]domain.SessionIntent
	profiles map[string]*domain.TravelerProfile

	bookingsErr error
	plansErr    error
	feedbackErr error
}

func (f *fakeSourceReader) BookingsBySubject(_ context.Context, subjectID string) ([]domain.Booking, error) {
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return f.bookings[subjectID], nil
}

func (f *fakeSourceReader) PlansBySubject(_ context.Context, subjectID string) ([]domain.TripPlan, error) {
	if f.plansErr != nil {
		return nil, f.plansErr
	}
	return f.plans[subjectID], nil
}

func (f *fakeSourceReader) FeedbackBySubject(_ context.Context, subjectID string) ([]domain.Feedback, error) {
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback[subjectID], nil
}

func (f *fakeSourceReader) SessionsBySubject(_ context.Context, subjectID string) ([]domain.SessionIntent, error) {
	return f.sessions[subjectID], nil
}

func (f *fakeSourceReader) ProfileBySubject(_ context.Context, subjectID string) (*domain.TravelerProfile, error) {
	return f.profiles[subjectID], nil
}

// failingEmbedder fails for texts containing a marker substring.
type failingEmbedder struct {
	inner  Embedder
	marker string
}

func (f *failingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.marker != "" && strings.Contains(strings.ToLower(text), strings.ToLower(f.marker)) {
		return nil, errors.New("embedder unavailable")
	}
	return f.inner.GenerateEmbedding(ctx, text)
}

// fakeBlobStore serves fixed bytes per key.
type fakeBlobStore struct {
	blobs map[string][]byte
	err   error
}

func (f *fakeBlobStore) Download(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, errors.New("blob not found: " + key)
	}
	return data, nil
}
