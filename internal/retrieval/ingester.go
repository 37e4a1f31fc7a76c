package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// DefaultUpsertBatch bounds how many chunks go to the store per call during
// document ingestion.
const DefaultUpsertBatch = 64

// BlobStore fetches uploaded document bytes. Implemented by the S3 storage
// client.
type BlobStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// DocumentIngester indexes uploaded reference documents into the shared
// chunk index. Each document's windows are tagged with the document identity
// and its access scope: the global subject for company documents, or the
// uploader's subject ID.
type DocumentIngester struct {
	store     VectorStore
	embedder  Embedder
	blobs     BlobStore
	windowCfg WindowConfig
	batchSize int
}

// NewDocumentIngester creates a DocumentIngester with the default window and
// batch configuration.
func NewDocumentIngester(store VectorStore, embedder Embedder, blobs BlobStore) *DocumentIngester {
	return &DocumentIngester{
		store:     store,
		embedder:  embedder,
		blobs:     blobs,
		windowCfg: DefaultWindowConfig(),
		batchSize: DefaultUpsertBatch,
	}
}

// IngestDocument extracts the document's text, windows it, and replaces the
// document's chunks in the store. Returns the number of chunks indexed.
func (d *DocumentIngester) IngestDocument(ctx context.Context, doc domain.Document) (int, error) {
	scope := doc.Scope
	if scope == "" {
		scope = domain.GlobalSubject
	}

	data, err := d.blobs.Download(ctx, doc.StorageKey)
	if err != nil {
		return 0, fmt.Errorf("failed to download document %s: %w", doc.ID, err)
	}

	text, err := ExtractText(data, doc.ContentType, doc.Filename)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text from %s: %w", doc.Filename, err)
	}

	windows := splitWindows(text, d.windowCfg)

	// Delete-then-reinsert for this document, scoped to its subject tag.
	if _, err := d.store.DeleteBySource(ctx, scope, domain.SourceTypeDocument, doc.ID); err != nil {
		return 0, fmt.Errorf("failed to clear document chunks: %w", err)
	}
	if len(windows) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	chunks := make([]domain.KnowledgeChunk, 0, len(windows))
	for idx, window := range windows {
		embedding, err := d.embedder.GenerateEmbedding(ctx, window)
		if err != nil {
			return 0, fmt.Errorf("failed to embed document window %d: %w", idx, err)
		}
		chunks = append(chunks, domain.KnowledgeChunk{
			ID:         domain.ChunkID(scope, domain.SourceTypeDocument, doc.ID, idx, window),
			SubjectID:  scope,
			SourceType: domain.SourceTypeDocument,
			SourceID:   doc.ID,
			ChunkIndex: idx,
			Content:    window,
			Embedding:  embedding,
			CreatedAt:  now,
		})
	}

	for start := 0; start < len(chunks); start += d.batchSize {
		end := start + d.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := d.store.Upsert(ctx, chunks[start:end]); err != nil {
			return 0, fmt.Errorf("failed to store document chunks: %w", err)
		}
	}
	return len(chunks), nil
}

// DeleteDocument removes the document's chunks from the index.
func (d *DocumentIngester) DeleteDocument(ctx context.Context, doc domain.Document) (int, error) {
	scope := doc.Scope
	if scope == "" {
		scope = domain.GlobalSubject
	}
	return d.store.DeleteBySource(ctx, scope, domain.SourceTypeDocument, doc.ID)
}
