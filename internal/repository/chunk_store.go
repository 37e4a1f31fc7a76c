package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/retrieval"
)

// ErrUnscopedChunkQuery is returned when a similarity query arrives without
// a subject filter. The shared index is never read unscoped.
var ErrUnscopedChunkQuery = errors.New("chunk query requires a subject filter")

// ChunkStore persists knowledge chunks and their embeddings in the shared
// pgvector-backed index.
type ChunkStore struct {
	db dbtx
}

func NewChunkStore(pool *pgxpool.Pool) *ChunkStore {
	return &ChunkStore{db: pool}
}

func NewChunkStoreWithTx(tx dbtx) *ChunkStore {
	return &ChunkStore{db: tx}
}

// Upsert inserts chunks, replacing any existing row with the same
// content-hash ID. IDs encode subject, source, position, and content, so a
// replayed upsert of unchanged records is a no-op on the row data.
func (s *ChunkStore) Upsert(ctx context.Context, chunks []domain.KnowledgeChunk) error {
	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := s.db.Exec(ctx,
			`INSERT INTO knowledge_chunks
				(id, subject_id, source_type, source_id, chunk_index, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO UPDATE
			 SET embedding = EXCLUDED.embedding, created_at = EXCLUDED.created_at`,
			c.ID,
			c.SubjectID,
			c.SourceType,
			c.SourceID,
			c.ChunkIndex,
			c.Content,
			pgvector.NewVector(c.Embedding),
			createdAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Query returns the k nearest chunks by cosine distance, restricted to the
// filter's subjects and, when set, its source types.
func (s *ChunkStore) Query(ctx context.Context, embedding []float32, filter retrieval.QueryFilter, k int) ([]domain.RetrievedChunk, error) {
	if len(filter.SubjectIDs) == 0 {
		return nil, ErrUnscopedChunkQuery
	}
	if k <= 0 {
		k = retrieval.DefaultTopK
	}

	query := `
		SELECT id, subject_id, source_type, source_id, chunk_index, content, created_at,
		       embedding <=> $1 AS distance
		FROM knowledge_chunks
		WHERE subject_id = ANY($2)`
	args := []any{pgvector.NewVector(embedding), filter.SubjectIDs}

	if len(filter.SourceTypes) > 0 {
		types := make([]string, 0, len(filter.SourceTypes))
		for _, t := range filter.SourceTypes {
			types = append(types, string(t))
		}
		query += " AND source_type = ANY($3)"
		args = append(args, types)
	}

	query += " ORDER BY distance ASC LIMIT $" + strconv.Itoa(len(args)+1)
	args = append(args, k)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var r domain.RetrievedChunk
		var sourceType string
		if err := rows.Scan(&r.Chunk.ID, &r.Chunk.SubjectID, &sourceType, &r.Chunk.SourceID,
			&r.Chunk.ChunkIndex, &r.Chunk.Content, &r.Chunk.CreatedAt, &r.Distance); err != nil {
			return nil, err
		}
		r.Chunk.SourceType = domain.SourceType(sourceType)
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteBySubject removes every chunk tagged with the subject.
func (s *ChunkStore) DeleteBySubject(ctx context.Context, subjectID string) (int, error) {
	cmdTag, err := s.db.Exec(ctx,
		`DELETE FROM knowledge_chunks WHERE subject_id = $1`, subjectID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// DeleteBySource removes one source record's chunks within a subject.
func (s *ChunkStore) DeleteBySource(ctx context.Context, subjectID string, sourceType domain.SourceType, sourceID string) (int, error) {
	cmdTag, err := s.db.Exec(ctx,
		`DELETE FROM knowledge_chunks WHERE subject_id = $1 AND source_type = $2 AND source_id = $3`,
		subjectID, sourceType, sourceID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
