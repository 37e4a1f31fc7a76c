package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
)


// DocumentRepository tracks uploaded reference documents. The bytes live in
// blob storage; this table holds the metadata and storage key.
type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, scope, filename, content_type, size_bytes, storage_key, sha256, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Scope, d.Filename, d.ContentType, d.SizeBytes, d.StorageKey, d.SHA256, d.CreatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, scope, filename, content_type, size_bytes, storage_key, sha256, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Scope, &d.Filename, &d.ContentType, &d.SizeBytes, &d.StorageKey, &d.SHA256, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) ListByScope(ctx context.Context, scope string) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, scope, filename, content_type, size_bytes, storage_key, sha256, created_at
		 FROM documents WHERE scope = $1 ORDER BY created_at DESC`,
		scope,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Scope, &d.Filename, &d.ContentType, &d.SizeBytes,
			&d.StorageKey, &d.SHA256, &d.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
