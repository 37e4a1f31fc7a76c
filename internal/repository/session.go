package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// SessionRepository stores summarized intents from past planning sessions.
type SessionRepository struct {
	db dbtx
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: pool}
}

func NewSessionRepositoryWithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.SessionIntent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO session_intents (id, subject_id, summary, created_at)
		 VALUES ($1, $2, $3, $4)`,
		s.ID, s.SubjectID, s.Summary, s.CreatedAt,
	)
	return err
}

func (r *SessionRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.SessionIntent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subject_id, summary, created_at
		 FROM session_intents WHERE subject_id = $1 ORDER BY created_at DESC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SessionIntent
	for rows.Next() {
		var s domain.SessionIntent
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.Summary, &s.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
