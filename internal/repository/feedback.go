package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackRepository struct {
	db dbtx
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: pool}
}

func NewFeedbackRepositoryWithTx(tx pgx.Tx) *FeedbackRepository {
	return &FeedbackRepository{db: tx}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, subject_id, trip_plan_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.SubjectID, nullableString(f.TripPlanID), f.Rating, nullableString(f.Comment), f.CreatedAt,
	)
	return err
}

func (r *FeedbackRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.Feedback, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subject_id, trip_plan_id, rating, comment, created_at
		 FROM feedback WHERE subject_id = $1 ORDER BY created_at DESC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var tripPlanID, comment *string
		if err := rows.Scan(&f.ID, &f.SubjectID, &tripPlanID, &f.Rating, &comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		if tripPlanID != nil {
			f.TripPlanID = *tripPlanID
		}
		if comment != nil {
			f.Comment = *comment
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
