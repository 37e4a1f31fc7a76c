package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
)


// TripPlanRepository persists saved plans. The day-by-day narrative is
// stored as a JSONB column since days are only ever read and written with
// their plan.
type TripPlanRepository struct {
	db dbtx
}

func NewTripPlanRepository(pool *pgxpool.Pool) *TripPlanRepository {
	return &TripPlanRepository{db: pool}
}

func NewTripPlanRepositoryWithTx(tx pgx.Tx) *TripPlanRepository {
	return &TripPlanRepository{db: tx}
}

func (r *TripPlanRepository) Create(ctx context.Context, p *domain.TripPlan) error {
	days, err := json.Marshal(p.Days)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO trip_plans (id, subject_id, destination, country, start_date, end_date, days, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.SubjectID, p.Destination, nullableString(p.Country),
		nullableTime(p.StartDate), nullableTime(p.EndDate), days, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *TripPlanRepository) Update(ctx context.Context, p *domain.TripPlan) error {
	days, err := json.Marshal(p.Days)
	if err != nil {
		return err
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE trip_plans
		 SET destination = $1, country = $2, start_date = $3, end_date = $4, days = $5, updated_at = $6
		 WHERE id = $7`,
		p.Destination, nullableString(p.Country), nullableTime(p.StartDate), nullableTime(p.EndDate),
		days, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTripPlanNotFound
	}
	return nil
}

func (r *TripPlanRepository) GetByID(ctx context.Context, id string) (*domain.TripPlan, error) {
	var p domain.TripPlan
	var country *string
	var startDate, endDate *time.Time
	var days []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, subject_id, destination, country, start_date, end_date, days, created_at, updated_at
		 FROM trip_plans WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.SubjectID, &p.Destination, &country, &startDate, &endDate, &days, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripPlanNotFound
		}
		return nil, err
	}
	applyPlanNullable(&p, country, startDate, endDate)
	if len(days) > 0 {
		if err := json.Unmarshal(days, &p.Days); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *TripPlanRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.TripPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subject_id, destination, country, start_date, end_date, days, created_at, updated_at
		 FROM trip_plans WHERE subject_id = $1 ORDER BY updated_at DESC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripPlanRows(rows)
}

func (r *TripPlanRepository) ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.TripPlan], error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, subject_id, destination, country, start_date, end_date, days, created_at, updated_at
		FROM trip_plans WHERE subject_id = $1`
	args := []any{subjectID}

	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.Timestamp, cursor.LastID)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanTripPlanRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	return &pagination.PageResult[domain.TripPlan]{
		Items:   items,
		HasMore: hasMore,
		Cursor: pagination.CreateNextCursor(items, limit,
			func(p domain.TripPlan) string { return p.ID },
			func(p domain.TripPlan) time.Time { return p.CreatedAt }),
	}, nil
}

func (r *TripPlanRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM trip_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTripPlanNotFound
	}
	return nil
}

func scanTripPlanRows(rows pgx.Rows) ([]domain.TripPlan, error) {
	var results []domain.TripPlan
	for rows.Next() {
		var p domain.TripPlan
		var country *string
		var startDate, endDate *time.Time
		var days []byte
		if err := rows.Scan(&p.ID, &p.SubjectID, &p.Destination, &country, &startDate, &endDate,
			&days, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		applyPlanNullable(&p, country, startDate, endDate)
		if len(days) > 0 {
			if err := json.Unmarshal(days, &p.Days); err != nil {
				return nil, err
			}
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func applyPlanNullable(p *domain.TripPlan, country *string, startDate, endDate *time.Time) {
	if country != nil {
		p.Country = *country
	}
	if startDate != nil {
		p.StartDate = *startDate
	}
	if endDate != nil {
		p.EndDate = *endDate
	}
}
