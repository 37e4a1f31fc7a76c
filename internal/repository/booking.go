package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/pagination"
)

type BookingRepository struct {
	db dbtx
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: pool}
}

func NewBookingRepositoryWithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, subject_id, kind, title, location, start_date, end_date, price, currency, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.SubjectID, b.Kind, b.Title, nullableString(b.Location),
		nullableTime(b.StartDate), nullableTime(b.EndDate),
		b.Price, nullableString(b.Currency), nullableString(b.Notes),
		b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	var location, currency, notes *string
	var startDate, endDate *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT id, subject_id, kind, title, location, start_date, end_date, price, currency, notes, created_at, updated_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.SubjectID, &b.Kind, &b.Title, &location, &startDate, &endDate,
		&b.Price, &currency, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	applyBookingNullable(&b, location, currency, notes, startDate, endDate)
	return &b, nil
}

func (r *BookingRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subject_id, kind, title, location, start_date, end_date, price, currency, notes, created_at, updated_at
		 FROM bookings WHERE subject_id = $1 ORDER BY created_at DESC`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingRows(rows)
}

// ListBySubjectPage returns one page of a subject's bookings ordered newest
// first, using the created_at cursor.
func (r *BookingRepository) ListBySubjectPage(ctx context.Context, subjectID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[domain.Booking], error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, subject_id, kind, title, location, start_date, end_date, price, currency, notes, created_at, updated_at
		FROM bookings WHERE subject_id = $1`
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

	items, err := scanBookingRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	return &pagination.PageResult[domain.Booking]{
		Items:   items,
		HasMore: hasMore,
		Cursor: pagination.CreateNextCursor(items, limit,
			func(b domain.Booking) string { return b.ID },
			func(b domain.Booking) time.Time { return b.CreatedAt }),
	}, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanBookingRows(rows pgx.Rows) ([]domain.Booking, error) {
	var results []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var location, currency, notes *string
		var startDate, endDate *time.Time
		if err := rows.Scan(&b.ID, &b.SubjectID, &b.Kind, &b.Title, &location, &startDate, &endDate,
			&b.Price, &currency, &notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		applyBookingNullable(&b, location, currency, notes, startDate, endDate)
		results = append(results, b)
	}
	return results, rows.Err()
}

func applyBookingNullable(b *domain.Booking, location, currency, notes *string, startDate, endDate *time.Time) {
	if location != nil {
		b.Location = *location
	}
	if currency != nil {
		b.Currency = *currency
	}
	if notes != nil {
		b.Notes = *notes
	}
	if startDate != nil {
		b.StartDate = *startDate
	}
	if endDate != nil {
		b.EndDate = *endDate
	}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
