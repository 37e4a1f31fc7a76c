package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// ProfileRepository stores one preference profile per subject.
type ProfileRepository struct {
	db dbtx
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool}
}

func NewProfileRepositoryWithTx(tx pgx.Tx) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// Upsert writes the subject's profile, replacing any existing one.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.TravelerProfile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO traveler_profiles (subject_id, home_city, seat_class, hotel_stars, dietary_notes, interests, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (subject_id) DO UPDATE
		 SET home_city = EXCLUDED.home_city,
		     seat_class = EXCLUDED.seat_class,
		     hotel_stars = EXCLUDED.hotel_stars,
		     dietary_notes = EXCLUDED.dietary_notes,
		     interests = EXCLUDED.interests,
		     updated_at = EXCLUDED.updated_at`,
		p.SubjectID, nullableString(p.HomeCity), nullableString(p.SeatClass),
		p.HotelStars, nullableString(p.DietaryNotes), p.Interests, p.UpdatedAt,
	)
	return err
}

// GetBySubject returns the subject's profile, or nil when none is stored.
func (r *ProfileRepository) GetBySubject(ctx context.Context, subjectID string) (*domain.TravelerProfile, error) {
	var p domain.TravelerProfile
	var homeCity, seatClass, dietaryNotes *string
	err := r.db.QueryRow(ctx,
		`SELECT subject_id, home_city, seat_class, hotel_stars, dietary_notes, interests, updated_at
		 FROM traveler_profiles WHERE subject_id = $1`,
		subjectID,
	).Scan(&p.SubjectID, &homeCity, &seatClass, &p.HotelStars, &dietaryNotes, &p.Interests, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if homeCity != nil {
		p.HomeCity = *homeCity
	}
	if seatClass != nil {
		p.SeatClass = *seatClass
	}
	if dietaryNotes != nil {
		p.DietaryNotes = *dietaryNotes
	}
	return &p, nil
}
