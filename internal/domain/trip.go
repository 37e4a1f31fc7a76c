package domain

import (
	"strings"
	"time"
)

// TripRequest describes one planning run. It is immutable once a run starts;
// the pipeline copies values out of it but never writes back.
type TripRequest struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Country     string    `json:"country,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Travelers   int       `json:"travelers"`
	Budget      float64   `json:"budget"`
	Currency    string    `json:"currency,omitempty"`
	Preferences string    `json:"preferences,omitempty"`
	SubjectID   string    `json:"subject_id,omitempty"`
}

// Nights returns the number of hotel nights implied by the date range.
// A same-day or inverted range counts as one night.
func (r TripRequest) Nights() int {
	nights := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// Validate checks the fields a planning run cannot proceed without.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return NewDomainError(ErrCodeValidation, "trip request missing origin")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return NewDomainError(ErrCodeValidation, "trip request missing destination")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewDomainError(ErrCodeValidation, "trip request missing date range")
	}
	if r.EndDate.Before(r.StartDate) {
		return NewDomainError(ErrCodeValidation, "trip request end date before start date")
	}
	if r.Travelers <= 0 {
		return NewDomainError(ErrCodeValidation, "trip request needs at least one traveler")
	}
	if r.Budget < 0 {
		return NewDomainError(ErrCodeValidation, "trip request budget cannot be negative")
	}
	return nil
}
