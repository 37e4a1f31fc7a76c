package domain

import "time"

// Booking is a confirmed reservation in a subject's history. One of the
// source-record families chunked for retrieval.
type Booking struct {
	ID        string
	SubjectID string
	Kind      OfferKind
	Title     string
	Location  string
	StartDate time.Time
	EndDate   time.Time
	Price     float64
	Currency  string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TripPlan is a saved plan with its day-by-day narrative.
type TripPlan struct {
	ID          string
	SubjectID   string
	Destination string
	Country     string
	StartDate   time.Time
	EndDate     time.Time
	Days        []PlanDay
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanDay is one day of a trip plan's narrative.
type PlanDay struct {
	Day       int
	Title     string
	Narrative string
}

// Feedback is a subject's rating of a past trip or recommendation.
type Feedback struct {
	ID         string
	SubjectID  string
	TripPlanID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// SessionIntent is a summarized intent from a past planning session.
type SessionIntent struct {
	ID        string
	SubjectID string
	Summary   string
	CreatedAt time.Time
}

// TravelerProfile is a subject's stored preferences.
type TravelerProfile struct {
	SubjectID    string
	HomeCity     string
	SeatClass    string
	HotelStars   float64
	DietaryNotes string
	Interests    []string
	UpdatedAt    time.Time
}

// Document is an uploaded reference document. Scope is GlobalSubject for
// company-wide documents or a specific uploader's subject ID.
type Document struct {
	ID          string
	Scope       string
	Filename    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	SHA256      string
	CreatedAt   time.Time
}
