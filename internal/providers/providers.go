// Package providers defines the contracts for the external search and lookup
// collaborators the planner consumes. The HTTP clients behind them live in
// the application layer; the core depends only on the normalized result
// shapes in the domain package.
package providers

import (
	"context"
	"time"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// SearchCriteria carries the parameters shared by all offer searches. It is
// derived from the TripRequest and also keys the lookup cache.
type SearchCriteria struct {
	Origin      string
	Destination string
	Country     string
	StartDate   time.Time
	EndDate     time.Time
	Travelers   int
	Preferences string
}

// FlightProvider finds candidate flights for the criteria.
type FlightProvider interface {
	FindFlights(ctx context.Context, criteria SearchCriteria) ([]domain.FlightOffer, error)
}

// HotelProvider finds candidate hotels for the criteria.
type HotelProvider interface {
	FindHotels(ctx context.Context, criteria SearchCriteria) ([]domain.HotelOffer, error)
}

// CarProvider finds candidate rental cars for the criteria.
type CarProvider interface {
	FindCars(ctx context.Context, criteria SearchCriteria) ([]domain.CarOffer, error)
}

// RestaurantProvider finds candidate restaurants for the criteria.
type RestaurantProvider interface {
	FindRestaurants(ctx context.Context, criteria SearchCriteria) ([]domain.RestaurantOffer, error)
}

// Advisory is a normalized weather, safety, or visa lookup result.
type Advisory struct {
	Topic     string    `json:"topic"`
	Country   string    `json:"country"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// WeatherProvider looks up the destination forecast for the date range.
type WeatherProvider interface {
	FindWeather(ctx context.Context, criteria SearchCriteria) (Advisory, error)
}

// SafetyProvider looks up health and safety advisories for the country.
type SafetyProvider interface {
	FindSafety(ctx context.Context, criteria SearchCriteria) (Advisory, error)
}

// VisaProvider looks up entry requirements for the country.
type VisaProvider interface {
	FindVisa(ctx context.Context, criteria SearchCriteria) (Advisory, error)
}
