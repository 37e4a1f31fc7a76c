package domain

import "time"

// OfferKind identifies the category of a normalized offer.
type OfferKind string

const (
	OfferKindFlight     OfferKind = "flight"
	OfferKindHotel      OfferKind = "hotel"
	OfferKindCar        OfferKind = "car"
	OfferKindRestaurant OfferKind = "restaurant"
)

// ValidOfferKind reports whether k names a known offer category.
func ValidOfferKind(k OfferKind) bool {
	switch k {
	case OfferKindFlight, OfferKindHotel, OfferKindCar, OfferKindRestaurant:
		return true
	}
	return false
}

// FlightOffer is a provider-agnostic flight candidate. Offers are produced by
// external search collaborators and are read-only within the core.
type FlightOffer struct {
	ID          string            `json:"id"`
	Airline     string            `json:"airline"`
	FlightNo    string            `json:"flight_no"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	DepartAt    time.Time         `json:"depart_at"`
	ArriveAt    time.Time         `json:"arrive_at"`
	Stops       int               `json:"stops"`
	DurationMin int               `json:"duration_min"`
	Price       float64           `json:"price"`
	RawPrice    string            `json:"raw_price,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Provider    string            `json:"provider,omitempty"`
	Raw         map[string]string `json:"raw,omitempty"`
}

// HotelOffer is a provider-agnostic hotel candidate. PricePerNight is the
// resolved nightly rate; Stars is the star class (0 when unknown).
type HotelOffer struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	City          string            `json:"city,omitempty"`
	Stars         float64           `json:"stars"`
	ReviewCount   int               `json:"review_count"`
	PricePerNight float64           `json:"price_per_night"`
	RawPrice      string            `json:"raw_price,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	Provider      string            `json:"provider,omitempty"`
	Raw           map[string]string `json:"raw,omitempty"`
}

// CarOffer is a provider-agnostic rental-car candidate.
type CarOffer struct {
	ID          string            `json:"id"`
	Company     string            `json:"company"`
	CarType     string            `json:"car_type"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"review_count"`
	PricePerDay float64           `json:"price_per_day"`
	RawPrice    string            `json:"raw_price,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Provider    string            `json:"provider,omitempty"`
	Raw         map[string]string `json:"raw,omitempty"`
}

// RestaurantOffer is a provider-agnostic dining candidate. AveragePrice is the
// estimated price per person.
type RestaurantOffer struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Cuisine      string            `json:"cuisine,omitempty"`
	Rating       float64           `json:"rating"`
	ReviewCount  int               `json:"review_count"`
	AveragePrice float64           `json:"average_price"`
	RawPrice     string            `json:"raw_price,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	Provider     string            `json:"provider,omitempty"`
	Raw          map[string]string `json:"raw,omitempty"`
}
