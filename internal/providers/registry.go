package providers

import "github.com/tripweave-ai/tripweave/internal/domain"

// Registry groups the configured collaborators. Individual entries may be
// nil: a missing provider means that category reports "not searched" rather
// than failing the run. A registry with no offer providers at all is a
// configuration error and the one failure the core surfaces directly.
type Registry struct {
	Flights     FlightProvider
	Hotels      HotelProvider
	Cars        CarProvider
	Restaurants RestaurantProvider
	Weather     WeatherProvider
	Safety      SafetyProvider
	Visa        VisaProvider
}

// Validate confirms at least one offer provider is configured.
func (r Registry) Validate() error {
	if r.Flights == nil && r.Hotels == nil && r.Cars == nil && r.Restaurants == nil {
		return domain.ErrNoProvidersConfigured
	}
	return nil
}
