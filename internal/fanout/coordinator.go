// Package fanout runs the mutually independent external lookups behind a
// planning request concurrently, with a bounded worker pool, a per-task
// timeout, and memoized results. Task failures become error markers in the
// task's result slot; the request never blocks on one slow provider beyond
// that provider's own timeout.
package fanout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripweave-ai/tripweave/internal/cache"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/providers"
)

const (
	// DefaultConcurrency bounds how many lookups run at once.
	DefaultConcurrency = 8
	// DefaultTaskTimeout is the individual deadline for each lookup. There
	// is no global deadline across tasks; a caller wanting one wraps the
	// whole run externally.
	DefaultTaskTimeout = 60 * time.Second
)

// Cache lifetimes tuned per data volatility.
const (
	TTLFlights = 10 * time.Minute
	TTLHotels  = 10 * time.Minute
	TTLCars    = 30 * time.Minute
	TTLDining  = time.Hour
	TTLWeather = 30 * time.Minute
	TTLSafety  = 24 * time.Hour
	TTLVisa    = 7 * 24 * time.Hour
)

// LookupResults holds one result slot per independent lookup. A pending slot
// means that lookup was never attempted (no provider configured).
type LookupResults struct {
	Flights     domain.Result[[]domain.FlightOffer]
	Hotels      domain.Result[[]domain.HotelOffer]
	Cars        domain.Result[[]domain.CarOffer]
	Restaurants domain.Result[[]domain.RestaurantOffer]
	Weather     domain.Result[providers.Advisory]
	Safety      domain.Result[providers.Advisory]
	Visa        domain.Result[providers.Advisory]
}

// Coordinator fans independent lookups out over a bounded pool.
type Coordinator struct {
	registry    providers.Registry
	cache       cache.KeyValueCache
	concurrency int
	taskTimeout time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConcurrency overrides the worker-pool bound.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTaskTimeout overrides the per-task timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.taskTimeout = d
		}
	}
}

// NewCoordinator creates a Coordinator over the configured providers. The
// cache may be a MemoryCache when no shared backend is available.
func NewCoordinator(registry providers.Registry, kv cache.KeyValueCache, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:    registry,
		cache:       kv,
		concurrency: DefaultConcurrency,
		taskTimeout: DefaultTaskTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FanOut runs every configured lookup concurrently and collects the slots.
// It never returns an error: per-task failures land in their slots.
func (c *Coordinator) FanOut(ctx context.Context, criteria providers.SearchCriteria) LookupResults {
	var results LookupResults

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	if c.registry.Flights != nil {
		g.Go(func() error {
			results.Flights = c.LookupFlights(gctx, criteria)
			return nil
		})
	}
	if c.registry.Hotels != nil {
		g.Go(func() error {
			results.Hotels = c.LookupHotels(gctx, criteria)
			return nil
		})
	}
	if c.registry.Cars != nil {
		g.Go(func() error {
			results.Cars = c.LookupCars(gctx, criteria)
			return nil
		})
	}
	if c.registry.Restaurants != nil {
		g.Go(func() error {
			results.Restaurants = c.LookupRestaurants(gctx, criteria)
			return nil
		})
	}
	if c.registry.Weather != nil {
		g.Go(func() error {
			results.Weather = c.lookupAdvisory(gctx, "weather", TTLWeather, criteria, c.registry.Weather.FindWeather)
			return nil
		})
	}
	if c.registry.Safety != nil {
		g.Go(func() error {
			results.Safety = c.lookupAdvisory(gctx, "safety", TTLSafety, criteria, c.registry.Safety.FindSafety)
			return nil
		})
	}
	if c.registry.Visa != nil {
		g.Go(func() error {
			results.Visa = c.lookupAdvisory(gctx, "visa", TTLVisa, criteria, c.registry.Visa.FindVisa)
			return nil
		})
	}

	// Tasks never return errors; Wait only fences completion.
	_ = g.Wait()
	return results
}

// LookupFlights runs the flight search with memoization and the task timeout.
func (c *Coordinator) LookupFlights(ctx context.Context, criteria providers.SearchCriteria) domain.Result[[]domain.FlightOffer] {
	if c.registry.Flights == nil {
		return domain.Pending[[]domain.FlightOffer]()
	}
	return lookup(ctx, c, "flights", TTLFlights, criteria, c.registry.Flights.FindFlights)
}

// LookupHotels runs the hotel search with memoization and the task timeout.
func (c *Coordinator) LookupHotels(ctx context.Context, criteria providers.SearchCriteria) domain.Result[[]domain.HotelOffer] {
	if c.registry.Hotels == nil {
		return domain.Pending[[]domain.HotelOffer]()
	}
	return lookup(ctx, c, "hotels", TTLHotels, criteria, c.registry.Hotels.FindHotels)
}

// LookupCars runs the car search with memoization and the task timeout.
func (c *Coordinator) LookupCars(ctx context.Context, criteria providers.SearchCriteria) domain.Result[[]domain.CarOffer] {
	if c.registry.Cars == nil {
		return domain.Pending[[]domain.CarOffer]()
	}
	return lookup(ctx, c, "cars", TTLCars, criteria, c.registry.Cars.FindCars)
}

// LookupRestaurants runs the dining search with memoization and the task timeout.
func (c *Coordinator) LookupRestaurants(ctx context.Context, criteria providers.SearchCriteria) domain.Result[[]domain.RestaurantOffer] {
	if c.registry.Restaurants == nil {
		return domain.Pending[[]domain.RestaurantOffer]()
	}
	return lookup(ctx, c, "dining", TTLDining, criteria, c.registry.Restaurants.FindRestaurants)
}

func (c *Coordinator) lookupAdvisory(
	ctx context.Context,
	topic string,
	ttl time.Duration,
	criteria providers.SearchCriteria,
	find func(context.Context, providers.SearchCriteria) (providers.Advisory, error),
) domain.Result[providers.Advisory] {
	return lookup(ctx, c, topic, ttl, criteria, find)
}

// lookup is the shared memoize-then-call path: cache hit short-circuits, a
// miss falls through to the provider under the task timeout, and a success
// is written back best-effort.
func lookup[T any](
	ctx context.Context,
	c *Coordinator,
	name string,
	ttl time.Duration,
	criteria providers.SearchCriteria,
	find func(context.Context, providers.SearchCriteria) (T, error),
) domain.Result[T] {
	key := cacheKey(name, criteria)

	var cached T
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return domain.Ok(cached)
	}

	taskCtx, cancel := context.WithTimeout(ctx, c.taskTimeout)
	defer cancel()

	value, err := find(taskCtx, criteria)
	if err != nil {
		return domain.Fail[T](fmt.Sprintf("%s lookup failed: %v", name, err))
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, value, ttl)
	}
	return domain.Ok(value)
}

// cacheKey derives a stable key from the lookup name and its parameters.
func cacheKey(name string, criteria providers.SearchCriteria) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d|%s",
		name,
		criteria.Origin,
		criteria.Destination,
		criteria.Country,
		criteria.StartDate.Format("2006-01-02"),
		criteria.EndDate.Format("2006-01-02"),
		criteria.Travelers,
		criteria.Preferences,
	)))
	return "lookup:" + name + ":" + hex.EncodeToString(h[:16])
}
