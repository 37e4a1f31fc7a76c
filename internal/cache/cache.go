// Package cache provides the best-effort key-value cache behind lookup
// memoization and index-freshness flags. Cache failures are swallowed: a
// broken cache backend must never fail a request, only make it slower.
package cache

import (
	"context"
	"time"
)

// KeyValueCache is the best-effort cache contract. Get reports whether the
// key was found and decoded; Set stores with a TTL. Neither returns an
// error: backend failures are logged and treated as a miss.
type KeyValueCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
