package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	c.Set(ctx, "offer", payload{Name: "Harborview", Price: 110}, time.Minute)

	var got payload
	assert.True(t, c.Get(ctx, "offer", &got))
	assert.Equal(t, "Harborview", got.Name)
	assert.InDelta(t, 110.0, got.Price, 1e-9)
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got string
	assert.False(t, c.Get(ctx, "absent", &got))

	c.Set(ctx, "short", "value", time.Nanosecond)
	time.Sleep(time.Millisecond)
	assert.False(t, c.Get(ctx, "short", &got))
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "key", "value", time.Minute)
	c.Delete(ctx, "key")

	var got string
	assert.False(t, c.Get(ctx, "key", &got))
}
