package ttlcache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryExpiresExactlyAtTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryWithClock[string](clock.Now)
	ctx := context.Background()

	c.Set(ctx, "news:1", "hello", time.Minute)

	clock.Advance(time.Minute - time.Nanosecond)
	v, ok := c.Get(ctx, "news:1")
	require.True(t, ok, "entry must be served before its TTL elapses")
	assert.Equal(t, "hello", v)

	clock.Advance(time.Nanosecond)
	_, ok = c.Get(ctx, "news:1")
	assert.False(t, ok, "entry must miss once now reaches expiresAt")
}

func TestMemoryExpiredEntriesLinger(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewMemoryWithClock[int](clock.Now)
	ctx := context.Background()

	c.Set(ctx, "k", 1, time.Second)
	clock.Advance(2 * time.Second)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMemorySetOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewMemoryWithClock[int](clock.Now)
	ctx := context.Background()

	c.Set(ctx, "k", 1, time.Hour)
	c.Set(ctx, "k", 2, time.Second)

	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "shorter TTL from the overwrite applies")
}

func TestMemoryMissingKey(t *testing.T) {
	c := NewMemory[[]string]()
	v, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	c := NewMemory[int]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(ctx, "shared", i, time.Minute)
			c.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()

	_, ok := c.Get(ctx, "shared")
	assert.True(t, ok)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis cache test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	type card struct {
		Title string `json:"title"`
	}
	c := NewRedis[[]card](client, "test:")
	ctx := context.Background()

	c.Set(ctx, "intel-cards", []card{{Title: "Compounding"}}, 2*time.Second)

	got, ok := c.Get(ctx, "intel-cards")
	require.True(t, ok)
	assert.Equal(t, "Compounding", got[0].Title)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}
