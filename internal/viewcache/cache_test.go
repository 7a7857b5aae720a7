package viewcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Cache {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return map[string]Cache{
		"memory": NewMemory(time.Minute),
		"redis":  NewRedis(client, time.Minute),
	}
}

func TestPutGet(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ticket, err := c.Begin(ctx, "A@example.com")
			require.NoError(t, err)
			require.NoError(t, c.Put(ctx, ticket, ViewMyIssues, []string{"i1", "i2"}))

			var got []string
			ok, err := c.Get(ctx, "a@example.com", ViewMyIssues, &got)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []string{"i1", "i2"}, got)

			ok, err = c.Get(ctx, "a@example.com", ViewMyContributions, &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStaleTicketIsDropped(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stale, err := c.Begin(ctx, "a@example.com")
			require.NoError(t, err)

			// A write lands while the slow read is still in flight.
			require.NoError(t, c.Invalidate(ctx, "a@example.com"))
			require.NoError(t, c.Put(ctx, stale, ViewMyContributions, []string{"old"}))

			var got []string
			ok, err := c.Get(ctx, "a@example.com", ViewMyContributions, &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestInvalidateDropsCachedViews(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ticket, err := c.Begin(ctx, "a@example.com")
			require.NoError(t, err)
			require.NoError(t, c.Put(ctx, ticket, ViewMyContributions, []string{"c1"}))
			require.NoError(t, c.Invalidate(ctx, "a@example.com"))

			var got []string
			ok, err := c.Get(ctx, "a@example.com", ViewMyContributions, &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCancelledContextDoesNotStore(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ticket, err := c.Begin(context.Background(), "a@example.com")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			require.NoError(t, c.Put(ctx, ticket, ViewMyIssues, []string{"abandoned"}))

			var got []string
			ok, err := c.Get(context.Background(), "a@example.com", ViewMyIssues, &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
