package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/repository/memory"
	"github.com/dtroode/storefront/internal/testutil"
)

func newBroadcaster(t *testing.T, ctx context.Context, addr string, nodes model.NodeStore) *RedisBroadcaster {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	b := NewRedisBroadcaster(NewHub(nodes, nil, testutil.MakeNoopLogger()), client, "", testutil.MakeNoopLogger())
	require.NoError(t, b.Start(ctx))
	return b
}

func TestRedisBroadcaster_RelaysBetweenInstances(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	nodes := memory.NewNodeRepository()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := newBroadcaster(t, ctx, mr.Addr(), nodes)
	reader := newBroadcaster(t, ctx, mr.Addr(), nodes)

	ch := reader.Watch(ctx, "products/u1")
	assert.False(t, next(t, ch).Exists())

	write(t, nodes, "products/u1/p1/name", "Widget")
	writer.Notify(ctx, "products/u1/p1/name")

	assert.Equal(t, map[string]any{"p1": map[string]any{"name": "Widget"}}, next(t, ch).Value)
}

func TestRedisBroadcaster_IgnoresOwnAndMalformedMessages(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	nodes := memory.NewNodeRepository()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBroadcaster(t, ctx, mr.Addr(), nodes)
	ch := b.Watch(ctx, "users/u1")
	next(t, ch)

	write(t, nodes, "users/u1/name", "Ann")
	b.relay(ctx, b.instanceID+"|users/u1/name")
	b.relay(ctx, "no-separator")
	b.relay(ctx, "other|users/u1/bad.key")
	assertSilent(t, ch)

	b.relay(ctx, "other|users/u1/name")
	assert.Equal(t, map[string]any{"name": "Ann"}, next(t, ch).Value)
}

func TestNewRedisClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "://bad")
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = NewRedisClient(ctx, "redis://127.0.0.1:1")
	assert.Error(t, err)
}
