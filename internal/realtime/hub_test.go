package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/repository/memory"
	"github.com/dtroode/storefront/internal/testutil"
)

const waitFor = 2 * time.Second

func write(t *testing.T, nodes model.NodeStore, path model.Path, value any) {
	t.Helper()
	require.NoError(t, nodes.Apply(context.Background(), []model.NodeWrite{
		{Path: path, Leaves: model.Flatten(path, value)},
	}))
}

func next(t *testing.T, ch <-chan model.Snapshot) model.Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(waitFor):
		t.Fatal("no snapshot received")
		return model.Snapshot{}
	}
}

func assertSilent(t *testing.T, ch <-chan model.Snapshot) {
	t.Helper()
	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FirstEmissionIsCurrentValue(t *testing.T) {
	t.Parallel()

	nodes := memory.NewNodeRepository()
	write(t, nodes, "users/u1", map[string]any{"name": "Ann"})
	hub := NewHub(nodes, nil, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := next(t, hub.Watch(ctx, "users/u1"))
	assert.Equal(t, model.Path("users/u1"), s.Path)
	assert.Equal(t, map[string]any{"name": "Ann"}, s.Value)
}

func TestHub_EmitsOnOverlappingChangesOnly(t *testing.T) {
	t.Parallel()

	nodes := memory.NewNodeRepository()
	hub := NewHub(nodes, nil, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Watch(ctx, "products/u1")
	assert.False(t, next(t, ch).Exists())

	write(t, nodes, "products/u1/p1/name", "Widget")
	hub.Notify(ctx, "products/u1/p1/name")
	assert.Equal(t, map[string]any{"p1": map[string]any{"name": "Widget"}}, next(t, ch).Value)

	write(t, nodes, "products/u10/p1", "other")
	hub.Notify(ctx, "products/u10/p1")
	assertSilent(t, ch)

	// Writes at an ancestor reach the watcher too.
	write(t, nodes, "products", map[string]any{"u1": map[string]any{"p2": "x"}})
	hub.Notify(ctx, "products")
	assert.Equal(t, map[string]any{"p2": "x"}, next(t, ch).Value)
}

func TestHub_SkipsUnchangedValues(t *testing.T) {
	t.Parallel()

	nodes := memory.NewNodeRepository()
	write(t, nodes, "users/u1/name", "Ann")
	hub := NewHub(nodes, nil, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Watch(ctx, "users/u1")
	next(t, ch)

	write(t, nodes, "users/u1/name", "Ann")
	hub.Notify(ctx, "users/u1/name")
	assertSilent(t, ch)
}

func TestHub_CoalescesPendingChanges(t *testing.T) {
	t.Parallel()

	nodes := memory.NewNodeRepository()
	hub := NewHub(nodes, nil, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Watch(ctx, "users/u1/name")
	next(t, ch)

	for _, name := range []string{"a", "b", "c", "d"} {
		write(t, nodes, "users/u1/name", name)
		hub.Notify(ctx, "users/u1/name")
	}

	assert.Eventually(t, func() bool {
		select {
		case s := <-ch:
			return s.Value == "d"
		default:
			return false
		}
	}, waitFor, 5*time.Millisecond)
}

func TestHub_CancelClosesAndUnregisters(t *testing.T) {
	t.Parallel()

	hub := NewHub(memory.NewNodeRepository(), nil, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	ch := hub.Watch(ctx, "users/u1")
	next(t, ch)
	assert.Equal(t, 1, hub.Watchers())

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, waitFor, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Watchers() == 0 }, waitFor, 5*time.Millisecond)
}
