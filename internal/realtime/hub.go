// Package realtime fans record changes out to watchers, locally through
// Hub and across server instances through RedisBroadcaster.
package realtime

import (
	"context"
	"reflect"
	"sync"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// Metrics receives watcher lifecycle events.
type Metrics interface {
	WatcherStarted()
	WatcherStopped()
	SnapshotDelivered()
}

type noopMetrics struct{}

func (noopMetrics) WatcherStarted()    {}
func (noopMetrics) WatcherStopped()    {}
func (noopMetrics) SnapshotDelivered() {}

var _ model.ChangeFeed = (*Hub)(nil)

// Hub delivers the current value of a path to each watcher whenever an
// overlapping path changes. Notify never blocks: each watcher holds at most
// one pending change and reloads the latest value when it gets to it.
type Hub struct {
	nodes   model.NodeStore
	metrics Metrics
	logger  *logger.Logger

	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

type watcher struct {
	path  model.Path
	dirty chan struct{}
}

func NewHub(nodes model.NodeStore, metrics Metrics, logger *logger.Logger) *Hub {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Hub{
		nodes:    nodes,
		metrics:  metrics,
		logger:   logger,
		watchers: make(map[*watcher]struct{}),
	}
}

// Notify marks every watcher whose path overlaps path.
func (h *Hub) Notify(_ context.Context, path model.Path) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers {
		if w.path.Overlaps(path) {
			w.mark()
		}
	}
}

// Watch emits the value at path immediately and after every change, skipping
// emissions equal to the previous one. The channel closes when ctx is done.
func (h *Hub) Watch(ctx context.Context, path model.Path) <-chan model.Snapshot {
	w := &watcher{path: path, dirty: make(chan struct{}, 1)}
	w.mark()

	h.mu.Lock()
	h.watchers[w] = struct{}{}
	h.mu.Unlock()
	h.metrics.WatcherStarted()

	out := make(chan model.Snapshot)
	go h.run(ctx, w, out)
	return out
}

// Watchers returns the number of active watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

func (h *Hub) run(ctx context.Context, w *watcher, out chan<- model.Snapshot) {
	defer func() {
		h.mu.Lock()
		delete(h.watchers, w)
		h.mu.Unlock()
		h.metrics.WatcherStopped()
		close(out)
	}()

	var (
		last model.Snapshot
		sent bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.dirty:
		}

		leaves, err := h.nodes.Load(ctx, w.path)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.logger.Error("Realtime hub: failed to load snapshot",
				"path", w.path,
				"error", err.Error())
			continue
		}

		snap := model.Snapshot{Path: w.path, Value: model.Assemble(w.path, leaves)}
		if sent && reflect.DeepEqual(last.Value, snap.Value) {
			continue
		}

		select {
		case out <- snap:
			last, sent = snap, true
			h.metrics.SnapshotDelivered()
		case <-ctx.Done():
			return
		}
	}
}

func (w *watcher) mark() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}
