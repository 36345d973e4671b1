package model

import "context"

// NodeWrite replaces the subtree at Path with Leaves. Empty Leaves deletes the subtree.
type NodeWrite struct {
	Path   Path
	Leaves map[Path]any
}

// NodeStore persists the record tree as flattened leaves.
type NodeStore interface {
	// Load returns every leaf stored at or below path.
	Load(ctx context.Context, path Path) (map[Path]any, error)
	// Apply performs all writes atomically, in order. Each write removes the
	// previous subtree and any leaf stored at an ancestor of its path.
	Apply(ctx context.Context, writes []NodeWrite) error
}

// ChangeFeed fans record changes out to watchers.
type ChangeFeed interface {
	// Notify reports that the subtree at path was written.
	Notify(ctx context.Context, path Path)
	// Watch emits the value at path now and after every overlapping change,
	// until ctx is done. The channel is closed on return.
	Watch(ctx context.Context, path Path) <-chan Snapshot
}
