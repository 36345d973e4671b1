package memory

import (
	"context"
	"sync"

	"github.com/dtroode/storefront/internal/model"
)

var _ model.NodeStore = (*NodeRepository)(nil)

// NodeRepository holds the record tree as a flat leaf map.
type NodeRepository struct {
	mu     sync.RWMutex
	leaves map[model.Path]any
}

func NewNodeRepository() *NodeRepository {
	return &NodeRepository{leaves: make(map[model.Path]any)}
}

func (r *NodeRepository) Load(_ context.Context, path model.Path) (map[model.Path]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[model.Path]any)
	for p, v := range r.leaves {
		if path.Contains(p) {
			out[p] = v
		}
	}
	return out, nil
}

func (r *NodeRepository) Apply(ctx context.Context, writes []model.NodeWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range writes {
		for p := range r.leaves {
			if w.Path.Contains(p) {
				delete(r.leaves, p)
			}
		}
		for _, a := range w.Path.Ancestors() {
			delete(r.leaves, a)
		}
		for p, v := range w.Leaves {
			r.leaves[p] = v
		}
	}
	return nil
}
