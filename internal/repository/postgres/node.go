package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/storefront/internal/model"
)

var _ model.NodeStore = (*NodeRepository)(nil)

// NodeRepository keeps the record tree in the nodes table, one row per leaf.
type NodeRepository struct {
	db *Connection
}

func NewNodeRepository(db *Connection) *NodeRepository {
	return &NodeRepository{db: db}
}

// subtreeFilter selects path and everything below it. The column uses the C
// collation so the range matches byte order.
func subtreeFilter(path model.Path) (string, []any) {
	if path.IsRoot() {
		return `TRUE`, nil
	}
	lo, hi := path.DescendantRange()
	return `(path = $1 OR (path > $2 AND path < $3))`, []any{string(path), lo, hi}
}

func (r *NodeRepository) Load(ctx context.Context, path model.Path) (map[model.Path]any, error) {
	where, args := subtreeFilter(path)

	rows, err := r.db.Query(ctx, `SELECT path, value::text FROM nodes WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	leaves := make(map[model.Path]any)
	for rows.Next() {
		var p, raw string
		if err := rows.Scan(&p, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode node %s: %w", p, err)
		}
		leaves[model.Path(p)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nodes: %w", err)
	}

	return leaves, nil
}

func (r *NodeRepository) Apply(ctx context.Context, writes []model.NodeWrite) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		for _, w := range writes {
			if err := applyWrite(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyWrite(ctx context.Context, tx pgx.Tx, w model.NodeWrite) error {
	where, args := subtreeFilter(w.Path)
	if _, err := tx.Exec(ctx, `DELETE FROM nodes WHERE `+where, args...); err != nil {
		return fmt.Errorf("failed to clear subtree %s: %w", w.Path, err)
	}

	if ancestors := w.Path.Ancestors(); len(ancestors) > 0 {
		keys := make([]string, len(ancestors))
		for i, a := range ancestors {
			keys[i] = string(a)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM nodes WHERE path = ANY($1)`, keys); err != nil {
			return fmt.Errorf("failed to clear ancestors of %s: %w", w.Path, err)
		}
	}

	if len(w.Leaves) == 0 {
		return nil
	}

	paths := make([]string, 0, len(w.Leaves))
	values := make([]string, 0, len(w.Leaves))
	for p, v := range w.Leaves {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode node %s: %w", p, err)
		}
		paths = append(paths, string(p))
		values = append(values, string(raw))
	}

	const insert = `
        INSERT INTO nodes (path, value)
        SELECT p, v::jsonb FROM unnest($1::text[], $2::text[]) AS t(p, v)
    `
	if _, err := tx.Exec(ctx, insert, paths, values); err != nil {
		return fmt.Errorf("failed to write subtree %s: %w", w.Path, err)
	}

	return nil
}
