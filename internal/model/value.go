package model

import (
	"fmt"
	"sort"
)

// Normalize converts v into the canonical tree form used by the record store:
// map[string]any for objects, string, float64, bool for leaves, nil for absent.
// Empty objects collapse to nil.
func Normalize(v any) (any, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (any, error) {
	if depth > MaxPathDepth {
		return nil, fmt.Errorf("%w: nesting exceeds %d levels", ErrInvalidValue, MaxPathDepth)
	}

	switch t := v.(type) {
	case nil:
		return nil, nil
	case string, bool, float64:
		return t, nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			if err := ValidateKey(k); err != nil {
				return nil, err
			}
			out[k] = s
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if err := ValidateKey(k); err != nil {
				return nil, err
			}
			n, err := normalize(child, depth+1)
			if err != nil {
				return nil, err
			}
			if n != nil {
				out[k] = n
			}
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

// Flatten returns the leaves of v keyed by their absolute path under root.
// v must already be normalized.
func Flatten(root Path, v any) map[Path]any {
	leaves := make(map[Path]any)
	flatten(root, v, leaves)
	return leaves
}

func flatten(p Path, v any, leaves map[Path]any) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for k, child := range t {
			flatten(p.Child(k), child, leaves)
		}
	default:
		leaves[p] = t
	}
}

// Assemble rebuilds the value at root from leaves stored at or below it.
// Leaves outside root are ignored.
func Assemble(root Path, leaves map[Path]any) any {
	if v, ok := leaves[root]; ok {
		return v
	}

	var tree map[string]any
	for p, v := range leaves {
		if p == root || !root.Contains(p) {
			continue
		}
		if tree == nil {
			tree = make(map[string]any)
		}
		segs := root.Rel(p).Segments()
		node := tree
		for _, seg := range segs[:len(segs)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[seg] = next
			}
			node = next
		}
		node[segs[len(segs)-1]] = v
	}

	if tree == nil {
		return nil
	}
	return tree
}

// Snapshot is the complete value at a path at one point in time.
type Snapshot struct {
	Path  Path
	Value any
}

// Exists reports whether any value is stored at the snapshot path.
func (s Snapshot) Exists() bool {
	return s.Value != nil
}

// ChildKeys returns the keys of an object value in store key order.
func (s Snapshot) ChildKeys() []string {
	m, ok := s.Value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Child returns the snapshot of a direct child.
func (s Snapshot) Child(key string) Snapshot {
	var v any
	if m, ok := s.Value.(map[string]any); ok {
		v = m[key]
	}
	return Snapshot{Path: s.Path.Child(key), Value: v}
}

// Text returns the value as text. Numbers and booleans are formatted;
// objects and absent values yield "".
func (s Snapshot) Text() string {
	switch t := s.Value.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}
