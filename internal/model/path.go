package model

import (
	"fmt"
	"strings"
)

// MaxPathDepth limits how deep a record may be nested.
const MaxPathDepth = 32

const pathSeparator = "/"

// Path addresses a value in the hierarchical record store, e.g. "products/{uid}/{id}".
// The zero value is the root.
type Path string

// ParsePath validates s and returns it in canonical form (no leading or trailing slashes).
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, pathSeparator)
	if s == "" {
		return "", nil
	}

	segments := strings.Split(s, pathSeparator)
	if len(segments) > MaxPathDepth {
		return "", fmt.Errorf("%w: depth %d exceeds %d", ErrInvalidPath, len(segments), MaxPathDepth)
	}
	for _, seg := range segments {
		if err := ValidateKey(seg); err != nil {
			return "", err
		}
	}

	return Path(s), nil
}

// ValidatePath reports whether p is a valid path already in canonical form.
// "products/u1/" is rejected: its empty last segment would otherwise be
// trimmed into the parent.
func ValidatePath(p Path) error {
	canonical, err := ParsePath(string(p))
	if err != nil {
		return err
	}
	if canonical != p {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidPath, string(p))
	}
	return nil
}

// NewPath joins segments into a validated path.
func NewPath(segments ...string) (Path, error) {
	return ParsePath(strings.Join(segments, pathSeparator))
}

// ValidateKey reports whether key can be used as a single path segment.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty segment", ErrInvalidPath)
	}
	if len(key) > 768 {
		return fmt.Errorf("%w: segment too long", ErrInvalidPath)
	}
	for _, r := range key {
		switch {
		case r == '.', r == '#', r == '$', r == '[', r == ']', r == '/':
			return fmt.Errorf("%w: segment %q contains %q", ErrInvalidPath, key, r)
		case r < 0x20 || r == 0x7f:
			return fmt.Errorf("%w: segment %q contains a control character", ErrInvalidPath, key)
		}
	}
	return nil
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return p == ""
}

// Segments returns the path components.
func (p Path) Segments() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(string(p), pathSeparator)
}

// Key returns the last segment, or "" for the root.
func (p Path) Key() string {
	if i := strings.LastIndex(string(p), pathSeparator); i >= 0 {
		return string(p[i+1:])
	}
	return string(p)
}

// Parent returns the enclosing path. The parent of the root is the root.
func (p Path) Parent() Path {
	if i := strings.LastIndex(string(p), pathSeparator); i >= 0 {
		return p[:i]
	}
	return ""
}

// Child appends key to p. The key is not validated.
func (p Path) Child(key string) Path {
	if p.IsRoot() {
		return Path(key)
	}
	return p + pathSeparator + Path(key)
}

// Ancestors returns every proper ancestor of p except the root, nearest last.
func (p Path) Ancestors() []Path {
	segs := p.Segments()
	if len(segs) < 2 {
		return nil
	}
	out := make([]Path, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		out = append(out, Path(strings.Join(segs[:i], pathSeparator)))
	}
	return out
}

// Contains reports whether q equals p or lies below it.
func (p Path) Contains(q Path) bool {
	if p.IsRoot() || p == q {
		return true
	}
	return strings.HasPrefix(string(q), string(p)+pathSeparator)
}

// Overlaps reports whether a change at one path can affect the value at the other.
func (p Path) Overlaps(q Path) bool {
	return p.Contains(q) || q.Contains(p)
}

// Rel returns q relative to p. q must be contained in p.
func (p Path) Rel(q Path) Path {
	if p == q {
		return ""
	}
	if p.IsRoot() {
		return q
	}
	return q[len(p)+len(pathSeparator):]
}

// DescendantRange returns the exclusive bounds of every path strictly below p
// in byte order: all descendants d satisfy lo < d < hi.
func (p Path) DescendantRange() (lo, hi string) {
	return string(p) + pathSeparator, string(p) + string(rune(pathSeparator[0]+1))
}

func (p Path) String() string {
	return string(p)
}
