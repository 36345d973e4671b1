package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Path
		wantErr bool
	}{
		{name: "root", in: "", want: ""},
		{name: "trims slashes", in: "/users/abc/", want: "users/abc"},
		{name: "nested", in: "products/u1/p1", want: "products/u1/p1"},
		{name: "empty segment", in: "products//p1", wantErr: true},
		{name: "dot", in: "users/a.b", wantErr: true},
		{name: "hash", in: "users/#", wantErr: true},
		{name: "dollar", in: "users/$id", wantErr: true},
		{name: "brackets", in: "users/[0]", wantErr: true},
		{name: "control character", in: "users/a\nb", wantErr: true},
		{name: "too deep", in: strings.Repeat("a/", MaxPathDepth) + "a", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePath(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("products/u1/p1"))

	for _, p := range []Path{"products/u1/", "/products/u1", "products//p1", "products/a.b"} {
		assert.ErrorIs(t, ValidatePath(p), ErrInvalidPath, "%q", p)
	}
}

func TestPath_Navigation(t *testing.T) {
	t.Parallel()

	p := Path("products/u1/p1")

	assert.Equal(t, []string{"products", "u1", "p1"}, p.Segments())
	assert.Equal(t, "p1", p.Key())
	assert.Equal(t, Path("products/u1"), p.Parent())
	assert.Equal(t, Path("products/u1/p1/name"), p.Child("name"))
	assert.Equal(t, []Path{"products", "products/u1"}, p.Ancestors())
	assert.Equal(t, Path(""), Path("users").Parent())
	assert.Equal(t, Path("users"), Path("").Child("users"))
	assert.Nil(t, Path("").Segments())
}

func TestPath_ContainsAndOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p, q         Path
		contains     bool
		overlaps     bool
		containsBack bool
	}{
		{p: "products/u1", q: "products/u1", contains: true, overlaps: true, containsBack: true},
		{p: "products/u1", q: "products/u1/p1", contains: true, overlaps: true},
		{p: "products/u1/p1", q: "products/u1", overlaps: true, containsBack: true},
		{p: "products/u1", q: "products/u10", contains: false, overlaps: false},
		{p: "users/u1", q: "products/u1"},
		{p: "", q: "users/u1", contains: true, overlaps: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.contains, tt.p.Contains(tt.q), "%q contains %q", tt.p, tt.q)
		assert.Equal(t, tt.containsBack, tt.q.Contains(tt.p), "%q contains %q", tt.q, tt.p)
		assert.Equal(t, tt.overlaps, tt.p.Overlaps(tt.q), "%q overlaps %q", tt.p, tt.q)
	}
}

func TestPath_Rel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Path("p1/name"), Path("products/u1").Rel("products/u1/p1/name"))
	assert.Equal(t, Path(""), Path("products/u1").Rel("products/u1"))
	assert.Equal(t, Path("users/u1"), Path("").Rel("users/u1"))
}

func TestPath_DescendantRange(t *testing.T) {
	t.Parallel()

	lo, hi := Path("products/u1").DescendantRange()
	for _, d := range []string{"products/u1/a", "products/u1/zzz/name", "products/u1/-N1"} {
		assert.True(t, lo < d && d < hi, "%q should be in range", d)
	}
	for _, o := range []string{"products/u1", "products/u10/a", "products/u1-x"} {
		assert.False(t, lo < o && o < hi, "%q should be out of range", o)
	}
}
