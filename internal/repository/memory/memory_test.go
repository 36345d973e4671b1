package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/model"
)

func TestUserRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewUserRepository()
	u := model.User{ID: uuid.New(), Email: "a@b.co"}

	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	_, err = r.Create(ctx, model.User{ID: uuid.New(), Email: "a@b.co"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	got, err := r.GetByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = r.GetByEmail(ctx, "missing@b.co")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRefreshTokenRepository()
	user := uuid.New()

	for _, jti := range []string{"a", "b"} {
		require.NoError(t, r.Create(ctx, model.RefreshToken{JTI: jti, UserID: user, ExpiresAt: time.Now().Add(time.Hour)}))
	}

	require.NoError(t, r.RevokeByJTI(ctx, "a"))
	a, err := r.GetByJTI(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, a.RevokedAt)

	b, err := r.GetByJTI(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, b.RevokedAt)
	assert.NotEqual(t, uuid.Nil, b.ID)

	require.NoError(t, r.RevokeAllByUser(ctx, user))
	b, err = r.GetByJTI(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, b.RevokedAt)

	_, err = r.GetByJTI(ctx, "c")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNodeRepository_SubtreeSemantics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewNodeRepository()
	root := model.Path("products/u1")

	require.NoError(t, r.Apply(ctx, []model.NodeWrite{
		{Path: root, Leaves: model.Flatten(root, map[string]any{
			"p1": map[string]any{"name": "Widget", "price": "9.99"},
		})},
		{Path: "products/u10", Leaves: model.Flatten("products/u10", "other")},
	}))

	leaves, err := r.Load(ctx, root)
	require.NoError(t, err)
	assert.Len(t, leaves, 2)

	// Replacing a subtree drops the children it no longer has.
	require.NoError(t, r.Apply(ctx, []model.NodeWrite{
		{Path: "products/u1/p1", Leaves: model.Flatten("products/u1/p1", map[string]any{"name": "Renamed"})},
	}))
	leaves, err = r.Load(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, map[model.Path]any{"products/u1/p1/name": "Renamed"}, leaves)

	// Writing below a leaf removes the leaf.
	require.NoError(t, r.Apply(ctx, []model.NodeWrite{
		{Path: "products/u1/p1/name/first", Leaves: map[model.Path]any{"products/u1/p1/name/first": "Re"}},
	}))
	leaves, err = r.Load(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, map[model.Path]any{"products/u1/p1/name/first": "Re"}, leaves)

	require.NoError(t, r.Apply(ctx, []model.NodeWrite{{Path: root}}))
	leaves, err = r.Load(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	leaves, err = r.Load(ctx, "products/u10")
	require.NoError(t, err)
	assert.Equal(t, map[model.Path]any{"products/u10": "other"}, leaves)
}
