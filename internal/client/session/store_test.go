package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/testutil"
)

type recorder struct {
	mu   sync.Mutex
	seen []*model.Session
}

func (r *recorder) listen(s *model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) users() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, 0, len(r.seen))
	for _, s := range r.seen {
		if s == nil {
			out = append(out, uuid.Nil)
			continue
		}
		out = append(out, s.UserID)
	}
	return out
}

func newSession(refresh string) model.Session {
	return model.Session{UserID: uuid.New(), Email: "a@b.com", AccessToken: "acc-" + refresh, RefreshToken: refresh}
}

func TestStore_SubscribeBeforeStartWaitsForSettle(t *testing.T) {
	t.Parallel()

	backend := mocks.NewSessionBackend(t)
	s := New(backend, nil, testutil.MakeNoopLogger())

	rec := &recorder{}
	s.Subscribe(rec.listen)
	assert.Empty(t, rec.users())

	s.Start(context.Background())
	assert.Equal(t, []uuid.UUID{uuid.Nil}, rec.users())

	late := &recorder{}
	s.Subscribe(late.listen)
	assert.Equal(t, []uuid.UUID{uuid.Nil}, late.users())
}

func TestStore_SignInSignOutSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := mocks.NewSessionBackend(t)
	session := newSession("r1")
	backend.On("SignIn", mock.Anything, "a@b.com", "secret1").Return(session, nil)
	backend.On("SignOut", mock.Anything, "r1").Return(nil)

	s := New(backend, nil, testutil.MakeNoopLogger())
	s.Start(ctx)

	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.listen)

	got, err := s.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.Equal(t, "acc-r1", s.AccessToken())

	require.NoError(t, s.SignOut(ctx))
	assert.Nil(t, s.Current())

	assert.Equal(t, []uuid.UUID{uuid.Nil, session.UserID, uuid.Nil}, rec.users())

	unsubscribe()
	unsubscribe()
	_, _ = s.SignIn(ctx, "a@b.com", "secret1")
	assert.Len(t, rec.users(), 3)
}

func TestStore_SignInFailureKeepsState(t *testing.T) {
	t.Parallel()

	backend := mocks.NewSessionBackend(t)
	backend.On("SignIn", mock.Anything, "a@b.com", "bad").Return(model.Session{}, model.NewAuthError(model.AuthErrInvalidCredential))

	s := New(backend, nil, testutil.MakeNoopLogger())
	s.Start(context.Background())
	rec := &recorder{}
	s.Subscribe(rec.listen)

	_, err := s.SignIn(context.Background(), "a@b.com", "bad")
	var authErr *model.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, model.AuthErrInvalidCredential, authErr.Code)
	assert.Len(t, rec.users(), 1)
}

func TestStore_SignOutSurvivesBackendFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := mocks.NewSessionBackend(t)
	backend.On("SignUp", mock.Anything, "a@b.com", "secret1").Return(newSession("r1"), nil)
	backend.On("SignOut", mock.Anything, "r1").Return(errors.New("offline"))

	s := New(backend, nil, testutil.MakeNoopLogger())
	s.Start(ctx)

	_, err := s.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.SignOut(ctx))
	assert.Nil(t, s.Current())

	require.NoError(t, s.SignOut(ctx))
}

func TestStore_RestoresSavedSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	file := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, file.Save("saved"))

	restored := newSession("rotated")
	backend := mocks.NewSessionBackend(t)
	backend.On("Refresh", mock.Anything, "saved").Return(restored, nil)

	s := New(backend, file, testutil.MakeNoopLogger())
	rec := &recorder{}
	s.Subscribe(rec.listen)
	s.Start(ctx)

	assert.Equal(t, []uuid.UUID{restored.UserID}, rec.users())
	token, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, "rotated", token)
}

func TestStore_RejectedSavedSessionIsForgotten(t *testing.T) {
	t.Parallel()

	file := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, file.Save("revoked"))

	backend := mocks.NewSessionBackend(t)
	backend.On("Refresh", mock.Anything, "revoked").Return(model.Session{}, model.NewAuthError(model.AuthErrSessionExpired))

	s := New(backend, file, testutil.MakeNoopLogger())
	s.Start(context.Background())

	assert.Nil(t, s.Current())
	token, err := file.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_Refresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := newSession("r1")
	second := first
	second.AccessToken, second.RefreshToken = "acc-r2", "r2"

	backend := mocks.NewSessionBackend(t)
	backend.On("SignIn", mock.Anything, "a@b.com", "secret1").Return(first, nil)
	backend.On("Refresh", mock.Anything, "r1").Return(second, nil).Once()
	backend.On("Refresh", mock.Anything, "r2").Return(model.Session{}, model.NewAuthError(model.AuthErrSessionExpired)).Once()

	s := New(backend, nil, testutil.MakeNoopLogger())
	s.Start(ctx)

	_, err := s.Refresh(ctx)
	assert.ErrorIs(t, err, model.ErrNoSession)

	_, err = s.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	got, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-r2", got.AccessToken)
	assert.Equal(t, "acc-r2", s.AccessToken())

	_, err = s.Refresh(ctx)
	require.Error(t, err)
	assert.Nil(t, s.Current())
}

func TestStore_RenewSharesRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := newSession("r1")
	second := first
	second.AccessToken, second.RefreshToken = "acc-r2", "r2"

	backend := mocks.NewSessionBackend(t)
	backend.On("SignIn", mock.Anything, "a@b.com", "secret1").Return(first, nil)
	backend.On("Refresh", mock.Anything, "r1").Return(second, nil).Once()

	s := New(backend, nil, testutil.MakeNoopLogger())
	s.Start(ctx)
	_, err := s.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Renew(ctx, first.AccessToken)
			assert.NoError(t, err)
			assert.Equal(t, "acc-r2", got.AccessToken)
		}()
	}
	wg.Wait()
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	f := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	token, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, f.Save("tok"))
	token, err = f.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())
}
