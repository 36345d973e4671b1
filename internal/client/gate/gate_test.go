package gate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/client/nav"
	"github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/testutil"
)

// captureListener returns the session listener registered by Start.
func captureListener(t *testing.T, sessions *mocks.SessionStore, unsubscribe model.Unsubscribe) *func(*model.Session) {
	t.Helper()
	var listener func(*model.Session)
	sessions.On("Subscribe", mock.Anything).
		Run(func(args mock.Arguments) { listener = args.Get(0).(func(*model.Session)) }).
		Return(unsubscribe).Once()
	return &listener
}

func drain(ch <-chan State) (State, bool) {
	select {
	case s := <-ch:
		return s, true
	default:
		return 0, false
	}
}

func TestGate_TransitionsFollowNotifications(t *testing.T) {
	t.Parallel()

	sessions := mocks.NewSessionStore(t)
	unsubscribed := 0
	listener := captureListener(t, sessions, func() { unsubscribed++ })

	stack := nav.NewStack()
	g := New(sessions, stack, testutil.MakeNoopLogger())

	assert.Equal(t, Loading, g.State())
	assert.Nil(t, g.Screens())
	assert.False(t, g.Allows(model.ScreenAuth))

	g.Start()
	g.Start()
	require.NotNil(t, *listener)

	s1 := &model.Session{UserID: uuid.New(), Email: "a@b.com"}
	var seen []State
	for _, s := range []*model.Session{nil, s1, nil} {
		(*listener)(s)
		state, ok := drain(g.Changes())
		require.True(t, ok)
		seen = append(seen, state)

		route, _ := stack.Current()
		if state == Authenticated {
			assert.Equal(t, model.ScreenHome, route.Screen)
			assert.True(t, g.Allows(model.ScreenProduct))
			assert.False(t, g.Allows(model.ScreenAuth))
		} else {
			assert.Equal(t, model.ScreenAuth, route.Screen)
			assert.Equal(t, []model.Screen{model.ScreenAuth}, g.Screens())
		}
	}
	assert.Equal(t, []State{Unauthenticated, Authenticated, Unauthenticated}, seen)

	g.Close()
	g.Close()
	assert.Equal(t, 1, unsubscribed)
}

func TestGate_SameUserDoesNotResetNavigation(t *testing.T) {
	t.Parallel()

	sessions := mocks.NewSessionStore(t)
	listener := captureListener(t, sessions, nil)

	stack := nav.NewStack()
	g := New(sessions, stack, testutil.MakeNoopLogger())
	g.Start()

	s1 := &model.Session{UserID: uuid.New(), AccessToken: "a1"}
	(*listener)(s1)
	_, _ = drain(g.Changes())

	stack.Navigate(model.ScreenProduct, "p1")

	refreshed := *s1
	refreshed.AccessToken = "a2"
	(*listener)(&refreshed)

	_, changed := drain(g.Changes())
	assert.False(t, changed)
	route, _ := stack.Current()
	assert.Equal(t, model.ScreenProduct, route.Screen)

	(*listener)(&model.Session{UserID: uuid.New()})
	state, changed := drain(g.Changes())
	assert.True(t, changed)
	assert.Equal(t, Authenticated, state)
	route, _ = stack.Current()
	assert.Equal(t, model.ScreenHome, route.Screen)
}

func TestGate_NavigatesWithoutResetter(t *testing.T) {
	t.Parallel()

	sessions := mocks.NewSessionStore(t)
	listener := captureListener(t, sessions, nil)

	navigator := mocks.NewNavigator(t)
	navigator.On("Navigate", model.ScreenAuth, nil).Once()

	g := New(sessions, navigator, testutil.MakeNoopLogger())
	g.Start()
	(*listener)(nil)

	assert.Equal(t, Unauthenticated, g.State())
}

func TestGate_ChangesCoalesce(t *testing.T) {
	t.Parallel()

	sessions := mocks.NewSessionStore(t)
	listener := captureListener(t, sessions, nil)

	g := New(sessions, nav.NewStack(), testutil.MakeNoopLogger())
	g.Start()

	(*listener)(nil)
	(*listener)(&model.Session{UserID: uuid.New()})

	state, ok := drain(g.Changes())
	require.True(t, ok)
	assert.Equal(t, Authenticated, state)
	_, ok = drain(g.Changes())
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "unknown", State(9).String())
}
