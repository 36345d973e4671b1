// Package gate selects which screens are reachable from the session state.
package gate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// State is the session state seen by the gate.
type State int

const (
	// Loading lasts until the first session notification.
	Loading State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

var (
	authScreens      = []model.Screen{model.ScreenAuth}
	dashboardScreens = []model.Screen{model.ScreenHome, model.ScreenProduct}
)

// Resetter is implemented by navigators that can replace their history.
type Resetter interface {
	Reset(screen model.Screen)
}

// Gate follows session notifications and exposes the reachable screen set.
type Gate struct {
	sessions model.SessionStore
	nav      model.Navigator
	logger   *logger.Logger

	mu          sync.Mutex
	state       State
	userID      uuid.UUID
	started     bool
	unsubscribe model.Unsubscribe

	changes chan State
}

func New(sessions model.SessionStore, nav model.Navigator, logger *logger.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		nav:      nav,
		logger:   logger,
		state:    Loading,
		changes:  make(chan State, 1),
	}
}

// Start subscribes to session changes. Only the first call subscribes.
func (g *Gate) Start() {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.mu.Unlock()

	unsubscribe := g.sessions.Subscribe(g.onSession)

	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
}

// Close releases the session subscription.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Screens returns the reachable screens, or nil while loading.
func (g *Gate) Screens() []model.Screen {
	switch g.State() {
	case Authenticated:
		return append([]model.Screen(nil), dashboardScreens...)
	case Unauthenticated:
		return append([]model.Screen(nil), authScreens...)
	default:
		return nil
	}
}

// Allows reports whether screen is reachable in the current state.
func (g *Gate) Allows(screen model.Screen) bool {
	for _, s := range g.Screens() {
		if s == screen {
			return true
		}
	}
	return false
}

// Changes delivers the state after each transition. Undelivered states are
// replaced by newer ones.
func (g *Gate) Changes() <-chan State {
	return g.changes
}

func (g *Gate) onSession(session *model.Session) {
	next, userID := Unauthenticated, uuid.Nil
	if session != nil {
		next, userID = Authenticated, session.UserID
	}

	g.mu.Lock()
	prev := g.state
	if prev == next && g.userID == userID {
		g.mu.Unlock()
		return
	}
	g.state, g.userID = next, userID
	g.mu.Unlock()

	g.logger.Debug("Session gate: state changed",
		"from", prev.String(),
		"to", next.String())

	g.resetNavigation(next)
	g.publish(next)
}

func (g *Gate) resetNavigation(state State) {
	first := authScreens[0]
	if state == Authenticated {
		first = dashboardScreens[0]
	}

	if r, ok := g.nav.(Resetter); ok {
		r.Reset(first)
		return
	}
	g.nav.Navigate(first, nil)
}

func (g *Gate) publish(state State) {
	select {
	case <-g.changes:
	default:
	}
	select {
	case g.changes <- state:
	default:
	}
}
