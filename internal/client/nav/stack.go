// Package nav keeps the screen history of the terminal client.
package nav

import (
	"sync"

	"github.com/dtroode/storefront/internal/model"
)

// Route is a screen with the parameters it was opened with.
type Route struct {
	Screen model.Screen
	Params any
}

var _ model.Navigator = (*Stack)(nil)

// Stack is a model.Navigator holding a history of routes.
type Stack struct {
	mu      sync.Mutex
	routes  []Route
	options map[model.Screen]model.ScreenOptions
}

func NewStack() *Stack {
	return &Stack{options: make(map[model.Screen]model.ScreenOptions)}
}

// Navigate opens screen. If screen is already in the history, the routes
// above it are dropped and its params replaced.
func (s *Stack) Navigate(screen model.Screen, params any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.routes {
		if s.routes[i].Screen == screen {
			s.routes = s.routes[:i+1]
			s.routes[i].Params = params
			return
		}
	}
	s.routes = append(s.routes, Route{Screen: screen, Params: params})
}

// GoBack drops the top route. The last route is never dropped.
func (s *Stack) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.routes) > 1 {
		s.routes = s.routes[:len(s.routes)-1]
	}
}

// Reset replaces the whole history with screen.
func (s *Stack) Reset(screen model.Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes = []Route{{Screen: screen}}
}

func (s *Stack) SetScreenOptions(screen model.Screen, opts model.ScreenOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options[screen] = opts
}

// Current returns the top route. ok is false before the first navigation.
func (s *Stack) Current() (route Route, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.routes) == 0 {
		return Route{}, false
	}
	return s.routes[len(s.routes)-1], true
}

// Depth returns the number of routes in the history.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.routes)
}

// Options returns the options last set for screen.
func (s *Stack) Options(screen model.Screen) model.ScreenOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options[screen]
}
