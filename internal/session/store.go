// Package session holds the dashboard's login state: the session store,
// token persistence, and the transient staging slots used to carry an
// article selection and redirect target across the login flow.
package session

import (
	"sync"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Listener receives a snapshot whenever the session changes.
type Listener func(domain.Session)

// Store is the explicit session state holder. It replaces any ambient
// global: everything that needs login state takes a *Store.
//
// All methods are safe for concurrent use. Listeners are invoked
// synchronously under no lock, in registration order, with a snapshot.
type Store struct {
	mu        sync.RWMutex
	session   domain.Session
	nextID    int
	listeners []listenerEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

// NewStore creates an empty, logged-out store.
func NewStore() *Store {
	return &Store{}
}

// Session returns a snapshot of the current session.
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// IsLoggedIn reports whether a user is logged in.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsLoggedIn
}

// User returns the logged-in user. The zero User is returned when logged
// out.
func (s *Store) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return domain.User{}
	}
	return *s.session.User
}

// Login records a successful login and notifies listeners.
func (s *Store) Login(user domain.User) {
	s.apply(domain.Session{IsLoggedIn: true, User: &user})
}

// Logout clears the session and notifies listeners.
func (s *Store) Logout() {
	s.apply(domain.Session{})
}

func (s *Store) apply(next domain.Session) {
	s.mu.Lock()
	s.session = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, e := range s.listeners {
		listeners = append(listeners, e.fn)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers a listener for session changes. It returns an
// unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
