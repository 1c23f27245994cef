package auth

import (
	"sync"
)

// Role enumerates the roles the backend issues.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Session is the in-memory record of the authenticated identity. It is
// either fully populated or absent (nil); no partial state exists.
type Session struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	Role      Role   `json:"role"`
}

// IsAdmin reports whether the session carries the ADMIN role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Snapshot is a point-in-time read of the state for a single decision.
type Snapshot struct {
	Session *Session
	Loading bool
}

// Listener observes state transitions. The session argument is nil after a
// clear. Listeners run synchronously inside the transition.
type Listener func(*Session)

// State owns the current session and the startup loading flag.
type State struct {
	mu        sync.Mutex
	session   *Session
	loading   bool
	listeners map[int]Listener
	nextID    int
}

// NewState returns a State in the loading phase with no session.
func NewState() *State {
	return &State{loading: true, listeners: make(map[int]Listener)}
}

// Session returns a copy of the current session, or nil when signed out.
func (s *State) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.session)
}

// Loading reports whether the startup verification is still pending.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Snapshot reads session and loading flag atomically.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Session: copySession(s.session), Loading: s.loading}
}

// Set installs sess as the current session and resolves the loading flag.
// Used by the verifier on a valid credential and by the sign-in flow.
func (s *State) Set(sess Session) {
	s.mu.Lock()
	s.session = &sess
	s.loading = false
	listeners, snapshot := s.listenerList(), copySession(s.session)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copySession(snapshot))
	}
}

// Clear removes the current session and resolves the loading flag. Clearing
// an already-absent session is a no-op: repeated unauthorized responses
// must not notify again or loop.
func (s *State) Clear() {
	s.mu.Lock()
	if s.session == nil && !s.loading {
		s.mu.Unlock()
		return
	}
	s.session = nil
	s.loading = false
	listeners := s.listenerList()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// MarkResolved resolves the loading flag without touching the session.
// Used by the verifier when no valid credential exists; the flag never
// returns to true afterwards.
func (s *State) MarkResolved() {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = false
	listeners, snapshot := s.listenerList(), copySession(s.session)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copySession(snapshot))
	}
}

// Subscribe registers fn for every subsequent transition and returns an
// unsubscribe function.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// listenerList snapshots the listeners in registration order. Caller holds
// the mutex.
func (s *State) listenerList() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func copySession(sess *Session) *Session {
	if sess == nil {
		return nil
	}
	c := *sess
	return &c
}
