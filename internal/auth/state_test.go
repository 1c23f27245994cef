package auth

import (
	"sync"
	"testing"
)

func TestState(t *testing.T) {
	t.Run("Starts Loading With No Session", func(t *testing.T) {
		state := NewState()

		if !state.Loading() {
			t.Error("new state should be loading")
		}
		if state.Session() != nil {
			t.Error("new state should have no session")
		}
	})

	t.Run("Set Resolves Loading And Installs Session", func(t *testing.T) {
		state := NewState()
		state.Set(Session{UserID: "u1", FirstName: "Omi", Role: RoleAdmin})

		if state.Loading() {
			t.Error("loading should be resolved after Set")
		}
		sess := state.Session()
		if sess == nil || sess.UserID != "u1" || !sess.IsAdmin() {
			t.Errorf("unexpected session %+v", sess)
		}
	})

	t.Run("Loading Resolves Exactly Once", func(t *testing.T) {
		state := NewState()

		transitions := 0
		state.Subscribe(func(*Session) { transitions++ })

		state.MarkResolved()
		state.MarkResolved()
		state.MarkResolved()

		if state.Loading() {
			t.Error("loading should be false")
		}
		if transitions != 1 {
			t.Errorf("expected 1 transition, got %d", transitions)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		state := NewState()
		state.Set(Session{UserID: "u1", FirstName: "Omi", Role: RoleUser})

		notifications := 0
		state.Subscribe(func(sess *Session) {
			if sess != nil {
				t.Error("clear should notify with nil session")
			}
			notifications++
		})

		state.Clear()
		state.Clear()
		state.Clear()

		if state.Session() != nil {
			t.Error("session should be absent after clear")
		}
		if notifications != 1 {
			t.Errorf("expected 1 notification, got %d", notifications)
		}
	})

	t.Run("Clear While Loading Resolves The Flag", func(t *testing.T) {
		state := NewState()
		state.Clear()

		if state.Loading() {
			t.Error("clear should resolve loading")
		}
	})

	t.Run("Subscribers Run Synchronously", func(t *testing.T) {
		state := NewState()

		var seen *Session
		state.Subscribe(func(sess *Session) { seen = sess })

		state.Set(Session{UserID: "u2", FirstName: "Dev", Role: RoleUser})
		if seen == nil || seen.UserID != "u2" {
			t.Errorf("listener should observe the new session inline, got %+v", seen)
		}
	})

	t.Run("Unsubscribe Stops Notifications", func(t *testing.T) {
		state := NewState()

		calls := 0
		unsubscribe := state.Subscribe(func(*Session) { calls++ })

		state.Set(Session{UserID: "u1", Role: RoleUser})
		unsubscribe()
		state.Clear()

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("Session Returns A Copy", func(t *testing.T) {
		state := NewState()
		state.Set(Session{UserID: "u1", FirstName: "Omi", Role: RoleUser})

		sess := state.Session()
		sess.Role = RoleAdmin

		if state.Session().IsAdmin() {
			t.Error("mutating a read copy must not affect the owned session")
		}
	})

	t.Run("Concurrent Clears Notify Once", func(t *testing.T) {
		state := NewState()
		state.Set(Session{UserID: "u1", Role: RoleUser})

		var mu sync.Mutex
		notifications := 0
		state.Subscribe(func(*Session) {
			mu.Lock()
			notifications++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				state.Clear()
			}()
		}
		wg.Wait()

		if notifications != 1 {
			t.Errorf("expected exactly 1 notification, got %d", notifications)
		}
	})
}
