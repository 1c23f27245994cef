package auth

import (
	"context"
	"errors"
	"testing"
)

// checkerFunc adapts a function to SessionChecker.
type checkerFunc func(ctx context.Context) (*Session, error)

func (f checkerFunc) CheckSession(ctx context.Context) (*Session, error) { return f(ctx) }

func TestVerifier(t *testing.T) {
	t.Run("Valid Credential Populates Session", func(t *testing.T) {
		state := NewState()
		verifier := NewVerifier(state, checkerFunc(func(context.Context) (*Session, error) {
			return &Session{UserID: "u1", FirstName: "Omi", Role: RoleAdmin}, nil
		}), nil)

		verifier.Run(context.Background())

		if state.Loading() {
			t.Error("loading should be resolved")
		}
		sess := state.Session()
		if sess == nil || sess.UserID != "u1" {
			t.Errorf("expected restored session, got %+v", sess)
		}
	})

	t.Run("Expired Credential Resolves Without Error", func(t *testing.T) {
		state := NewState()
		verifier := NewVerifier(state, checkerFunc(func(context.Context) (*Session, error) {
			return nil, errors.New("token expired")
		}), nil)

		verifier.Run(context.Background())

		if state.Loading() {
			t.Error("loading should be resolved even on failure")
		}
		if state.Session() != nil {
			t.Error("session should stay absent on failure")
		}
	})

	t.Run("Runs Exactly Once", func(t *testing.T) {
		state := NewState()
		calls := 0
		verifier := NewVerifier(state, checkerFunc(func(context.Context) (*Session, error) {
			calls++
			return nil, errors.New("no credential")
		}), nil)

		verifier.Run(context.Background())
		verifier.Run(context.Background())

		if calls != 1 {
			t.Errorf("expected 1 backend check, got %d", calls)
		}
	})

	t.Run("Cancelled Context Discards The Result", func(t *testing.T) {
		state := NewState()
		ctx, cancel := context.WithCancel(context.Background())

		verifier := NewVerifier(state, checkerFunc(func(context.Context) (*Session, error) {
			// Simulate the tree unmounting while the check is in flight.
			cancel()
			return &Session{UserID: "u1", Role: RoleUser}, nil
		}), nil)

		verifier.Run(ctx)

		if !state.Loading() {
			t.Error("a discarded result must not resolve loading")
		}
		if state.Session() != nil {
			t.Error("a discarded result must not mutate the session")
		}
	})
}
