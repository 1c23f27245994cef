// Package guard decides whether a navigation target renders, waits, or
// redirects, based on a snapshot of the session state.
//
// [Decide] is the route guard: a three-state machine over (session,
// loading). While the startup check is pending it always answers
// [Pending], never a redirect, and once loading resolves it answers
// [Authorized] or [Unauthorized] and never returns to Pending for the same
// navigation. [RequireRole] layers the role gate on top, sending a
// signed-in session without the required role to a destination distinct
// from the sign-in entry point.
//
// Decisions are pure values; the UI layers (CLI messages, TUI view
// switches) interpret them. A redirect decision carries the originally
// requested target so a later successful sign-in can resume there.
package guard

import (
	"fmt"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// GuardState enumerates the observable states of the route guard.
type GuardState int

const (
	Pending      GuardState = iota // Startup check unresolved; render a loading indicator
	Authorized                     // Session present; render the requested target
	Unauthorized                   // No session or insufficient role; redirect
)

func (s GuardState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return ""
	}
}

// Navigation destinations for redirect decisions. LoginRoute receives
// unauthenticated visitors; DeniedRoute receives authenticated sessions
// lacking the required role. The two are deliberately distinct.
const (
	LoginRoute  = "/login"
	DeniedRoute = "/unauthorized"
)

// Decision is the outcome of a guard evaluation for one navigation.
type Decision struct {
	State      GuardState
	Session    *auth.Session // Populated when State is Authorized
	RedirectTo string        // Populated when State is Unauthorized
	From       string        // The originally requested target, preserved across redirects
}

// Decide evaluates the route guard for target. Pending while the snapshot
// is loading, regardless of session; Authorized whenever a session is
// present; otherwise Unauthorized with a redirect to the sign-in entry
// point carrying the requested target.
func Decide(snap auth.Snapshot, target string) Decision {
	if snap.Loading {
		return Decision{State: Pending, From: target}
	}
	if snap.Session != nil {
		return Decision{State: Authorized, Session: snap.Session, From: target}
	}
	return Decision{State: Unauthorized, RedirectTo: LoginRoute, From: target}
}

// RequireRole evaluates the role gate for target. An absent session
// redirects to sign-in exactly like Decide; a present session without the
// required role redirects to the denied landing instead. Callers re-run
// this on every render or interaction: a session cleared elsewhere
// retracts access on the next evaluation.
func RequireRole(snap auth.Snapshot, role auth.Role, target string) Decision {
	d := Decide(snap, target)
	if d.State != Authorized {
		return d
	}
	if d.Session.Role != role {
		return Decision{State: Unauthorized, RedirectTo: DeniedRoute, From: target}
	}
	return d
}

// CanSubmit is the defense-in-depth check in front of privileged
// mutations: it refuses locally when the session is absent or lacks the
// required role, even if the screen was transiently reachable. The
// authoritative check remains the backend's.
func CanSubmit(sess *auth.Session, role auth.Role) error {
	if sess == nil {
		return fmt.Errorf("%w: sign in to continue", shared.ErrNotAuthenticated)
	}
	if sess.Role != role {
		return fmt.Errorf("%w: %s role required", shared.ErrForbidden, role)
	}
	return nil
}
