package guard

import (
	"errors"
	"testing"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

func TestDecide(t *testing.T) {
	admin := &auth.Session{UserID: "a1", FirstName: "Omi", Role: auth.RoleAdmin}

	t.Run("Pending Dominates Regardless Of Session", func(t *testing.T) {
		for _, sess := range []*auth.Session{nil, admin} {
			d := Decide(auth.Snapshot{Session: sess, Loading: true}, "/recommended")
			if d.State != Pending {
				t.Errorf("loading snapshot with session=%v should be pending, got %v", sess, d.State)
			}
			if d.RedirectTo != "" {
				t.Error("pending must never redirect")
			}
		}
	})

	t.Run("Session Present Renders Content", func(t *testing.T) {
		d := Decide(auth.Snapshot{Session: admin}, "/recommended")
		if d.State != Authorized {
			t.Errorf("expected authorized, got %v", d.State)
		}
		if d.Session == nil || d.Session.UserID != "a1" {
			t.Error("authorized decision should carry the session")
		}
	})

	t.Run("Absent Session Redirects To Login", func(t *testing.T) {
		d := Decide(auth.Snapshot{}, "/recommended")
		if d.State != Unauthorized {
			t.Errorf("expected unauthorized, got %v", d.State)
		}
		if d.RedirectTo != LoginRoute {
			t.Errorf("expected redirect to %s, got %s", LoginRoute, d.RedirectTo)
		}
	})

	t.Run("Round Trip Preserves The Requested Target", func(t *testing.T) {
		state := auth.NewState()
		state.MarkResolved()

		for _, target := range []string{"/recommended", "/review/abc123"} {
			d := Decide(state.Snapshot(), target)
			if d.State != Unauthorized || d.From != target {
				t.Fatalf("expected redirect preserving %q, got %+v", target, d)
			}

			// Sign-in succeeds; the preserved target must now render.
			state.Set(auth.Session{UserID: "u1", FirstName: "Omi", Role: auth.RoleUser})
			after := Decide(state.Snapshot(), d.From)
			if after.State != Authorized || after.From != target {
				t.Errorf("after sign-in, navigation should resume at %q, got %+v", target, after)
			}

			state.Clear()
		}
	})
}

func TestRequireRole(t *testing.T) {
	admin := &auth.Session{UserID: "a1", FirstName: "Omi", Role: auth.RoleAdmin}
	user := &auth.Session{UserID: "u1", FirstName: "Dev", Role: auth.RoleUser}

	t.Run("Admin Admitted", func(t *testing.T) {
		d := RequireRole(auth.Snapshot{Session: admin}, auth.RoleAdmin, "/addmusic")
		if d.State != Authorized {
			t.Errorf("admin should be authorized, got %v", d.State)
		}
	})

	t.Run("User Redirected To Distinct Landing", func(t *testing.T) {
		d := RequireRole(auth.Snapshot{Session: user}, auth.RoleAdmin, "/addmusic")
		if d.State != Unauthorized {
			t.Errorf("user should be unauthorized, got %v", d.State)
		}
		if d.RedirectTo != DeniedRoute {
			t.Errorf("expected %s, got %s", DeniedRoute, d.RedirectTo)
		}

		anon := RequireRole(auth.Snapshot{}, auth.RoleAdmin, "/addmusic")
		if anon.RedirectTo != LoginRoute {
			t.Errorf("anonymous redirect should be %s, got %s", LoginRoute, anon.RedirectTo)
		}
		if anon.RedirectTo == d.RedirectTo {
			t.Error("signed-out and wrong-role destinations must differ")
		}
	})

	t.Run("Concurrent Logout Retracts Access", func(t *testing.T) {
		state := auth.NewState()
		state.Set(auth.Session{UserID: "a1", Role: auth.RoleAdmin})

		if d := RequireRole(state.Snapshot(), auth.RoleAdmin, "/edit/1"); d.State != Authorized {
			t.Fatalf("expected authorized before logout, got %v", d.State)
		}

		state.Clear()

		if d := RequireRole(state.Snapshot(), auth.RoleAdmin, "/edit/1"); d.State != Unauthorized {
			t.Error("re-evaluation after logout should deny access")
		}
	})
}

func TestCanSubmit(t *testing.T) {
	t.Run("Nil Session", func(t *testing.T) {
		err := CanSubmit(nil, auth.RoleAdmin)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Wrong Role", func(t *testing.T) {
		err := CanSubmit(&auth.Session{UserID: "u1", Role: auth.RoleUser}, auth.RoleAdmin)
		if !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("Admin", func(t *testing.T) {
		if err := CanSubmit(&auth.Session{UserID: "a1", Role: auth.RoleAdmin}, auth.RoleAdmin); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}
