package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/services"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

func newStubClient(t *testing.T, opts StubOpts) *services.CatalogService {
	t.Helper()

	stub := NewStubServer(opts)
	ts := httptest.NewServer(stub.Router())
	t.Cleanup(ts.Close)

	return services.NewCatalogService(services.CatalogOpts{
		BaseURL:   ts.URL,
		Store:     services.NewFileTokenStore(filepath.Join(t.TempDir(), "token.json")),
		RateLimit: 1000,
	})
}

func TestStubServerEndToEnd(t *testing.T) {
	t.Run("Full User Flow", func(t *testing.T) {
		svc := newStubClient(t, StubOpts{})
		ctx := context.Background()

		// Public endpoints need no session.
		musics, err := svc.Musics(ctx)
		if err != nil {
			t.Fatalf("failed to list catalog: %v", err)
		}
		if len(musics) != 2 {
			t.Fatalf("expected seeded catalog, got %d entries", len(musics))
		}

		// Protected endpoints refuse anonymous access.
		if _, err := svc.Recommended(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated before sign-in, got %v", err)
		}

		sess, err := svc.Login(ctx, "user@tunepeep.dev", "changeme")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if sess.Role != auth.RoleUser {
			t.Errorf("expected USER role, got %s", sess.Role)
		}

		recs, err := svc.Recommended(ctx)
		if err != nil {
			t.Fatalf("failed to fetch recommendations: %v", err)
		}
		if len(recs) != 1 || recs[0].MusicID != "stub-1" {
			t.Errorf("expected only the rated entry, got %+v", recs)
		}

		entry, err := svc.Music(ctx, "stub-1")
		if err != nil {
			t.Fatalf("failed to fetch entry: %v", err)
		}
		if entry.Title != "Blue in Green" {
			t.Errorf("unexpected entry: %+v", entry)
		}

		// A regular account is refused locally before any request.
		if _, err := svc.AddMusic(ctx, models.MusicInput{MusicID: "x", Title: "X"}); !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected ErrForbidden for non-admin, got %v", err)
		}

		if err := svc.Logout(ctx); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if svc.State().Session() != nil {
			t.Error("expected session to be cleared after logout")
		}
		if _, err := svc.Recommended(ctx); err == nil {
			t.Error("expected protected access to fail after logout")
		}
	})

	t.Run("Admin Mutation Cycle", func(t *testing.T) {
		svc := newStubClient(t, StubOpts{})
		ctx := context.Background()

		if _, err := svc.Login(ctx, "admin@tunepeep.dev", "changeme"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		created, err := svc.AddMusic(ctx, models.MusicInput{
			MusicID: "stub-3",
			Title:   "Freddie Freeloader",
			Genre:   []models.Genre{{GenreID: 1, GenreName: "Jazz"}},
		})
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if created.Ranking.RankingValue != 999 {
			t.Errorf("expected new entries to start unrated, got %d", created.Ranking.RankingValue)
		}

		edited, err := svc.EditMusic(ctx, "stub-3", models.MusicInput{Title: "Freddie Freeloader (Take 2)"})
		if err != nil {
			t.Fatalf("edit failed: %v", err)
		}
		if edited.Title != "Freddie Freeloader (Take 2)" {
			t.Errorf("expected edited title, got %q", edited.Title)
		}

		reviewed, err := svc.UpdateReview(ctx, "stub-3", "an easy swing")
		if err != nil {
			t.Fatalf("review update failed: %v", err)
		}
		if reviewed.AdminReview != "an easy swing" {
			t.Errorf("expected updated review, got %q", reviewed.AdminReview)
		}

		if err := svc.DeleteMusic(ctx, "stub-3"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := svc.Music(ctx, "stub-3"); err == nil {
			t.Error("expected deleted entry to be gone")
		}
	})

	t.Run("Registration Grants Immediate Access", func(t *testing.T) {
		svc := newStubClient(t, StubOpts{})
		ctx := context.Background()

		sess, err := svc.Register(ctx, "Nina", "nina@tunepeep.dev", "secret")
		if err != nil {
			t.Fatalf("registration failed: %v", err)
		}
		if sess.Role != auth.RoleUser {
			t.Errorf("expected a USER session, got %v", sess.Role)
		}

		if _, err := svc.Recommended(ctx); err != nil {
			t.Errorf("expected a fresh account to reach protected reads, got %v", err)
		}

		if _, err := svc.Register(ctx, "Nina", "nina@tunepeep.dev", "secret"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected duplicate registration to be refused, got %v", err)
		}
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		svc := newStubClient(t, StubOpts{})

		_, err := svc.Login(context.Background(), "user@tunepeep.dev", "wrong")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Expired Credential Invalidates Session", func(t *testing.T) {
		// A lifetime under one second reports expires_in 0, so the client
		// keeps presenting the token after the server has expired it.
		svc := newStubClient(t, StubOpts{AccessTTL: 50 * time.Millisecond})
		ctx := context.Background()

		if _, err := svc.Login(ctx, "user@tunepeep.dev", "changeme"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		time.Sleep(80 * time.Millisecond)

		_, err := svc.Recommended(ctx)
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
		}
		if svc.State().Session() != nil {
			t.Error("expected the 401 to clear the session")
		}
	})

	t.Run("Session Restore Via Verifier", func(t *testing.T) {
		stub := NewStubServer(StubOpts{})
		ts := httptest.NewServer(stub.Router())
		t.Cleanup(ts.Close)

		tokenPath := filepath.Join(t.TempDir(), "token.json")

		first := services.NewCatalogService(services.CatalogOpts{
			BaseURL:   ts.URL,
			Store:     services.NewFileTokenStore(tokenPath),
			RateLimit: 1000,
		})
		if _, err := first.Login(context.Background(), "admin@tunepeep.dev", "changeme"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		// A second process: same token file, fresh state.
		second := services.NewCatalogService(services.CatalogOpts{
			BaseURL:   ts.URL,
			Store:     services.NewFileTokenStore(tokenPath),
			RateLimit: 1000,
		})

		verifier := auth.NewVerifier(second.State(), second, nil)
		verifier.Run(context.Background())

		sess := second.State().Session()
		if sess == nil {
			t.Fatal("expected the verifier to restore the stored session")
		}
		if sess.Role != auth.RoleAdmin || sess.FirstName != "Avery" {
			t.Errorf("unexpected restored identity: %+v", sess)
		}
		if second.State().Loading() {
			t.Error("expected the startup flag to be resolved")
		}
	})
}
