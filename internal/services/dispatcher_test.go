package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"golang.org/x/oauth2"
)

func signedInState(t *testing.T) *auth.State {
	t.Helper()
	state := auth.NewState()
	state.Set(auth.Session{UserID: "u-1", FirstName: "Ada", Role: auth.RoleAdmin})
	return state
}

func staticSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

func TestDispatcher(t *testing.T) {
	t.Run("Attaches Bearer Credential", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
		}))
		defer server.Close()

		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   signedInState(t),
			Source:  staticSource("tok-123"),
		})

		var result map[string]string
		if err := d.Do(context.Background(), http.MethodGet, "/music/abc", nil, &result); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
		if result["ok"] != "true" {
			t.Errorf("expected decoded result, got %v", result)
		}
	})

	t.Run("Missing Credential Maps To ErrNotAuthenticated", func(t *testing.T) {
		d := NewDispatcher(DispatcherOpts{
			BaseURL: "http://localhost:0",
			State:   auth.NewState(),
			Source:  NewRefreshSource("http://localhost:0", nil, nil),
		})

		err := d.Do(context.Background(), http.MethodGet, "/recommendedmusic", nil, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Zero Options Construction Is Usable", func(t *testing.T) {
		d := NewDispatcher(DispatcherOpts{})

		if d.state == nil || d.source == nil {
			t.Fatal("expected state and source to be defaulted")
		}

		err := d.Do(context.Background(), http.MethodGet, "/recommendedmusic", nil, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Unauthorized Response Invalidates Session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		state := signedInState(t)
		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   state,
			Source:  staticSource("stale"),
		})

		err := d.Do(context.Background(), http.MethodGet, "/music/abc", nil, nil)
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if state.Session() != nil {
			t.Error("expected session to be cleared after 401")
		}
	})

	t.Run("Concurrent Unauthorized Responses Notify Once", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		state := signedInState(t)

		var notifyMu sync.Mutex
		cleared := 0
		state.Subscribe(func(sess *auth.Session) {
			if sess == nil {
				notifyMu.Lock()
				cleared++
				notifyMu.Unlock()
			}
		})

		d := NewDispatcher(DispatcherOpts{
			BaseURL:   server.URL,
			State:     state,
			Source:    staticSource("stale"),
			RateLimit: 1000,
		})

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := d.Do(context.Background(), http.MethodGet, "/recommendedmusic", nil, nil)
				if !errors.Is(err, shared.ErrUnauthorized) {
					t.Errorf("expected ErrUnauthorized, got %v", err)
				}
			}()
		}
		wg.Wait()

		if cleared != 1 {
			t.Errorf("expected exactly one sign-out notification, got %d", cleared)
		}
		if state.Session() != nil {
			t.Error("expected session to stay cleared")
		}
	})

	t.Run("Server Error Leaves Session Intact", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		state := signedInState(t)
		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   state,
			Source:  staticSource("tok"),
		})

		err := d.Do(context.Background(), http.MethodDelete, "/delete/abc", nil, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrUnauthorized) {
			t.Error("server error must not map to the unauthorized signal")
		}
		if state.Session() == nil {
			t.Error("expected session to survive a non-401 failure")
		}
	})

	t.Run("Network Error Leaves Session Intact", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse the connection

		state := signedInState(t)
		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   state,
			Source:  staticSource("tok"),
		})

		err := d.Do(context.Background(), http.MethodGet, "/music/abc", nil, nil)
		if err == nil {
			t.Fatal("expected a transport error")
		}
		if errors.Is(err, shared.ErrUnauthorized) {
			t.Error("transport failure must not map to the unauthorized signal")
		}
		if state.Session() == nil {
			t.Error("expected session to survive a transport failure")
		}
	})

	t.Run("Late Success Does Not Resurrect Session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
		}))
		defer server.Close()

		state := signedInState(t)
		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   state,
			Source:  staticSource("tok"),
		})

		state.Clear() // user signs out while the request is conceptually in flight

		if err := d.Do(context.Background(), http.MethodGet, "/music/abc", nil, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state.Session() != nil {
			t.Error("a successful response must not re-install a cleared session")
		}
	})

	t.Run("Sends JSON Body", func(t *testing.T) {
		var gotBody map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		d := NewDispatcher(DispatcherOpts{
			BaseURL: server.URL,
			State:   signedInState(t),
			Source:  staticSource("tok"),
		})

		payload := map[string]string{"admin_review": "a classic"}
		if err := d.Do(context.Background(), http.MethodPatch, "/updatereview/abc", payload, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotBody["admin_review"] != "a classic" {
			t.Errorf("expected body to round-trip, got %v", gotBody)
		}
	})
}
