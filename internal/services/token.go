package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"golang.org/x/oauth2"
)

// TokenStore persists the session credential between runs. It belongs to
// the transport layer; session state never reads it directly.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	Clear() error
}

// FileTokenStore stores the token as JSON on disk.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore creates a store at path, creating parent directories
// on the first save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the stored token. A missing file yields ErrNoRefreshToken.
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no stored credential at %s", shared.ErrNoRefreshToken, s.path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token file: %v", shared.ErrInvalidCredentials, err)
	}

	return &token, nil
}

// Save writes the token with owner-only permissions.
func (s *FileTokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// refreshResponse is the body of POST /refresh and POST /login: the issued
// tokens alongside the identity they represent.
type refreshResponse struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error,omitempty"`
}

func (r refreshResponse) token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
	}
	if r.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return tok
}

func (r refreshResponse) session() *auth.Session {
	return &auth.Session{UserID: r.UserID, FirstName: r.FirstName, Role: auth.Role(r.Role)}
}

// RefreshSource implements [oauth2.TokenSource] against the TunePeep
// refresh endpoint. A valid cached access token is returned as is;
// otherwise the stored refresh token is exchanged for a new one.
type RefreshSource struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu      sync.Mutex
	current *oauth2.Token
}

var _ oauth2.TokenSource = (*RefreshSource)(nil)

// NewRefreshSource creates a RefreshSource backed by store.
func NewRefreshSource(baseURL string, client *http.Client, store TokenStore) *RefreshSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &RefreshSource{baseURL: baseURL, httpClient: client, store: store}
}

// Seed installs a freshly issued token (the sign-in flow) and persists it.
func (r *RefreshSource) Seed(token *oauth2.Token) {
	r.mu.Lock()
	r.current = token
	r.mu.Unlock()
	if r.store != nil && token != nil {
		_ = r.store.Save(token)
	}
}

// Reset drops the cached token (the sign-out flow).
func (r *RefreshSource) Reset() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// Token returns a valid access token, refreshing through the backend when
// the cached one has expired.
func (r *RefreshSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Valid() {
		return r.current, nil
	}

	tok := r.current
	if tok == nil && r.store != nil {
		loaded, err := r.store.Load()
		if err != nil {
			return nil, err
		}
		tok = loaded
	}
	if tok.Valid() {
		r.current = tok
		return tok, nil
	}
	if tok == nil || tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: credential cannot be renewed", shared.ErrNoRefreshToken)
	}

	resp, err := r.exchange(context.Background(), tok.RefreshToken)
	if err != nil {
		return nil, err
	}

	r.current = resp.token()
	if r.store != nil {
		_ = r.store.Save(r.current)
	}
	return r.current, nil
}

// CheckSession forces a refresh round-trip and returns the identity the
// backend reports for the stored credential. This is the startup
// verification: any failure simply means "not signed in".
func (r *RefreshSource) CheckSession(ctx context.Context) (*auth.Session, error) {
	r.mu.Lock()
	tok := r.current
	r.mu.Unlock()

	if tok == nil && r.store != nil {
		loaded, err := r.store.Load()
		if err != nil {
			return nil, err
		}
		tok = loaded
	}
	if tok == nil || tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: nothing to verify", shared.ErrNoRefreshToken)
	}

	resp, err := r.exchange(ctx, tok.RefreshToken)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.current = resp.token()
	r.mu.Unlock()
	if r.store != nil {
		_ = r.store.Save(resp.token())
	}

	return resp.session(), nil
}

// exchange posts the refresh token to /refresh and parses the response.
func (r *RefreshSource) exchange(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/refresh", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: refresh token rejected", shared.ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: refresh returned status %d", shared.ErrRefreshFailed, resp.StatusCode)
	}

	var parsed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: undecodable refresh response: %v", shared.ErrRefreshFailed, err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrRefreshFailed, parsed.Error)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh response missing access token", shared.ErrRefreshFailed)
	}

	return &parsed, nil
}
