// TunePeep backend implementation of [Service]
//
// Endpoint shapes follow the TunePeep API: /musics, /music/:id,
// /recommendedmusic, /addmusic, /edit/:id, /delete/:id,
// /updatereview/:id, /genres, /register, /login, /logout, /refresh.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/guard"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// CatalogService implements [Service] against a live TunePeep backend.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	dispatcher *Dispatcher
	source     *RefreshSource
	store      TokenStore
	state      *auth.State
	logger     *log.Logger
}

var _ Service = (*CatalogService)(nil)

// CatalogOpts configures a CatalogService.
type CatalogOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	State      *auth.State
	Store      TokenStore
	RateLimit  float64
	Logger     *log.Logger
}

// NewCatalogService wires the public client, the refresh source, and the
// authorized dispatcher around one backend base URL.
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.State == nil {
		opts.State = auth.NewState()
	}

	source := NewRefreshSource(opts.BaseURL, opts.HTTPClient, opts.Store)
	dispatcher := NewDispatcher(DispatcherOpts{
		BaseURL:    opts.BaseURL,
		HTTPClient: opts.HTTPClient,
		State:      opts.State,
		Source:     source,
		RateLimit:  opts.RateLimit,
		Logger:     opts.Logger,
	})

	return &CatalogService{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		dispatcher: dispatcher,
		source:     source,
		store:      opts.Store,
		state:      opts.State,
		logger:     opts.Logger,
	}
}

func (s *CatalogService) Name() string { return "TunePeep" }

// State exposes the session state cell for guard evaluations and the UI.
func (s *CatalogService) State() *auth.State { return s.state }

// Register creates an account and signs it in. The backend issues the same
// token pair as a login, so a fresh account is immediately usable.
func (s *CatalogService) Register(ctx context.Context, firstName, email, password string) (*auth.Session, error) {
	if firstName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: first name, email, and password are required", shared.ErrMissingCredentials)
	}

	var parsed refreshResponse
	payload := map[string]string{"first_name": firstName, "email": email, "password": password}
	status, err := s.postJSON(ctx, "/register", payload, &parsed)
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict {
		return nil, fmt.Errorf("%w: email already registered", shared.ErrInvalidInput)
	}
	if status < 200 || status >= 300 || parsed.Error != "" {
		return nil, fmt.Errorf("%w: registration returned status %d", shared.ErrAuthFailed, status)
	}

	s.source.Seed(parsed.token())

	sess := parsed.session()
	s.state.Set(*sess)
	if s.logger != nil {
		s.logger.Info("registered", "user_id", sess.UserID, "role", sess.Role)
	}
	return sess, nil
}

// Login exchanges credentials for a session. On success the issued token
// becomes the ambient credential and the session state is populated; the
// sign-in flow is one of the four authorized writers.
func (s *CatalogService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	var parsed refreshResponse
	status, err := s.postJSON(ctx, "/login", map[string]string{"email": email, "password": password}, &parsed)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: invalid email or password", shared.ErrInvalidCredentials)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: login returned status %d", shared.ErrAuthFailed, status)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: invalid email or password", shared.ErrInvalidCredentials)
	}

	s.source.Seed(parsed.token())

	sess := parsed.session()
	s.state.Set(*sess)
	if s.logger != nil {
		s.logger.Info("signed in", "user_id", sess.UserID, "role", sess.Role)
	}
	return sess, nil
}

// Logout tells the backend to drop the credential and clears local state.
// Local state is cleared even when the call fails: sign-out always
// eventually signs the client out.
func (s *CatalogService) Logout(ctx context.Context) error {
	sess := s.state.Session()

	defer func() {
		s.source.Reset()
		if s.store != nil {
			if err := s.store.Clear(); err != nil && s.logger != nil {
				s.logger.Warn("failed to remove stored credential", "err", err)
			}
		}
		s.state.Clear()
	}()

	if sess == nil {
		return nil
	}

	status, err := s.postJSON(ctx, "/logout", map[string]string{"user_id": sess.UserID}, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("logout call failed, clearing local state anyway", "err", err)
		}
		return nil
	}
	if status < 200 || status >= 300 {
		if s.logger != nil {
			s.logger.Warn("logout returned non-success status", "status", status)
		}
	}
	return nil
}

// CheckSession delegates to the refresh source: one round-trip that either
// restores the identity behind the stored credential or reports that no
// valid session exists.
func (s *CatalogService) CheckSession(ctx context.Context) (*auth.Session, error) {
	return s.source.CheckSession(ctx)
}

// Musics retrieves the public catalog.
func (s *CatalogService) Musics(ctx context.Context) ([]models.Music, error) {
	var musics []models.Music
	if err := s.getJSON(ctx, "/musics", &musics); err != nil {
		return nil, err
	}
	return musics, nil
}

// Genres retrieves the available genre tags.
func (s *CatalogService) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.getJSON(ctx, "/genres", &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Music retrieves a single catalog entry through the authorized dispatcher.
func (s *CatalogService) Music(ctx context.Context, musicID string) (*models.Music, error) {
	if musicID == "" {
		return nil, fmt.Errorf("%w: music id", shared.ErrMissingArgument)
	}
	var music models.Music
	if err := s.dispatcher.Do(ctx, http.MethodGet, "/music/"+url.PathEscape(musicID), nil, &music); err != nil {
		return nil, err
	}
	return &music, nil
}

// Recommended retrieves the personalized recommendation list.
func (s *CatalogService) Recommended(ctx context.Context) ([]models.Music, error) {
	var musics []models.Music
	if err := s.dispatcher.Do(ctx, http.MethodGet, "/recommendedmusic", nil, &musics); err != nil {
		return nil, err
	}
	return musics, nil
}

// AddMusic creates a catalog entry. Refused locally for non-admin
// sessions; the backend remains the authoritative check.
func (s *CatalogService) AddMusic(ctx context.Context, input models.MusicInput) (*models.Music, error) {
	if err := guard.CanSubmit(s.state.Session(), auth.RoleAdmin); err != nil {
		return nil, err
	}
	if input.MusicID == "" || input.Title == "" {
		return nil, fmt.Errorf("%w: music_id and title are required", shared.ErrInvalidInput)
	}

	var music models.Music
	if err := s.dispatcher.Do(ctx, http.MethodPost, "/addmusic", input, &music); err != nil {
		return nil, err
	}
	return &music, nil
}

// EditMusic updates a catalog entry. Admin only.
func (s *CatalogService) EditMusic(ctx context.Context, musicID string, input models.MusicInput) (*models.Music, error) {
	if err := guard.CanSubmit(s.state.Session(), auth.RoleAdmin); err != nil {
		return nil, err
	}
	if musicID == "" {
		return nil, fmt.Errorf("%w: music id", shared.ErrMissingArgument)
	}

	var music models.Music
	if err := s.dispatcher.Do(ctx, http.MethodPatch, "/edit/"+url.PathEscape(musicID), input, &music); err != nil {
		return nil, err
	}
	return &music, nil
}

// DeleteMusic removes a catalog entry. Admin only.
func (s *CatalogService) DeleteMusic(ctx context.Context, musicID string) error {
	if err := guard.CanSubmit(s.state.Session(), auth.RoleAdmin); err != nil {
		return err
	}
	if musicID == "" {
		return fmt.Errorf("%w: music id", shared.ErrMissingArgument)
	}
	return s.dispatcher.Do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(musicID), nil, nil)
}

// UpdateReview replaces the admin review of an entry. Admin only.
func (s *CatalogService) UpdateReview(ctx context.Context, musicID, review string) (*models.Music, error) {
	if err := guard.CanSubmit(s.state.Session(), auth.RoleAdmin); err != nil {
		return nil, err
	}
	if musicID == "" {
		return nil, fmt.Errorf("%w: music id", shared.ErrMissingArgument)
	}
	if review == "" {
		return nil, fmt.Errorf("%w: review text is empty", shared.ErrInvalidInput)
	}

	var music models.Music
	payload := map[string]string{"admin_review": review}
	if err := s.dispatcher.Do(ctx, http.MethodPatch, "/updatereview/"+url.PathEscape(musicID), payload, &music); err != nil {
		return nil, err
	}
	return &music, nil
}

// getJSON performs an anonymous GET against a public endpoint.
func (s *CatalogService) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postJSON performs an anonymous POST, returning the status code so auth
// flows can distinguish rejection from transport failure.
func (s *CatalogService) postJSON(ctx context.Context, path string, body, result any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if result != nil && len(raw) > 0 {
		// Tolerate undecodable bodies on error statuses; the caller
		// branches on status first.
		if err := json.Unmarshal(raw, result); err != nil && resp.StatusCode < 300 {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
