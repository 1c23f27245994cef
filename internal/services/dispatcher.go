package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Dispatcher is the chokepoint every protected call passes through. It
// attaches the session credential and reacts uniformly to the backend's
// unauthorized signal: a 401 clears the session state so the next guard
// evaluation falls back to the unauthenticated path. The dispatcher never
// redirects; navigation policy lives in the guard layer.
//
// Failures other than 401 (network errors, validation errors, server
// errors) propagate to the caller untouched and never mutate session
// state. In-flight calls are independent: each applies its own outcome,
// and clearing an already-absent session is a no-op, so concurrent 401s
// are harmless.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
	state      *auth.State
	source     oauth2.TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// DispatcherOpts configures a Dispatcher.
type DispatcherOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	State      *auth.State
	Source     oauth2.TokenSource
	RateLimit  float64 // Requests per second; 0 means default (10/s)
	Logger     *log.Logger
}

// NewDispatcher creates a Dispatcher with the provided options.
func NewDispatcher(opts DispatcherOpts) *Dispatcher {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.State == nil {
		opts.State = auth.NewState()
	}
	if opts.Source == nil {
		// A storeless source holds no credential, so a standalone
		// dispatcher answers ErrNotAuthenticated instead of panicking.
		opts.Source = NewRefreshSource(opts.BaseURL, opts.HTTPClient, nil)
	}

	return &Dispatcher{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		state:      opts.State,
		source:     opts.Source,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
	}
}

// Do sends a credentialed request and decodes a JSON response into result
// (when result is non-nil). body, when non-nil, is sent as JSON.
func (d *Dispatcher) Do(ctx context.Context, method, path string, body, result any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	token, err := d.source.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The credential is no longer honored. Invalidate the session so
		// dependent screens fall back on their next evaluation.
		d.state.Clear()
		if d.logger != nil {
			d.logger.Debug("unauthorized response, session invalidated", "path", path)
		}
		return fmt.Errorf("%w: %s %s", shared.ErrUnauthorized, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
