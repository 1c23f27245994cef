package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// stubAccount is a fixture login account.
type stubAccount struct {
	UserID    string
	Email     string
	Password  string
	FirstName string
	Role      string
}

// tokenGrant ties an issued access token to its owner.
type tokenGrant struct {
	userID  string
	expires time.Time
}

// StubServer is a self-contained TunePeep backend for local development and
// end-to-end tests. It speaks the real wire protocol: credential login and
// refresh rotation issue bearer tokens, protected routes answer 401 for
// missing or expired credentials, and mutations require the ADMIN role.
type StubServer struct {
	logger    *log.Logger
	accessTTL time.Duration

	mu       sync.Mutex
	accounts []stubAccount
	catalog  []models.Music
	genres   []models.Genre
	access   map[string]tokenGrant // access token -> grant
	refresh  map[string]string     // refresh token -> user ID
}

// StubOpts configures a StubServer.
type StubOpts struct {
	AccessTTL time.Duration // Access token lifetime (default: 15m)
	Logger    *log.Logger
}

// NewStubServer creates a stub backend seeded with two accounts
// (admin@tunepeep.dev / user@tunepeep.dev, password "changeme") and a small
// catalog.
func NewStubServer(opts StubOpts) *StubServer {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}

	return &StubServer{
		logger:    opts.Logger,
		accessTTL: opts.AccessTTL,
		accounts: []stubAccount{
			{UserID: "admin-1", Email: "admin@tunepeep.dev", Password: "changeme", FirstName: "Avery", Role: "ADMIN"},
			{UserID: "user-1", Email: "user@tunepeep.dev", Password: "changeme", FirstName: "Uma", Role: "USER"},
		},
		catalog: []models.Music{
			{
				MusicID:     "stub-1",
				Title:       "Blue in Green",
				YouTubeID:   "yt-stub-1",
				Genre:       []models.Genre{{GenreID: 1, GenreName: "Jazz"}},
				AdminReview: "A quiet masterpiece.",
				Ranking:     models.Ranking{RankingValue: 1, RankingName: "Excellent"},
			},
			{
				MusicID:   "stub-2",
				Title:     "So What",
				YouTubeID: "yt-stub-2",
				Genre:     []models.Genre{{GenreID: 1, GenreName: "Jazz"}},
				Ranking:   models.Ranking{RankingValue: 999},
			},
		},
		genres: []models.Genre{
			{GenreID: 1, GenreName: "Jazz"},
			{GenreID: 2, GenreName: "Electronic"},
		},
		access:  map[string]tokenGrant{},
		refresh: map[string]string{},
	}
}

// Router builds the stub's route table.
func (s *StubServer) Router() http.Handler {
	r := NewBasicRouter()
	if s.logger != nil {
		r.Use(LoggingMiddleware(s.logger))
	}

	r.Handle(http.MethodPost, "/register", http.HandlerFunc(s.handleRegister))
	r.Handle(http.MethodPost, "/login", http.HandlerFunc(s.handleLogin))
	r.Handle(http.MethodPost, "/refresh", http.HandlerFunc(s.handleRefresh))
	r.Handle(http.MethodPost, "/logout", http.HandlerFunc(s.handleLogout))

	r.Handle(http.MethodGet, "/musics", http.HandlerFunc(s.handleMusics))
	r.Handle(http.MethodGet, "/genres", http.HandlerFunc(s.handleGenres))

	r.Handle(http.MethodGet, "/music/{id}", s.requireAuth(http.HandlerFunc(s.handleMusic)))
	r.Handle(http.MethodGet, "/recommendedmusic", s.requireAuth(http.HandlerFunc(s.handleRecommended)))

	r.Handle(http.MethodPost, "/addmusic", s.requireAdmin(http.HandlerFunc(s.handleAddMusic)))
	r.Handle(http.MethodPatch, "/edit/{id}", s.requireAdmin(http.HandlerFunc(s.handleEditMusic)))
	r.Handle(http.MethodDelete, "/delete/{id}", s.requireAdmin(http.HandlerFunc(s.handleDeleteMusic)))
	r.Handle(http.MethodPatch, "/updatereview/{id}", s.requireAdmin(http.HandlerFunc(s.handleUpdateReview)))

	return r
}

// sessionPayload is the body of successful /login and /refresh responses.
type sessionPayload struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// issueTokens mints a fresh access/refresh pair for the account.
// Caller holds s.mu.
func (s *StubServer) issueTokens(acct stubAccount) sessionPayload {
	accessToken := shared.GenerateID()
	refreshToken := shared.GenerateID()

	s.access[accessToken] = tokenGrant{userID: acct.UserID, expires: time.Now().Add(s.accessTTL)}
	s.refresh[refreshToken] = acct.UserID

	return sessionPayload{
		UserID:       acct.UserID,
		FirstName:    acct.FirstName,
		Role:         acct.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}
}

func (s *StubServer) accountByID(userID string) (stubAccount, bool) {
	for _, acct := range s.accounts {
		if acct.UserID == userID {
			return acct, true
		}
	}
	return stubAccount{}, false
}

// grantFor resolves the bearer credential on a request to its account.
func (s *StubServer) grantFor(r *http.Request) (stubAccount, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return stubAccount{}, false
	}
	token := header[len(prefix):]

	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.access[token]
	if !ok {
		return stubAccount{}, false
	}
	if time.Now().After(grant.expires) {
		delete(s.access, token)
		return stubAccount{}, false
	}

	return s.accountByID(grant.userID)
}

// requireAuth rejects requests without a live bearer credential.
func (s *StubServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.grantFor(r); !ok {
			writeError(w, http.StatusUnauthorized, "missing or expired credential")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin additionally rejects non-admin accounts.
func (s *StubServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, ok := s.grantFor(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or expired credential")
			return
		}
		if acct.Role != "ADMIN" {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleRegister creates a USER account and signs it in immediately.
func (s *StubServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}
	if input.FirstName == "" || input.Email == "" || input.Password == "" {
		writeError(w, http.StatusBadRequest, "first_name, email, and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Email == input.Email {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
	}

	acct := stubAccount{
		UserID:    shared.GenerateID(),
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		Role:      "USER",
	}
	s.accounts = append(s.accounts, acct)

	writeJSON(w, http.StatusCreated, s.issueTokens(acct))
}

func (s *StubServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Email == creds.Email && acct.Password == creds.Password {
			writeJSON(w, http.StatusOK, s.issueTokens(acct))
			return
		}
	}

	writeError(w, http.StatusUnauthorized, "invalid email or password")
}

func (s *StubServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refresh[body.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "refresh token not recognized")
		return
	}
	acct, ok := s.accountByID(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	// Rotation: the presented refresh token is spent.
	delete(s.refresh, body.RefreshToken)
	writeJSON(w, http.StatusOK, s.issueTokens(acct))
}

func (s *StubServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, grant := range s.access {
		if grant.userID == body.UserID {
			delete(s.access, token)
		}
	}
	for token, userID := range s.refresh {
		if userID == body.UserID {
			delete(s.refresh, token)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *StubServer) handleMusics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *StubServer) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.genres)
}

func (s *StubServer) handleMusic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.catalog {
		if entry.MusicID == id {
			writeJSON(w, http.StatusOK, entry)
			return
		}
	}
	writeError(w, http.StatusNotFound, "music entry not found")
}

// handleRecommended serves the rated slice of the catalog, best first.
func (s *StubServer) handleRecommended(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recommended []models.Music
	for rank := 1; rank <= 5; rank++ {
		for _, entry := range s.catalog {
			if entry.Ranking.RankingValue == rank {
				recommended = append(recommended, entry)
			}
		}
	}
	writeJSON(w, http.StatusOK, recommended)
}

func (s *StubServer) handleAddMusic(w http.ResponseWriter, r *http.Request) {
	var input models.MusicInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}
	if input.MusicID == "" || input.Title == "" {
		writeError(w, http.StatusBadRequest, "music_id and title are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.catalog {
		if entry.MusicID == input.MusicID {
			writeError(w, http.StatusConflict, "music_id already exists")
			return
		}
	}

	entry := models.Music{
		ID:        shared.GenerateID(),
		MusicID:   input.MusicID,
		Title:     input.Title,
		AlbumImg:  input.AlbumImg,
		YouTubeID: input.YouTubeID,
		Genre:     input.Genre,
		Ranking:   models.Ranking{RankingValue: 999},
	}
	s.catalog = append(s.catalog, entry)

	writeJSON(w, http.StatusCreated, entry)
}

func (s *StubServer) handleEditMusic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input models.MusicInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.catalog {
		if entry.MusicID == id {
			if input.Title != "" {
				s.catalog[i].Title = input.Title
			}
			if input.AlbumImg != "" {
				s.catalog[i].AlbumImg = input.AlbumImg
			}
			if input.YouTubeID != "" {
				s.catalog[i].YouTubeID = input.YouTubeID
			}
			if input.Genre != nil {
				s.catalog[i].Genre = input.Genre
			}
			writeJSON(w, http.StatusOK, s.catalog[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "music entry not found")
}

func (s *StubServer) handleDeleteMusic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.catalog {
		if entry.MusicID == id {
			s.catalog = append(s.catalog[:i], s.catalog[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "music entry not found")
}

func (s *StubServer) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		AdminReview string `json:"admin_review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "undecodable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.catalog {
		if entry.MusicID == id {
			s.catalog[i].AdminReview = body.AdminReview
			writeJSON(w, http.StatusOK, s.catalog[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "music entry not found")
}
