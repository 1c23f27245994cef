// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/models"
)

// MockService is a configurable test double for [services.Service].
// Unset function fields return zero values.
type MockService struct {
	RegisterFunc     func(ctx context.Context, firstName, email, password string) (*auth.Session, error)
	LoginFunc        func(ctx context.Context, email, password string) (*auth.Session, error)
	LogoutFunc       func(ctx context.Context) error
	CheckSessionFunc func(ctx context.Context) (*auth.Session, error)
	MusicsFunc       func(ctx context.Context) ([]models.Music, error)
	GenresFunc       func(ctx context.Context) ([]models.Genre, error)
	MusicFunc        func(ctx context.Context, musicID string) (*models.Music, error)
	RecommendedFunc  func(ctx context.Context) ([]models.Music, error)
	AddMusicFunc     func(ctx context.Context, input models.MusicInput) (*models.Music, error)
	EditMusicFunc    func(ctx context.Context, musicID string, input models.MusicInput) (*models.Music, error)
	DeleteMusicFunc  func(ctx context.Context, musicID string) error
	UpdateReviewFunc func(ctx context.Context, musicID, review string) (*models.Music, error)
}

func (m *MockService) Register(ctx context.Context, firstName, email, password string) (*auth.Session, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, firstName, email, password)
	}
	return nil, nil
}

func (m *MockService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockService) CheckSession(ctx context.Context) (*auth.Session, error) {
	if m.CheckSessionFunc != nil {
		return m.CheckSessionFunc(ctx)
	}
	return nil, nil
}

func (m *MockService) Musics(ctx context.Context) ([]models.Music, error) {
	if m.MusicsFunc != nil {
		return m.MusicsFunc(ctx)
	}
	return []models.Music{}, nil
}

func (m *MockService) Genres(ctx context.Context) ([]models.Genre, error) {
	if m.GenresFunc != nil {
		return m.GenresFunc(ctx)
	}
	return []models.Genre{}, nil
}

func (m *MockService) Music(ctx context.Context, musicID string) (*models.Music, error) {
	if m.MusicFunc != nil {
		return m.MusicFunc(ctx, musicID)
	}
	return nil, nil
}

func (m *MockService) Recommended(ctx context.Context) ([]models.Music, error) {
	if m.RecommendedFunc != nil {
		return m.RecommendedFunc(ctx)
	}
	return []models.Music{}, nil
}

func (m *MockService) AddMusic(ctx context.Context, input models.MusicInput) (*models.Music, error) {
	if m.AddMusicFunc != nil {
		return m.AddMusicFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockService) EditMusic(ctx context.Context, musicID string, input models.MusicInput) (*models.Music, error) {
	if m.EditMusicFunc != nil {
		return m.EditMusicFunc(ctx, musicID, input)
	}
	return nil, nil
}

func (m *MockService) DeleteMusic(ctx context.Context, musicID string) error {
	if m.DeleteMusicFunc != nil {
		return m.DeleteMusicFunc(ctx, musicID)
	}
	return nil
}

func (m *MockService) UpdateReview(ctx context.Context, musicID, review string) (*models.Music, error) {
	if m.UpdateReviewFunc != nil {
		return m.UpdateReviewFunc(ctx, musicID, review)
	}
	return nil, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
