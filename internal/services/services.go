// package services defines interface Service for the TunePeep catalog API
package services

import (
	"context"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/models"
)

// Service defines the operations of the TunePeep catalog backend. The
// public reads need no credential; everything else dispatches through the
// authorized chokepoint.
type Service interface {
	// Register creates an account and signs it in. New accounts carry the
	// USER role.
	Register(ctx context.Context, firstName, email, password string) (*auth.Session, error)

	// Login exchanges credentials for a session and persists the issued
	// token as the ambient credential.
	Login(ctx context.Context, email, password string) (*auth.Session, error)

	// Logout invalidates the server-side credential and always clears
	// local session state, even when the call fails.
	Logout(ctx context.Context) error

	// CheckSession asks the backend whether the stored credential still
	// identifies a valid session.
	CheckSession(ctx context.Context) (*auth.Session, error)

	// Musics retrieves the public catalog.
	Musics(ctx context.Context) ([]models.Music, error)

	// Genres retrieves the available genre tags.
	Genres(ctx context.Context) ([]models.Genre, error)

	// Music retrieves a single catalog entry. Protected.
	Music(ctx context.Context, musicID string) (*models.Music, error)

	// Recommended retrieves the personalized recommendation list. Protected.
	Recommended(ctx context.Context) ([]models.Music, error)

	// AddMusic creates a catalog entry. Admin only.
	AddMusic(ctx context.Context, input models.MusicInput) (*models.Music, error)

	// EditMusic updates a catalog entry. Admin only.
	EditMusic(ctx context.Context, musicID string, input models.MusicInput) (*models.Music, error)

	// DeleteMusic removes a catalog entry. Admin only.
	DeleteMusic(ctx context.Context, musicID string) error

	// UpdateReview replaces the admin review text of an entry. Admin only.
	UpdateReview(ctx context.Context, musicID, review string) (*models.Music, error)

	// Name returns the service name for display.
	Name() string
}
