// package models defines the data model for the TunePeep catalog client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the local cache.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Genre is a genre tag attached to a catalog entry.
type Genre struct {
	GenreID   int    `json:"genre_id"`
	GenreName string `json:"genre_name"`
}

// Ranking is the stored admin rating of a catalog entry. A ranking value of
// 999 means the entry has not been rated yet.
type Ranking struct {
	RankingValue int    `json:"ranking_value"`
	RankingName  string `json:"ranking_name"`
}

// Music is a catalog entry as served by the TunePeep backend.
type Music struct {
	ID          string  `json:"_id,omitempty"`
	MusicID     string  `json:"music_id"`
	Title       string  `json:"title"`
	AlbumImg    string  `json:"album_img"`
	YouTubeID   string  `json:"youtube_id"`
	Genre       []Genre `json:"genre"`
	AdminReview string  `json:"admin_review,omitempty"`
	Ranking     Ranking `json:"ranking"`
}

// MusicInput is the payload for the admin create and edit operations.
// Validation and persistence are the backend's responsibility; the client
// only checks for obviously missing fields before dispatch.
type MusicInput struct {
	MusicID   string  `json:"music_id"`
	Title     string  `json:"title"`
	AlbumImg  string  `json:"album_img"`
	YouTubeID string  `json:"youtube_id"`
	Genre     []Genre `json:"genre"`
}
