package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// MusicRepository implements models.Repository[*models.CachedMusic] for the
// local catalog cache.
type MusicRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedMusic] = (*MusicRepository)(nil)

// NewMusicRepository creates a new MusicRepository with the given database connection
func NewMusicRepository(db *sql.DB) *MusicRepository {
	return &MusicRepository{db: db}
}

// Create inserts a new [models.CachedMusic] with a generated ID and sequence
func (r *MusicRepository) Create(music *models.CachedMusic) error {
	sequence, err := NextSequence(r.db, "musics")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	music.SetID(id)

	if err := music.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	entry := music.Entry()
	genres, err := json.Marshal(entry.Genre)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}

	query := `
		INSERT INTO musics (id, sequence, music_id, title, album_img, youtube_id, genres, admin_review, ranking_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		entry.MusicID,
		entry.Title,
		entry.AlbumImg,
		entry.YouTubeID,
		string(genres),
		entry.AdminReview,
		entry.Ranking.RankingValue,
		music.CreatedAt(),
		music.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert music: %w", err)
	}

	return nil
}

// Get retrieves an entry by cache ID, excluding soft-deleted entries
func (r *MusicRepository) Get(id string) (*models.CachedMusic, error) {
	query := selectColumns + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByMusicID retrieves an entry by the backend's music_id key
func (r *MusicRepository) GetByMusicID(musicID string) (*models.CachedMusic, error) {
	query := selectColumns + ` WHERE music_id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, musicID))
}

// Update modifies an existing entry in the cache
func (r *MusicRepository) Update(music *models.CachedMusic) error {
	if err := music.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	music.SetUpdatedAt(now)

	entry := music.Entry()
	genres, err := json.Marshal(entry.Genre)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}

	query := `
		UPDATE musics
		SET title = ?, album_img = ?, youtube_id = ?, genres = ?, admin_review = ?, ranking_value = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		entry.Title,
		entry.AlbumImg,
		entry.YouTubeID,
		string(genres),
		entry.AdminReview,
		entry.Ranking.RankingValue,
		now,
		music.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update music: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrMusicNotFound, music.ID())
	}

	return nil
}

// Delete soft-deletes an entry by cache ID
func (r *MusicRepository) Delete(id string) error {
	query := `
		UPDATE musics
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete music: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrMusicNotFound, id)
	}

	return nil
}

// List retrieves entries matching the given criteria, excluding soft-deleted
// entries. Supported criteria: "rated" (bool) filters on whether a ranking
// has been assigned; "ranking_value" (int) matches an exact rating.
func (r *MusicRepository) List(criteria map[string]any) ([]*models.CachedMusic, error) {
	query := selectColumns + ` WHERE deleted_at IS NULL`
	args := []any{}

	if rated, ok := criteria["rated"].(bool); ok {
		if rated {
			query += " AND ranking_value BETWEEN 1 AND 5"
		} else {
			query += " AND ranking_value NOT BETWEEN 1 AND 5"
		}
	}

	if value, ok := criteria["ranking_value"].(int); ok {
		query += " AND ranking_value = ?"
		args = append(args, value)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query musics: %w", err)
	}
	defer rows.Close()

	var musics []*models.CachedMusic
	for rows.Next() {
		music, err := scanMusic(rows.Scan)
		if err != nil {
			return nil, err
		}
		musics = append(musics, music)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return musics, nil
}

const selectColumns = `
	SELECT id, sequence, music_id, title, album_img, youtube_id, genres, admin_review, ranking_value, created_at, updated_at, deleted_at
	FROM musics`

func (r *MusicRepository) scanOne(row *sql.Row) (*models.CachedMusic, error) {
	music, err := scanMusic(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not in cache", shared.ErrMusicNotFound)
	}
	return music, err
}

// scanMusic rebuilds a [models.CachedMusic] from one row. scan is either
// sql.Row.Scan or sql.Rows.Scan.
func scanMusic(scan func(dest ...any) error) (*models.CachedMusic, error) {
	var (
		id           string
		sequence     int
		musicID      string
		title        string
		albumImg     string
		youtubeID    string
		genresJSON   string
		adminReview  string
		rankingValue int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&id, &sequence, &musicID, &title, &albumImg, &youtubeID, &genresJSON, &adminReview, &rankingValue, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan music: %w", err)
	}

	var genres []models.Genre
	if err := json.Unmarshal([]byte(genresJSON), &genres); err != nil {
		return nil, fmt.Errorf("corrupt genre column for %s: %w", musicID, err)
	}

	entry := models.Music{
		MusicID:     musicID,
		Title:       title,
		AlbumImg:    albumImg,
		YouTubeID:   youtubeID,
		Genre:       genres,
		AdminReview: adminReview,
		Ranking:     models.Ranking{RankingValue: rankingValue},
	}

	music := models.NewCachedMusic(sequence, entry)
	music.SetID(id)
	music.SetCreatedAt(createdAt)
	music.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		music.SetDeletedAt(&deletedAt.Time)
	}

	return music, nil
}
