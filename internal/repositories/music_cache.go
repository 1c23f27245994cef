package repositories

import (
	"fmt"
	"strings"

	"github.com/omicreativedev/tunepeep/internal/models"
)

// MusicCacheAdapter implements tasks.CatalogCacher using MusicRepository.
//
// Entries are keyed by the backend's music_id: a sync run updates entries
// that already exist and inserts the rest. Racing inserts hitting the
// UNIQUE constraint are treated as already-cached.
type MusicCacheAdapter struct {
	repo *MusicRepository
}

// NewMusicCacheAdapter creates a new MusicCacheAdapter with the given repository
func NewMusicCacheAdapter(repo *MusicRepository) *MusicCacheAdapter {
	return &MusicCacheAdapter{repo: repo}
}

// CacheMusic upserts one catalog entry into the local cache.
func (a *MusicCacheAdapter) CacheMusic(entry models.Music) error {
	existing, err := a.repo.GetByMusicID(entry.MusicID)
	if err == nil && existing != nil {
		existing.SetEntry(entry)
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached music: %w", err)
		}
		return nil
	}

	music := models.NewCachedMusic(0, entry)
	if err := a.repo.Create(music); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache music: %w", err)
	}

	return nil
}

// CachedCatalog returns every live cache entry in insertion order.
func (a *MusicCacheAdapter) CachedCatalog() ([]models.Music, error) {
	cached, err := a.repo.List(map[string]any{})
	if err != nil {
		return nil, err
	}

	musics := make([]models.Music, 0, len(cached))
	for _, m := range cached {
		musics = append(musics, m.Entry())
	}
	return musics, nil
}
