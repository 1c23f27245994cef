package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleEntry(musicID, title string, ranking int) models.Music {
	return models.Music{
		MusicID:   musicID,
		Title:     title,
		AlbumImg:  "https://img.example.com/" + musicID + ".jpg",
		YouTubeID: "yt-" + musicID,
		Genre:     []models.Genre{{GenreID: 1, GenreName: "Jazz"}},
		Ranking:   models.Ranking{RankingValue: ranking},
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "musics")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "musics")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}
}

func TestMusicRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		music := models.NewCachedMusic(0, sampleEntry("m-1", "Blue in Green", 1))

		if err := repo.Create(music); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}
		if music.ID() == "" {
			t.Error("music ID should be set after creation")
		}
	})

	t.Run("Create Rejects Invalid Entries", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		music := models.NewCachedMusic(0, models.Music{MusicID: "m-1"})

		if err := repo.Create(music); err == nil {
			t.Error("expected validation error for entry without a title")
		}
	})

	t.Run("Duplicate MusicID Violates Constraint", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		if err := repo.Create(models.NewCachedMusic(0, sampleEntry("m-1", "Blue in Green", 1))); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}
		if err := repo.Create(models.NewCachedMusic(0, sampleEntry("m-1", "Duplicate", 2))); err == nil {
			t.Error("expected UNIQUE constraint violation for duplicate music_id")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		music := models.NewCachedMusic(0, sampleEntry("m-1", "Blue in Green", 1))
		if err := repo.Create(music); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		retrieved, err := repo.Get(music.ID())
		if err != nil {
			t.Fatalf("failed to get music: %v", err)
		}

		entry := retrieved.Entry()
		if entry.MusicID != "m-1" || entry.Title != "Blue in Green" {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if len(entry.Genre) != 1 || entry.Genre[0].GenreName != "Jazz" {
			t.Errorf("expected genres to round-trip through the JSON column, got %+v", entry.Genre)
		}
		if entry.Ranking.RankingValue != 1 {
			t.Errorf("expected ranking 1, got %d", entry.Ranking.RankingValue)
		}
	})

	t.Run("GetByMusicID", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		if err := repo.Create(models.NewCachedMusic(0, sampleEntry("m-7", "So What", 999))); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		retrieved, err := repo.GetByMusicID("m-7")
		if err != nil {
			t.Fatalf("failed to get music by music_id: %v", err)
		}
		if retrieved.Entry().Title != "So What" {
			t.Errorf("unexpected entry: %+v", retrieved.Entry())
		}

		if _, err := repo.GetByMusicID("absent"); !errors.Is(err, shared.ErrMusicNotFound) {
			t.Errorf("expected ErrMusicNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		music := models.NewCachedMusic(0, sampleEntry("m-1", "Blue in Green", 999))
		if err := repo.Create(music); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		entry := music.Entry()
		entry.AdminReview = "a quiet masterpiece"
		entry.Ranking = models.Ranking{RankingValue: 1}
		music.SetEntry(entry)

		if err := repo.Update(music); err != nil {
			t.Fatalf("failed to update music: %v", err)
		}

		retrieved, err := repo.Get(music.ID())
		if err != nil {
			t.Fatalf("failed to get music: %v", err)
		}
		if retrieved.Entry().AdminReview != "a quiet masterpiece" {
			t.Errorf("expected updated review, got %q", retrieved.Entry().AdminReview)
		}
		if retrieved.Entry().Ranking.RankingValue != 1 {
			t.Errorf("expected updated ranking, got %d", retrieved.Entry().Ranking.RankingValue)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		music := models.NewCachedMusic(0, sampleEntry("m-1", "Blue in Green", 1))
		if err := repo.Create(music); err != nil {
			t.Fatalf("failed to create music: %v", err)
		}

		if err := repo.Delete(music.ID()); err != nil {
			t.Fatalf("failed to delete music: %v", err)
		}
		if _, err := repo.Get(music.ID()); !errors.Is(err, shared.ErrMusicNotFound) {
			t.Errorf("expected soft-deleted entry to be invisible, got %v", err)
		}
		if err := repo.Delete(music.ID()); !errors.Is(err, shared.ErrMusicNotFound) {
			t.Errorf("expected repeat delete to report not found, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewMusicRepository(db)
		fixtures := []models.Music{
			sampleEntry("m-1", "Blue in Green", 1),
			sampleEntry("m-2", "So What", 999),
			sampleEntry("m-3", "Freddie Freeloader", 3),
		}
		for _, f := range fixtures {
			if err := repo.Create(models.NewCachedMusic(0, f)); err != nil {
				t.Fatalf("failed to create music: %v", err)
			}
		}

		t.Run("All", func(t *testing.T) {
			all, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list musics: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 entries, got %d", len(all))
			}
			if all[0].Entry().MusicID != "m-1" || all[2].Entry().MusicID != "m-3" {
				t.Error("expected entries in insertion order")
			}
		})

		t.Run("Rated Only", func(t *testing.T) {
			rated, err := repo.List(map[string]any{"rated": true})
			if err != nil {
				t.Fatalf("failed to list musics: %v", err)
			}
			if len(rated) != 2 {
				t.Errorf("expected 2 rated entries, got %d", len(rated))
			}
		})

		t.Run("Unrated Only", func(t *testing.T) {
			unrated, err := repo.List(map[string]any{"rated": false})
			if err != nil {
				t.Fatalf("failed to list musics: %v", err)
			}
			if len(unrated) != 1 || unrated[0].Entry().MusicID != "m-2" {
				t.Errorf("expected only the unrated entry, got %d entries", len(unrated))
			}
		})

		t.Run("Exact Ranking", func(t *testing.T) {
			exact, err := repo.List(map[string]any{"ranking_value": 3})
			if err != nil {
				t.Fatalf("failed to list musics: %v", err)
			}
			if len(exact) != 1 || exact[0].Entry().MusicID != "m-3" {
				t.Errorf("expected only the ranking-3 entry, got %d entries", len(exact))
			}
		})
	})
}

func TestMusicCacheAdapter(t *testing.T) {
	t.Run("Caches New Entries", func(t *testing.T) {
		db := setupTestDB(t)

		adapter := NewMusicCacheAdapter(NewMusicRepository(db))
		if err := adapter.CacheMusic(sampleEntry("m-1", "Blue in Green", 1)); err != nil {
			t.Fatalf("failed to cache music: %v", err)
		}

		catalog, err := adapter.CachedCatalog()
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}
		if len(catalog) != 1 || catalog[0].MusicID != "m-1" {
			t.Errorf("unexpected cache contents: %+v", catalog)
		}
	})

	t.Run("Refreshes Existing Entries", func(t *testing.T) {
		db := setupTestDB(t)

		adapter := NewMusicCacheAdapter(NewMusicRepository(db))
		if err := adapter.CacheMusic(sampleEntry("m-1", "Blue in Green", 999)); err != nil {
			t.Fatalf("failed to cache music: %v", err)
		}

		updated := sampleEntry("m-1", "Blue in Green", 1)
		updated.AdminReview = "rated on second listen"
		if err := adapter.CacheMusic(updated); err != nil {
			t.Fatalf("failed to refresh cached music: %v", err)
		}

		catalog, err := adapter.CachedCatalog()
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}
		if len(catalog) != 1 {
			t.Fatalf("expected the entry to be updated in place, got %d entries", len(catalog))
		}
		if catalog[0].Ranking.RankingValue != 1 || catalog[0].AdminReview != "rated on second listen" {
			t.Errorf("expected refreshed entry, got %+v", catalog[0])
		}
	})
}
