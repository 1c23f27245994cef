package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/omicreativedev/tunepeep/internal/formatter"
	"github.com/omicreativedev/tunepeep/internal/repositories"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"github.com/omicreativedev/tunepeep/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openCache opens the local cache database and wraps it in the engine's
// cacher interface. The caller must invoke the returned closer.
func (r *Runner) openCache() (*repositories.MusicCacheAdapter, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	adapter := repositories.NewMusicCacheAdapter(repositories.NewMusicRepository(db))
	return adapter, func() { db.Close() }, nil
}

// CacheSync pulls the full catalog from the backend into the local cache.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	engine := tasks.NewCatalogEngine(r.svc, cache)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Sync(ctx, progress, tasks.SyncOpts{RateLimit: cmd.Float("rate")})
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlainln("✓ Synced %d/%d entries", result.Cached, result.Total)
	if result.Failed > 0 {
		r.writePlainln("  %d entries failed:", result.Failed)
		for _, msg := range result.Errors {
			r.writePlainln("  - %s", msg)
		}
	}
	return nil
}

// CacheList prints the locally cached catalog without touching the backend.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	musics, err := cache.CachedCatalog()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if len(musics) == 0 {
		return r.writePlain("Cache is empty. Run 'tunepeep cache sync' first.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Cached catalog (%d entries)", len(musics)))
	return r.writePlain("%s", formatter.RenderTable(musics))
}
