package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/omicreativedev/tunepeep/internal/formatter"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"github.com/omicreativedev/tunepeep/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogList prints the public catalog listing.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	musics, err := r.svc.Musics(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(musics, true)
	}

	r.writePlainHeader(fmt.Sprintf("Catalog (%d entries)", len(musics)))
	return r.writePlain("%s", formatter.RenderTable(musics))
}

// CatalogShow prints one entry in full. The detail endpoint is protected,
// so an anonymous run fails with a sign-in hint.
func (r *Runner) CatalogShow(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: music ID is required", shared.ErrMissingArgument)
	}

	music, err := r.svc.Music(ctx, musicID)
	if err != nil {
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(music, true)
	}

	return r.writePlain("%s", formatter.RenderDetail(*music))
}

// CatalogRecommended prints the personalized recommendation list.
func (r *Runner) CatalogRecommended(ctx context.Context, cmd *cli.Command) error {
	musics, err := r.svc.Recommended(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(musics, true)
	}

	r.writePlainHeader(fmt.Sprintf("Recommended (%d entries)", len(musics)))
	return r.writePlain("%s", formatter.RenderTable(musics))
}

// CatalogGenres prints the genre tag list.
func (r *Runner) CatalogGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.svc.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	for _, g := range genres {
		r.writePlain("%d\t%s\n", g.GenreID, g.GenreName)
	}
	return nil
}

// CatalogExport renders the catalog to files, falling back to the local
// cache when the backend is unreachable.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))

	// The cache is optional here. Without it, exports always hit the
	// backend directly. The interface stays nil when openCache fails so
	// the engine never sees a nil adapter behind a non-nil value.
	var cacher tasks.CatalogCacher
	cache, closeCache, err := r.openCache()
	if err != nil {
		r.logger.Warn("cache unavailable, exporting from backend only", "error", err)
	} else {
		cacher = cache
		defer closeCache()
	}

	engine := tasks.NewCatalogEngine(r.svc, cacher)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Export(ctx, progress, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d entries (%s) to %s", result.TotalEntries, result.Format, result.OutputDirectory)
	if len(result.FailedEntries) > 0 {
		r.writePlainln("  %d entries failed", len(result.FailedEntries))
	}
	return nil
}
