package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/omicreativedev/tunepeep/internal/formatter"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
)

// ExportOpts contains configuration for catalog exports.
type ExportOpts struct {
	Format     string // Export format: json, csv, markdown, txt
	OutputDir  string // Base output directory (default: tunepeep_export_{epoch})
	NumWorkers int    // Concurrent workers for per-entry formats (default: 5)
}

// EntryExportResult records the outcome for one catalog entry.
type EntryExportResult struct {
	MusicID string `json:"music_id"`
	Title   string `json:"title"`
	Success bool   `json:"success"`
	File    string `json:"file,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExportResult summarizes an export run.
type ExportResult struct {
	TotalEntries    int                 `json:"total_entries"`
	Format          string              `json:"format"`
	OutputDirectory string              `json:"output_directory"`
	Files           []string            `json:"files"`
	FailedEntries   []EntryExportResult `json:"failed_entries,omitempty"`
	ManifestPath    string              `json:"manifest_path,omitempty"`
}

type entryExportJob struct {
	entry models.Music
}

// Export renders the catalog to files in the requested format.
//
// CSV, text, and JSON produce a single aggregate file. Markdown renders
// one review page per entry through a worker pool. A JSON manifest
// summarizing the run is written alongside the output.
func (e *CatalogEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tunepeep_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(progress, fetchCatalogUpdate())
	musics, err := e.catalog(ctx)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		TotalEntries:    len(musics),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Files:           []string{},
	}

	switch opts.Format {
	case "markdown":
		e.exportMarkdown(ctx, progress, musics, opts, result)

	case "csv":
		path, err := formatter.WriteCSVExport(musics, filepath.Join(opts.OutputDir, "tunepeep"))
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
		e.sendProgress(progress, exportFileUpdate(path))

	case "txt":
		path, err := formatter.WriteTextExport(musics, filepath.Join(opts.OutputDir, "tunepeep_catalog.txt"))
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
		e.sendProgress(progress, exportFileUpdate(path))

	case "json":
		fallthrough
	default:
		path := filepath.Join(opts.OutputDir, "tunepeep_catalog.json")
		data, err := json.MarshalIndent(musics, "", "  ")
		if err != nil {
			return result, fmt.Errorf("JSON marshal failed: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return result, fmt.Errorf("JSON write failed: %w", err)
		}
		result.Files = append(result.Files, path)
		e.sendProgress(progress, exportFileUpdate(path))
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(progress, manifestUpdate(manifestPath))

	return result, nil
}

// exportMarkdown renders one review page per entry through a worker pool.
func (e *CatalogEngine) exportMarkdown(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	musics []models.Music,
	opts ExportOpts,
	result *ExportResult,
) {
	jobs := make(chan entryExportJob, len(musics))
	results := make(chan EntryExportResult, len(musics))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				res := EntryExportResult{MusicID: job.entry.MusicID, Title: job.entry.Title}
				path, err := formatter.WriteMarkdownExport(job.entry, opts.OutputDir)
				if err != nil {
					res.Error = err.Error()
				} else {
					res.Success = true
					res.File = path
				}
				results <- res
			}
		}()
	}

	for _, entry := range musics {
		jobs <- entryExportJob{entry: entry}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.Files = append(result.Files, res.File)
			e.sendProgress(progress, exportEntryUpdate(completed, len(musics), res.Title))
		} else {
			result.FailedEntries = append(result.FailedEntries, res)
		}
	}
}
