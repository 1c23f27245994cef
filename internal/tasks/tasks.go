package tasks

import (
	"context"
	"fmt"

	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/services"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"golang.org/x/time/rate"
)

// CatalogCacher persists fetched catalog entries. Implemented by
// repositories.MusicCacheAdapter.
type CatalogCacher interface {
	CacheMusic(entry models.Music) error
	CachedCatalog() ([]models.Music, error)
}

// SyncOpts contains configuration for a catalog sync.
type SyncOpts struct {
	RateLimit float64 // Upserts per second (default: 50)
}

// SyncResult summarizes a catalog sync run.
type SyncResult struct {
	Total   int      `json:"total"`   // Entries fetched from the backend
	Cached  int      `json:"cached"`  // Entries written to the cache
	Failed  int      `json:"failed"`  // Entries that could not be cached
	Errors  []string `json:"errors,omitempty"`
}

// CatalogEngine orchestrates catalog sync and export runs.
type CatalogEngine struct {
	svc   services.Service
	cache CatalogCacher
}

// NewCatalogEngine creates a CatalogEngine. cache may be nil, in which case
// Sync is unavailable and Export always hits the backend.
func NewCatalogEngine(svc services.Service, cache CatalogCacher) *CatalogEngine {
	return &CatalogEngine{svc: svc, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Sync pulls the full catalog from the backend into the local cache.
func (e *CatalogEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 50
	}

	e.sendProgress(progress, fetchCatalogUpdate())
	musics, err := e.svc.Musics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	result := &SyncResult{Total: len(musics)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, entry := range musics {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("sync cancelled: %w", err)
		}

		if err := e.cache.CacheMusic(entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.MusicID, err))
			e.sendProgress(progress, cacheFailedUpdate(i+1, len(musics), entry.Title, err))
			continue
		}

		result.Cached++
		e.sendProgress(progress, cacheEntryUpdate(i+1, len(musics), entry.Title))
	}

	return result, nil
}

// catalog fetches from the backend, falling back to the local cache when
// the backend is unreachable.
func (e *CatalogEngine) catalog(ctx context.Context) ([]models.Music, error) {
	musics, err := e.svc.Musics(ctx)
	if err == nil {
		return musics, nil
	}

	if e.cache != nil {
		if cached, cacheErr := e.cache.CachedCatalog(); cacheErr == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	return nil, fmt.Errorf("failed to fetch catalog: %w", err)
}
