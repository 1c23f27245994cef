// Package tasks orchestrates long-running catalog operations with real-time progress reporting.
//
// # Core Operations
//
// The [CatalogEngine] implements two operations:
//
//  1. [CatalogEngine.Sync] : Pull the full catalog into the local cache
//     - Fetches every entry from the backend
//     - Upserts each into the SQLite cache, keyed by music_id
//     - Respects a configurable rate limit
//
//  2. [CatalogEngine.Export] : Render the catalog to files
//     - CSV, plain text, and JSON produce one aggregate file
//     - Markdown renders one review page per entry through a worker pool
//     - Writes a JSON manifest summarizing the run
//
// # Progress Reporting
//
// All operations send [ProgressUpdate] values over a caller-supplied
// channel. Sends use select with default so a slow or absent consumer
// never blocks the operation.
//
// # Caching
//
// The [CatalogCacher] interface decouples the engine from the persistence
// layer; repositories.MusicCacheAdapter is the production implementation.
// Export can fall back to the cache when the backend is unreachable.
package tasks
