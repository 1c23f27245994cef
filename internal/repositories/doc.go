// Package repositories implements SQLite persistence for the local catalog cache.
//
// [MusicRepository] implements models.Repository[*models.CachedMusic] with
// soft deletes via deleted_at timestamps; deleted records are excluded from
// queries by default. Genre tags are stored as a JSON column because the
// cache never queries by genre; filtering happens in memory.
//
// Sequence numbers provide stable, human-readable ordering independent of
// UUIDs and creation timestamps. [NextSequence] atomically increments the
// per-table counter in a dedicated sequence table.
package repositories
