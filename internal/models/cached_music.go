package models

import (
	"fmt"
	"time"
)

// CachedMusic is a catalog entry stored in the local sqlite cache for
// offline browsing and export.
type CachedMusic struct {
	id        string
	sequence  int
	entry     Music
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*CachedMusic)(nil)

// NewCachedMusic wraps a catalog entry for persistence. The repository
// assigns the ID and sequence on insert.
func NewCachedMusic(sequence int, entry Music) *CachedMusic {
	now := time.Now()
	return &CachedMusic{
		sequence:  sequence,
		entry:     entry,
		createdAt: now,
		updatedAt: now,
	}
}

func (m *CachedMusic) ID() string           { return m.id }
func (m *CachedMusic) Sequence() int        { return m.sequence }
func (m *CachedMusic) Entry() Music         { return m.entry }
func (m *CachedMusic) CreatedAt() time.Time { return m.createdAt }
func (m *CachedMusic) UpdatedAt() time.Time { return m.updatedAt }
func (m *CachedMusic) DeletedAt() *time.Time { return m.deletedAt }

func (m *CachedMusic) SetID(id string)              { m.id = id }
func (m *CachedMusic) SetEntry(entry Music)         { m.entry = entry }
func (m *CachedMusic) SetCreatedAt(t time.Time)     { m.createdAt = t }
func (m *CachedMusic) SetUpdatedAt(t time.Time)     { m.updatedAt = t }
func (m *CachedMusic) SetDeletedAt(t *time.Time)    { m.deletedAt = t }

// Validate checks the fields the cache requires. The full shape is the
// backend's concern; an entry without a music_id or title cannot be keyed
// or displayed, so those are rejected here.
func (m *CachedMusic) Validate() error {
	if m.entry.MusicID == "" {
		return fmt.Errorf("music_id is required")
	}
	if m.entry.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
