package ui

import (
	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/models"
)

// sessionResolvedMsg reports that the startup session check finished. The
// snapshot carries whatever the check found; session is nil for anonymous.
type sessionResolvedMsg struct {
	snapshot auth.Snapshot
}

// catalogFetchedMsg carries the public catalog listing.
type catalogFetchedMsg struct {
	musics []models.Music
	err    error
}

// musicFetchedMsg carries one full entry for the detail view.
type musicFetchedMsg struct {
	music *models.Music
	err   error
}

// loginResultMsg reports the outcome of a credential submission.
type loginResultMsg struct {
	session *auth.Session
	err     error
}

// loggedOutMsg reports that sign-out finished.
type loggedOutMsg struct{}

// reviewSavedMsg reports the outcome of an admin review submission.
type reviewSavedMsg struct {
	music *models.Music
	err   error
}

// entryDeletedMsg reports the outcome of an admin delete.
type entryDeletedMsg struct {
	musicID string
	err     error
}
