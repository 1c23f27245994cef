package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/shared"
	"github.com/urfave/cli/v3"
)

// parseGenres turns a comma-separated list of names into genre tags. IDs
// are assigned by the backend; zero here means "new tag".
func parseGenres(raw string) []models.Genre {
	if raw == "" {
		return nil
	}

	var genres []models.Genre
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		genres = append(genres, models.Genre{GenreName: name})
	}
	return genres
}

// AdminAdd creates a catalog entry. New entries start out unrated.
func (r *Runner) AdminAdd(ctx context.Context, cmd *cli.Command) error {
	input := models.MusicInput{
		MusicID:   cmd.String("id"),
		Title:     cmd.String("title"),
		AlbumImg:  cmd.String("album-img"),
		YouTubeID: cmd.String("youtube-id"),
		Genre:     parseGenres(cmd.String("genres")),
	}

	r.logger.Info("adding catalog entry", "music_id", input.MusicID)

	music, err := r.svc.AddMusic(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	r.writePlain("✓ Added %s (%s)\n", music.Title, music.MusicID)
	return nil
}

// AdminEdit updates a catalog entry. Only the provided flags change.
func (r *Runner) AdminEdit(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: music ID is required", shared.ErrMissingArgument)
	}

	input := models.MusicInput{
		Title:     cmd.String("title"),
		AlbumImg:  cmd.String("album-img"),
		YouTubeID: cmd.String("youtube-id"),
	}
	if input.Title == "" && input.AlbumImg == "" && input.YouTubeID == "" {
		return fmt.Errorf("%w: nothing to change", shared.ErrMissingArgument)
	}

	r.logger.Info("editing catalog entry", "music_id", musicID)

	music, err := r.svc.EditMusic(ctx, musicID, input)
	if err != nil {
		return fmt.Errorf("failed to edit entry: %w", err)
	}

	r.writePlain("✓ Updated %s (%s)\n", music.Title, music.MusicID)
	return nil
}

// AdminDelete removes a catalog entry.
func (r *Runner) AdminDelete(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: music ID is required", shared.ErrMissingArgument)
	}

	r.logger.Info("deleting catalog entry", "music_id", musicID)

	if err := r.svc.DeleteMusic(ctx, musicID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	r.writePlain("✓ Deleted %s\n", musicID)
	return nil
}

// AdminReview replaces the admin review text of an entry.
func (r *Runner) AdminReview(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: music ID is required", shared.ErrMissingArgument)
	}

	r.logger.Info("updating review", "music_id", musicID)

	music, err := r.svc.UpdateReview(ctx, musicID, cmd.String("text"))
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	r.writePlain("✓ Review updated for %s\n", music.Title)
	return nil
}
