// package formatter renders catalog entries to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/ratings"
)

// genreNames flattens an entry's genre tags for single-column output.
func genreNames(entry models.Music) string {
	names := make([]string, 0, len(entry.Genre))
	for _, g := range entry.Genre {
		names = append(names, g.GenreName)
	}
	return strings.Join(names, ", ")
}

// ExportToCSV converts a catalog to CSV with columns: MusicID, Title, Genres, Rating, Stars, Review, YouTubeID
func ExportToCSV(musics []models.Music) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"MusicID", "Title", "Genres", "Rating", "Stars", "Review", "YouTubeID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range musics {
		rating := ratings.Present(entry.Ranking.RankingValue)
		record := []string{
			entry.MusicID,
			entry.Title,
			genreNames(entry),
			rating.Label,
			rating.String(),
			entry.AdminReview,
			entry.YouTubeID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts one catalog entry to a Markdown review page
func ExportToMarkdown(entry models.Music) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", entry.Title))

	if entry.AlbumImg != "" {
		buf.WriteString(fmt.Sprintf("![Album art](%s)\n\n", entry.AlbumImg))
	}

	rating := ratings.Present(entry.Ranking.RankingValue)
	if rating.Rated {
		buf.WriteString(fmt.Sprintf("**Rating**: %s (%s)\n", rating.String(), rating.Label))
	} else {
		buf.WriteString(fmt.Sprintf("**Rating**: %s\n", ratings.NotRatedLabel))
	}

	if genres := genreNames(entry); genres != "" {
		buf.WriteString(fmt.Sprintf("**Genres**: %s\n", genres))
	}
	if entry.YouTubeID != "" {
		buf.WriteString(fmt.Sprintf("**Listen**: https://www.youtube.com/watch?v=%s\n", entry.YouTubeID))
	}
	buf.WriteString("\n")

	if entry.AdminReview != "" {
		buf.WriteString("## Review\n\n")
		buf.WriteString(entry.AdminReview)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a catalog to plain text, one line per entry
func ExportToText(musics []models.Music) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Catalog: %d entries\n\n", len(musics)))

	for i, entry := range musics {
		rating := ratings.Present(entry.Ranking.RankingValue)
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, entry.Title, rating.String()))
	}

	return buf.Bytes(), nil
}

// RenderTable renders a catalog as an aligned text table for terminal output.
func RenderTable(musics []models.Music) string {
	var buf bytes.Buffer

	titleWidth := len("Title")
	for _, entry := range musics {
		if len(entry.Title) > titleWidth {
			titleWidth = len(entry.Title)
		}
	}

	fmt.Fprintf(&buf, "%-14s %-*s %-15s %s\n", "MusicID", titleWidth, "Title", "Rating", "Genres")
	for _, entry := range musics {
		rating := ratings.Present(entry.Ranking.RankingValue)
		fmt.Fprintf(&buf, "%-14s %-*s %-15s %s\n", entry.MusicID, titleWidth, entry.Title, rating.String(), genreNames(entry))
	}

	return buf.String()
}

// RenderDetail renders one entry for the catalog detail view.
func RenderDetail(entry models.Music) string {
	var buf bytes.Buffer

	rating := ratings.Present(entry.Ranking.RankingValue)

	fmt.Fprintf(&buf, "Title:   %s\n", entry.Title)
	fmt.Fprintf(&buf, "ID:      %s\n", entry.MusicID)
	fmt.Fprintf(&buf, "Rating:  %s", rating.String())
	if rating.Rated {
		fmt.Fprintf(&buf, " (%s)", rating.Label)
	}
	buf.WriteString("\n")
	if genres := genreNames(entry); genres != "" {
		fmt.Fprintf(&buf, "Genres:  %s\n", genres)
	}
	if entry.YouTubeID != "" {
		fmt.Fprintf(&buf, "YouTube: %s\n", entry.YouTubeID)
	}
	if entry.AdminReview != "" {
		fmt.Fprintf(&buf, "\n%s\n", entry.AdminReview)
	}

	return buf.String()
}

// WriteCSVExport writes the catalog as {base}_catalog.csv.
func WriteCSVExport(musics []models.Music, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "tunepeep"
	}

	csvData, err := ExportToCSV(musics)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	catalogFile := baseFilepath + "_catalog.csv"
	if err := os.WriteFile(catalogFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return catalogFile, nil
}

// WriteMarkdownExport writes one entry as {dir}/{music_id}.md.
func WriteMarkdownExport(entry models.Music, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(entry)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, entry.MusicID+".md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport writes the catalog as plain text to filepath.
//
// Defaults to tunepeep_catalog.txt.
func WriteTextExport(musics []models.Music, path string) (string, error) {
	if path == "" {
		path = "tunepeep_catalog.txt"
	}

	textData, err := ExportToText(musics)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteExportManifest writes a JSON summary of an export run to path.
func WriteExportManifest(result any, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
