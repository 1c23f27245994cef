package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/ratings"
)

var _ list.Item = musicItem{}

// musicItem wraps [models.Music] to implement [list.Item].
type musicItem struct {
	music models.Music
}

func (i musicItem) FilterValue() string { return i.music.Title }
func (i musicItem) Title() string       { return i.music.Title }
func (i musicItem) Description() string {
	rating := ratings.Present(i.music.Ranking.RankingValue)
	desc := rating.String()

	if len(i.music.Genre) > 0 {
		names := make([]string, 0, len(i.music.Genre))
		for _, g := range i.music.Genre {
			names = append(names, g.GenreName)
		}
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(names, ", "))
	}
	return desc
}
