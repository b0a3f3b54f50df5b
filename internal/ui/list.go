package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if i.song.Favorite {
		return "★ " + i.song.Title
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.ArtistName
	if i.song.AlbumTitle != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.AlbumTitle)
	}
	if i.song.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatClock(float64(i.song.Duration)))
	}
	if i.song.AudioURL == "" {
		desc += " • unavailable"
	}
	return desc
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}

func newSongList(title string, songs []models.Song, width, height int) list.Model {
	l := list.New(songItems(songs), list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("song", "songs")
	l.DisableQuitKeybindings()
	return l
}
