package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/tasks"
)

// feedLoadedMsg carries the home feed for request id.
type feedLoadedMsg struct {
	id   uint64
	feed *tasks.Feed
	err  error
}

// searchResultsMsg carries song search results for request id.
type searchResultsMsg struct {
	id    uint64
	query string
	songs []models.Song
}

// progressUpdateMsg relays a feed loader update read from ch.
type progressUpdateMsg struct {
	update tasks.ProgressUpdate
	ch     <-chan tasks.ProgressUpdate
}

// tickMsg re-renders the player while audio advances.
type tickMsg time.Time

// coverOpenedMsg reports the outcome of opening cover art.
type coverOpenedMsg struct{ err error }

const tickInterval = time.Second

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForProgress reads the next update from ch, or nothing once it closes.
func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg{update: update, ch: ch}
	}
}
