package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/shared"
)

const (
	minBarWidth     = 10
	compactBarWidth = 30
)

// PlayerView renders the injected [player.State] as a compact bar or, when
// the state is expanded, a full now-playing panel. It never writes state.
type PlayerView struct {
	state *player.State
	bar   progress.Model
	help  help.Model
	keys  keyMap
	width int
}

// NewPlayerView creates a view reading from state.
func NewPlayerView(state *player.State) *PlayerView {
	return &PlayerView{
		state: state,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:  help.New(),
		keys:  newKeyMap(),
		width: 80,
	}
}

// SetWidth sets the terminal width the view lays out against.
func (v *PlayerView) SetWidth(width int) {
	if width > 0 {
		v.width = width
	}
	v.help.Width = v.width
}

// View renders the current snapshot.
func (v *PlayerView) View() string {
	return v.Render(v.state.Snapshot())
}

// Render renders snap in the layout its expanded flag selects.
func (v *PlayerView) Render(snap player.Snapshot) string {
	if snap.Expanded {
		return v.expanded(snap)
	}
	return v.compact(snap)
}

func (v *PlayerView) compact(snap player.Snapshot) string {
	if snap.Current == nil {
		return styles.bar.Render(styles.help.Render(statusGlyph(snap.Status()) + " Nothing playing"))
	}

	title := fmt.Sprintf("%s %s · %s", statusGlyph(snap.Status()), snap.Current.Title, snap.Current.Artist)
	v.bar.Width = max(minBarWidth, min(compactBarWidth, v.width-len(title)-30))
	line := fmt.Sprintf("%s  %s  %s  %s",
		title,
		v.bar.ViewAs(snap.Progress()),
		clock(snap),
		volume(snap),
	)
	return styles.bar.Render(line)
}

func (v *PlayerView) expanded(snap player.Snapshot) string {
	var b strings.Builder

	if snap.Current == nil {
		b.WriteString(styles.title.Render("Nothing playing"))
		b.WriteString("\n")
		b.WriteString(styles.help.Render("Select a song and press enter to start."))
		b.WriteString("\n\n")
		b.WriteString(v.help.View(v.keys))
		return b.String()
	}

	t := snap.Current
	b.WriteString(styles.title.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(t.Artist)
	b.WriteString("\n")
	if t.CoverURL != "" {
		b.WriteString(styles.help.Render("Cover: " + t.CoverURL))
		b.WriteString("\n")
	}
	if t.Favorite {
		b.WriteString(styles.ok.Render("★ Favorite"))
	} else {
		b.WriteString(styles.help.Render("☆ Not a favorite"))
	}
	b.WriteString("\n\n")

	v.bar.Width = max(minBarWidth, v.width-4)
	b.WriteString(v.bar.ViewAs(snap.Progress()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s   Track %d of %d\n\n",
		statusGlyph(snap.Status()), clock(snap), volume(snap), snap.Index+1, snap.Total)
	b.WriteString(v.help.FullHelpView(v.keys.FullHelp()))
	return b.String()
}

func statusGlyph(s player.Status) string {
	switch s {
	case player.Playing:
		return "▶"
	case player.Paused:
		return "⏸"
	default:
		return "■"
	}
}

func clock(snap player.Snapshot) string {
	return shared.FormatClock(snap.Position) + " / " + shared.FormatClock(snap.Duration)
}

func volume(snap player.Snapshot) string {
	return fmt.Sprintf("vol %d%%", int(snap.Volume*100+0.5))
}
