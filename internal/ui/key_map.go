package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	search   key.Binding
	play     key.Binding
	next     key.Binding
	prev     key.Binding
	rewind   key.Binding
	forward  key.Binding
	louder   key.Binding
	quieter  key.Binding
	favorite key.Binding
	expand   key.Binding
	open     key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
		prevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev list")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		rewind:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-5s")),
		forward:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+5s")),
		louder:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		quieter:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		expand:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cover")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.play, k.next, k.search, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.nextTab, k.prevTab},
		{k.search, k.back, k.help, k.quit},
		{k.play, k.next, k.prev, k.rewind, k.forward},
		{k.louder, k.quieter, k.favorite, k.expand, k.open},
	}
}
