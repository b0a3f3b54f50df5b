package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/services"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/desertthunder/sonata/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	SearchView
	ResultsView
)

const (
	seekStep   = 5.0
	volumeStep = 0.05
)

// Favorites persists the listener's starred songs.
type Favorites interface {
	Set(fav models.Favorite, on bool) error
	IDs() (map[string]bool, error)
}

// Options are the collaborators of a [Model].
type Options struct {
	Catalog    services.Catalog
	Feed       *tasks.FeedEngine // defaults to a feed engine over Catalog
	Load       tasks.LoadOpts
	Controller *player.Controller
	Favorites  Favorites // optional
	OpenURL    func(string) error
	Logger     *log.Logger
}

// songTab is one browsable song list.
type songTab struct {
	name  string
	songs []models.Song
	list  list.Model
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	opts         Options
	view         ViewState
	prev         ViewState
	width        int
	height       int
	tabs         []songTab
	active       int
	results      songTab
	input        textinput.Model
	query        string
	player       *PlayerView
	favorites    map[string]bool
	reqs         *requests
	progressChan <-chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	notice       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Feed == nil {
		opts.Feed = tasks.NewFeedEngine(opts.Catalog, opts.Logger)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenURL
	}
	if opts.Controller == nil {
		opts.Controller = player.NewController(ctx, player.NewState(1), nil, opts.Logger)
	}

	input := textinput.New()
	input.Placeholder = "Song title"
	input.Prompt = "/ "
	input.CharLimit = 120

	m := &Model{
		ctx:       ctx,
		opts:      opts,
		view:      HomeView,
		input:     input,
		player:    NewPlayerView(opts.Controller.State()),
		favorites: map[string]bool{},
		reqs:      newRequests(ctx),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	for _, name := range []string{tasks.SectionRecommended, tasks.SectionPopular, tasks.SectionTop} {
		m.tabs = append(m.tabs, songTab{name: name, list: newSongList(tasks.SectionTitle(name), nil, 0, 0)})
	}
	m.results = songTab{name: "results", list: newSongList("Search results", nil, 0, 0)}
	m.loadFavorites()
	return m
}

// Init starts the feed request and the player clock.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadFeed(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.view == SearchView {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)

	case feedLoadedMsg:
		if !m.reqs.finish(feedRequest, msg.id) {
			return m, nil
		}
		m.progressChan = nil
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			return m, nil
		}
		for i := range m.tabs {
			m.setSongs(&m.tabs[i], msg.feed.Section(m.tabs[i].name))
		}
		if msg.feed.Len() == 0 {
			m.notice = "Nothing to show right now."
		}
		return m, nil

	case progressUpdateMsg:
		if msg.ch != m.progressChan {
			return m, nil
		}
		m.progress = msg.update
		return m, waitForProgress(msg.ch)

	case searchResultsMsg:
		if !m.reqs.finish(searchRequest, msg.id) {
			return m, nil
		}
		m.query = msg.query
		m.setSongs(&m.results, msg.songs)
		m.results.list.Title = fmt.Sprintf("Results for %q", msg.query)
		m.view = ResultsView
		if len(msg.songs) == 0 {
			m.notice = "No songs found."
		}
		return m, nil

	case coverOpenedMsg:
		if msg.err != nil {
			m.notice = "Could not open cover art."
			m.opts.Logger.Warn("failed to open cover", "error", msg.err)
		}
		return m, nil

	case tickMsg:
		return m, tick()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	snap := m.opts.Controller.Snapshot()

	switch {
	case snap.Expanded:
		return m.player.Render(snap)
	case m.err != nil:
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.view == SearchView:
		body = m.renderSearch()
	case m.view == ResultsView:
		body = m.results.list.View()
	default:
		body = m.renderHome()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.player.Render(snap))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Close cancels pending requests. Safe to call more than once.
func (m *Model) Close() {
	m.reqs.cancelAll()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.opts.Controller
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.prev = m.view
		m.view = SearchView
		m.input.SetValue(m.query)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.back):
		if m.view == ResultsView {
			m.view = HomeView
		}
		return m, nil
	case key.Matches(msg, m.keys.nextTab):
		m.active = (m.active + 1) % len(m.tabs)
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.active = (m.active + len(m.tabs) - 1) % len(m.tabs)
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.playSelected()
		return m, nil
	case key.Matches(msg, m.keys.play):
		c.TogglePlayPause()
		return m, nil
	case key.Matches(msg, m.keys.next):
		c.PlayNext()
		return m, nil
	case key.Matches(msg, m.keys.prev):
		c.PlayPrevious()
		return m, nil
	case key.Matches(msg, m.keys.rewind):
		c.SeekBy(-seekStep)
		return m, nil
	case key.Matches(msg, m.keys.forward):
		c.SeekBy(seekStep)
		return m, nil
	case key.Matches(msg, m.keys.louder):
		c.ChangeVolume(c.Snapshot().Volume + volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.quieter):
		c.ChangeVolume(c.Snapshot().Volume - volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		m.toggleFavorite()
		return m, nil
	case key.Matches(msg, m.keys.expand):
		c.ToggleExpandPlayer()
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openCover()
	}

	return m.updateList(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.view = m.prev
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.input.Blur()
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HomeView:
		m.tabs[m.active].list, cmd = m.tabs[m.active].list.Update(msg)
	case ResultsView:
		m.results.list, cmd = m.results.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadFeed() tea.Cmd {
	id, ctx := m.reqs.start(feedRequest)
	prog := make(chan tasks.ProgressUpdate, 8)
	m.progressChan = prog

	load := func() tea.Msg {
		defer close(prog)
		feed, err := m.opts.Feed.Load(ctx, prog, m.opts.Load)
		return feedLoadedMsg{id: id, feed: feed, err: err}
	}
	return tea.Batch(load, waitForProgress(prog))
}

func (m *Model) search(query string) tea.Cmd {
	id, ctx := m.reqs.start(searchRequest)
	catalog := m.opts.Catalog
	return func() tea.Msg {
		songs := catalog.SearchSongs(ctx, query, 1)
		return searchResultsMsg{id: id, query: query, songs: songs}
	}
}

// currentTab is the list the cursor is in.
func (m *Model) currentTab() *songTab {
	if m.view == ResultsView {
		return &m.results
	}
	return &m.tabs[m.active]
}

func (m *Model) playSelected() {
	tab := m.currentTab()
	if len(tab.songs) == 0 {
		return
	}
	tracks, index := player.TracksAt(tab.songs, tab.list.Index())
	if index < 0 {
		m.notice = "This song has no audio."
		return
	}
	m.opts.Controller.Load(tracks, index)
}

func (m *Model) toggleFavorite() {
	cur := m.opts.Controller.Snapshot().Current
	if cur == nil {
		return
	}
	fav, found := m.opts.Controller.ToggleFavorite(cur.ID)
	if !found {
		return
	}

	m.favorites[cur.ID] = fav
	for i := range m.tabs {
		m.setSongs(&m.tabs[i], m.tabs[i].songs)
	}
	m.setSongs(&m.results, m.results.songs)

	if m.opts.Favorites == nil {
		return
	}
	record := models.Favorite{SongID: cur.ID, Title: cur.Title, Artist: cur.Artist, CreatedAt: time.Now()}
	if err := m.opts.Favorites.Set(record, fav); err != nil {
		m.opts.Logger.Warn("failed to save favorite", "id", cur.ID, "error", err)
		m.notice = "Favorite not saved."
	}
}

func (m *Model) openCover() tea.Cmd {
	cur := m.opts.Controller.Snapshot().Current
	if cur == nil || cur.CoverURL == "" {
		m.notice = "No cover art for this track."
		return nil
	}
	open, link := m.opts.OpenURL, cur.CoverURL
	return func() tea.Msg { return coverOpenedMsg{err: open(link)} }
}

func (m *Model) loadFavorites() {
	if m.opts.Favorites == nil {
		return
	}
	ids, err := m.opts.Favorites.IDs()
	if err != nil {
		m.opts.Logger.Warn("failed to load favorites", "error", err)
		return
	}
	m.favorites = ids
}

// setSongs stores songs on tab with favorites applied and refreshes its list.
func (m *Model) setSongs(tab *songTab, songs []models.Song) {
	marked := make([]models.Song, len(songs))
	for i, s := range songs {
		if fav, ok := m.favorites[s.ID]; ok {
			s.Favorite = fav
		}
		marked[i] = s
	}
	tab.songs = marked
	tab.list.SetItems(songItems(marked))
}

func (m *Model) resize() {
	m.player.SetWidth(m.width)
	m.help.Width = m.width

	reserved := 8
	if m.help.ShowAll {
		reserved += 4
	}
	w, h := max(m.width-4, 0), max(m.height-reserved, 0)
	for i := range m.tabs {
		m.tabs[i].list.SetSize(w, h)
	}
	m.results.list.SetSize(w, h)
	m.input.Width = max(w-4, 10)
}

func (m *Model) renderHome() string {
	var tabs []string
	for i, t := range m.tabs {
		label := fmt.Sprintf("%s (%d)", tasks.SectionTitle(t.name), len(t.songs))
		if i == m.active {
			tabs = append(tabs, styles.active.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	header := strings.Join(tabs, " ")

	if m.reqs.pending(feedRequest) {
		status := "Loading feed..."
		if m.progress.Message != "" {
			status = fmt.Sprintf("%s (%d/%d)", m.progress.Message, m.progress.Step, m.progress.Total)
		}
		return fmt.Sprintf("%s\n\n%s", header, styles.help.Render(status))
	}
	return fmt.Sprintf("%s\n\n%s", header, m.tabs[m.active].list.View())
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search songs")
	status := ""
	if m.reqs.pending(searchRequest) {
		status = "\n" + styles.help.Render("Searching...")
	}
	return fmt.Sprintf("%s\n%s%s", title, m.input.View(), status)
}
