// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/player"
)

// MockCatalog is a test double for [services.Catalog].
//
// Songs answers every song query; searches filter Songs by title. Calls records each method name.
type MockCatalog struct {
	mu      sync.Mutex
	Songs   []models.Song
	Artists []models.Artist
	Albums  []models.Album
	Calls   []string
}

func NewMockCatalog(songs ...models.Song) *MockCatalog {
	return &MockCatalog{Songs: songs}
}

func (m *MockCatalog) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

// Called reports whether method was invoked at least once.
func (m *MockCatalog) Called(method string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.Calls, method)
}

func (m *MockCatalog) songs() []models.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Song{}, m.Songs...)
}

func (m *MockCatalog) SearchArtists(ctx context.Context, query string, page int) []models.Artist {
	m.record("SearchArtists")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Artist{}, m.Artists...)
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, page int) []models.Album {
	m.record("SearchAlbums")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Album{}, m.Albums...)
}

func (m *MockCatalog) SearchGenres(ctx context.Context, query string, page int) []models.Genre {
	m.record("SearchGenres")
	return []models.Genre{}
}

func (m *MockCatalog) SearchCategories(ctx context.Context, query string, page int) []models.Category {
	m.record("SearchCategories")
	return []models.Category{}
}

func (m *MockCatalog) SearchPeriods(ctx context.Context, query string, page int) []models.Period {
	m.record("SearchPeriods")
	return []models.Period{}
}

func (m *MockCatalog) SearchOrchestras(ctx context.Context, query string, page int) []models.Orchestra {
	m.record("SearchOrchestras")
	return []models.Orchestra{}
}

func (m *MockCatalog) SearchSongs(ctx context.Context, query string, page int) []models.Song {
	m.record("SearchSongs")
	var out []models.Song
	for _, s := range m.songs() {
		if strings.Contains(strings.ToLower(s.Title), strings.ToLower(query)) {
			out = append(out, s)
		}
	}
	if out == nil {
		return []models.Song{}
	}
	return out
}

func (m *MockCatalog) Recommended(ctx context.Context, page int) []models.Song {
	m.record("Recommended")
	return m.songs()
}

func (m *MockCatalog) Popular(ctx context.Context, page int) []models.Song {
	m.record("Popular")
	return m.songs()
}

func (m *MockCatalog) Top(ctx context.Context, page int) []models.Song {
	m.record("Top")
	return m.songs()
}

func (m *MockCatalog) AlbumSongs(ctx context.Context, albumID string) []models.Song {
	m.record("AlbumSongs")
	return m.songs()
}

func (m *MockCatalog) ArtistSongs(ctx context.Context, artistID string) []models.Song {
	m.record("ArtistSongs")
	return m.songs()
}

// FakeEngine is a [player.Engine] that records calls and plays nothing.
type FakeEngine struct {
	mu      sync.Mutex
	Events  player.MediaEvents
	Loaded  []string
	Paused  bool
	Stopped int
	Volume  float64
	LoadErr error
}

func (f *FakeEngine) Bind(events player.MediaEvents) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = events
}

func (f *FakeEngine) Load(ctx context.Context, track player.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.Loaded = append(f.Loaded, track.ID)
	f.Paused = false
	return nil
}

func (f *FakeEngine) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Paused = true
}

func (f *FakeEngine) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Paused = false
}

func (f *FakeEngine) Seek(position float64) error { return nil }

func (f *FakeEngine) SetVolume(level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Volume = level
}

func (f *FakeEngine) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Stopped++
}

// LoadedIDs returns the IDs of every track passed to Load, in order.
func (f *FakeEngine) LoadedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.Loaded...)
}

// WriteEnvelope writes data wrapped in the API response envelope.
func WriteEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"code":    status,
		"success": status < 400,
		"message": "",
		"data":    data,
	})
}

// WriteEnvelopeError writes a failed envelope with the given message and errors payload.
func WriteEnvelopeError(w http.ResponseWriter, status int, message string, errs any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"code":    status,
		"success": false,
		"message": message,
		"data":    nil,
		"errors":  errs,
	})
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
