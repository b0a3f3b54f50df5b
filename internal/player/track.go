package player

import "github.com/desertthunder/sonata/internal/models"

// Track is a single playable item held by a [Playlist].
type Track struct {
	ID       string
	Title    string
	Artist   string
	CoverURL string
	AudioURL string
	Favorite bool
	Duration float64 // seconds, zero when unknown until the media reports it
}

// TrackFromSong converts a catalog [models.Song] into a [Track].
func TrackFromSong(s models.Song) Track {
	return Track{
		ID:       s.ID,
		Title:    s.Title,
		Artist:   s.ArtistName,
		CoverURL: s.CoverURL,
		AudioURL: s.AudioURL,
		Favorite: s.Favorite,
		Duration: float64(s.Duration),
	}
}

// TracksFromSongs converts a song list, skipping entries without an audio URL.
func TracksFromSongs(songs []models.Song) []Track {
	tracks := make([]Track, 0, len(songs))
	for _, s := range songs {
		if s.AudioURL == "" {
			continue
		}
		tracks = append(tracks, TrackFromSong(s))
	}
	return tracks
}

// TracksAt converts songs like [TracksFromSongs] and maps the song index
// selected onto the returned slice. The index is -1 when that song has no audio.
func TracksAt(songs []models.Song, selected int) ([]Track, int) {
	tracks := make([]Track, 0, len(songs))
	index := -1
	for i, s := range songs {
		if s.AudioURL == "" {
			continue
		}
		if i == selected {
			index = len(tracks)
		}
		tracks = append(tracks, TrackFromSong(s))
	}
	return tracks, index
}

// Playlist is an ordered list of tracks with a current-index pointer.
//
// The index is -1 when nothing is loaded and otherwise always addresses a track.
type Playlist struct {
	tracks []Track
	index  int
}

func newPlaylist() Playlist {
	return Playlist{index: -1}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Index returns the current index, or -1.
func (p *Playlist) Index() int { return p.index }

// Current returns the current track, or nil if none is loaded.
func (p *Playlist) Current() *Track {
	if p.index < 0 || p.index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[p.index]
}

// Track returns the track at index, or nil when out of range.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Tracks returns a copy of the tracks.
func (p *Playlist) Tracks() []Track {
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// set replaces the tracks and points at index. It reports false and leaves
// the playlist untouched when index is out of range.
func (p *Playlist) set(tracks []Track, index int) bool {
	if index < 0 || index >= len(tracks) {
		return false
	}
	p.tracks = make([]Track, len(tracks))
	copy(p.tracks, tracks)
	p.index = index
	return true
}

// step moves the index by delta, wrapping at both ends.
func (p *Playlist) step(delta int) bool {
	n := len(p.tracks)
	if n == 0 || p.index < 0 {
		return false
	}
	p.index = ((p.index+delta)%n + n) % n
	return true
}

func (p *Playlist) clear() {
	p.tracks = nil
	p.index = -1
}
