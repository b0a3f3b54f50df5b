package player

import "sync"

// Status is the transport state derived from a [Snapshot].
type Status int

const (
	NoTrack Status = iota
	Paused
	Playing
)

func (s Status) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// Snapshot is the observable player state at one point in time.
type Snapshot struct {
	Current  *Track
	Index    int
	Total    int
	Position float64 // seconds
	Duration float64 // seconds
	Volume   float64 // 0..1
	Playing  bool
	Expanded bool
}

// Status reports NoTrack, Paused or Playing.
func (s Snapshot) Status() Status {
	switch {
	case s.Current == nil:
		return NoTrack
	case s.Playing:
		return Playing
	default:
		return Paused
	}
}

// Progress returns position/duration in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.Position / s.Duration
}

// State holds the single player state shared by a [Controller] and its views.
//
// Views read it through [State.Snapshot]; only the controller writes.
type State struct {
	mu       sync.RWMutex
	playlist Playlist
	position float64
	duration float64
	volume   float64
	playing  bool
	expanded bool
	reload   bool // engine has no live stream for the current track
}

// NewState returns an empty state at the given volume, clamped to [0, 1].
func NewState(volume float64) *State {
	return &State{
		playlist: newPlaylist(),
		volume:   clamp(volume, 0, 1),
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Index:    s.playlist.Index(),
		Total:    s.playlist.Len(),
		Position: s.position,
		Duration: s.duration,
		Volume:   s.volume,
		Playing:  s.playing,
		Expanded: s.expanded,
	}
	if cur := s.playlist.Current(); cur != nil {
		t := *cur
		snap.Current = &t
	}
	return snap
}

// Tracks returns a copy of the loaded playlist.
func (s *State) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlist.Tracks()
}

// clamp bounds v to [lo, hi]; NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
