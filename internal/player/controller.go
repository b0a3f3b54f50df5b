package player

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/shared"
)

var _ MediaEvents = (*Controller)(nil)

// Controller is the only writer of a [State]. It turns user intent and
// media events into state changes and drives the [Engine].
//
// Engine calls are made after the state lock is released.
type Controller struct {
	ctx    context.Context
	state  *State
	engine Engine
	logger *log.Logger
}

// NewController binds state and engine together. A nil engine plays nothing
// but still tracks state; a nil logger writes to stderr.
func NewController(ctx context.Context, state *State, engine Engine, logger *log.Logger) *Controller {
	if engine == nil {
		engine = nopEngine{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	c := &Controller{ctx: ctx, state: state, engine: engine, logger: logger}
	engine.Bind(c)
	engine.SetVolume(state.Snapshot().Volume)
	return c
}

// State returns the state this controller writes to.
func (c *Controller) State() *State { return c.state }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot { return c.state.Snapshot() }

// Load replaces the playlist and starts the track at index from position 0.
// An out-of-range index leaves everything unchanged.
func (c *Controller) Load(tracks []Track, index int) {
	s := c.state
	s.mu.Lock()
	if !s.playlist.set(tracks, index) {
		s.mu.Unlock()
		c.logger.Debug("load ignored, index out of range", "index", index, "tracks", len(tracks))
		return
	}
	track := c.rewindLocked()
	s.mu.Unlock()

	c.start(track)
}

// TogglePlayPause flips between playing and paused. Without a track it does nothing.
//
// Playing a track the engine already finished or dropped loads it again from 0.
func (c *Controller) TogglePlayPause() {
	s := c.state
	s.mu.Lock()
	if s.playlist.Current() == nil {
		s.mu.Unlock()
		return
	}
	if !s.playing && s.reload {
		track := c.rewindLocked()
		s.mu.Unlock()
		c.start(track)
		return
	}
	s.playing = !s.playing
	playing := s.playing
	s.mu.Unlock()

	if playing {
		c.engine.Resume()
	} else {
		c.engine.Pause()
	}
}

// Seek moves the transport to position, clamped to [0, duration].
func (c *Controller) Seek(position float64) {
	s := c.state
	s.mu.Lock()
	if s.playlist.Current() == nil {
		s.mu.Unlock()
		return
	}
	s.position = clamp(position, 0, s.duration)
	pos := s.position
	s.mu.Unlock()

	if err := c.engine.Seek(pos); err != nil {
		c.logger.Warn("seek failed", "position", pos, "error", err)
	}
}

// SeekBy moves the transport by delta seconds.
func (c *Controller) SeekBy(delta float64) {
	c.Seek(c.state.Snapshot().Position + delta)
}

// ChangeVolume sets the volume, clamped to [0, 1].
func (c *Controller) ChangeVolume(level float64) {
	s := c.state
	s.mu.Lock()
	s.volume = clamp(level, 0, 1)
	vol := s.volume
	s.mu.Unlock()

	c.engine.SetVolume(vol)
}

// PlayNext advances to the next track, wrapping from the last to the first.
func (c *Controller) PlayNext() { c.step(1) }

// PlayPrevious goes back one track, wrapping from the first to the last.
func (c *Controller) PlayPrevious() { c.step(-1) }

func (c *Controller) step(delta int) {
	s := c.state
	s.mu.Lock()
	if !s.playlist.step(delta) {
		s.mu.Unlock()
		return
	}
	track := c.rewindLocked()
	s.mu.Unlock()

	c.start(track)
}

// ToggleFavorite flips the favorite flag on every playlist track with trackID.
// It returns the new flag and whether any track matched.
func (c *Controller) ToggleFavorite(trackID string) (favorite, found bool) {
	s := c.state
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlist.tracks {
		t := &s.playlist.tracks[i]
		if t.ID != trackID {
			continue
		}
		t.Favorite = !t.Favorite
		favorite, found = t.Favorite, true
	}
	return favorite, found
}

// ToggleExpandPlayer switches between the compact and the expanded view.
func (c *Controller) ToggleExpandPlayer() {
	s := c.state
	s.mu.Lock()
	s.expanded = !s.expanded
	s.mu.Unlock()
}

// Reset unloads the playlist and stops audio. Volume and view mode are kept.
func (c *Controller) Reset() {
	s := c.state
	s.mu.Lock()
	s.playlist.clear()
	s.position, s.duration = 0, 0
	s.playing = false
	s.reload = false
	s.mu.Unlock()

	c.engine.Stop()
}

// TimeUpdate records the engine's playback position.
func (c *Controller) TimeUpdate(position float64) {
	s := c.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playlist.Current() == nil {
		return
	}
	s.position = clamp(position, 0, s.duration)
}

// DurationChange records the media duration once the engine knows it.
func (c *Controller) DurationChange(duration float64) {
	if duration < 0 || duration != duration {
		return
	}
	s := c.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playlist.Current() == nil {
		return
	}
	s.duration = duration
	s.position = clamp(s.position, 0, s.duration)
}

// Ended moves on to the next track. After the last track playback pauses
// and rewinds instead of wrapping.
func (c *Controller) Ended() {
	s := c.state
	s.mu.Lock()
	if s.playlist.Current() == nil {
		s.mu.Unlock()
		return
	}
	if s.playlist.Index() >= s.playlist.Len()-1 {
		s.playing = false
		s.position = 0
		s.reload = true
		s.mu.Unlock()
		return
	}
	s.playlist.index++
	track := c.rewindLocked()
	s.mu.Unlock()

	c.start(track)
}

// Failed pauses the current track after the engine gives up on it.
func (c *Controller) Failed(err error) {
	c.logger.Warn("playback failed", "error", err)

	s := c.state
	s.mu.Lock()
	s.playing = false
	s.reload = true
	s.mu.Unlock()
}

// rewindLocked resets transport for the current track and marks it playing.
func (c *Controller) rewindLocked() Track {
	s := c.state
	track := *s.playlist.Current()
	s.position = 0
	s.duration = track.Duration
	s.playing = true
	s.reload = false
	return track
}

func (c *Controller) start(track Track) {
	err := c.engine.Load(c.ctx, track)
	if err == nil {
		return
	}

	c.logger.Warn("failed to start track", "id", track.ID, "title", track.Title, "error", err)

	s := c.state
	s.mu.Lock()
	if cur := s.playlist.Current(); cur != nil && cur.ID == track.ID {
		s.playing = false
		s.reload = true
	}
	s.mu.Unlock()
}
