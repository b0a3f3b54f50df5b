package player

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/sonata/internal/shared"
)

// recordingEngine captures calls made by the controller.
type recordingEngine struct {
	mu      sync.Mutex
	events  MediaEvents
	loaded  []string
	paused  int
	resumed int
	seeks   []float64
	volume  float64
	stopped int
	loadErr error
}

func (e *recordingEngine) Bind(ev MediaEvents) { e.events = ev }
func (e *recordingEngine) Load(_ context.Context, t Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = append(e.loaded, t.ID)
	return e.loadErr
}
func (e *recordingEngine) Pause()  { e.mu.Lock(); e.paused++; e.mu.Unlock() }
func (e *recordingEngine) Resume() { e.mu.Lock(); e.resumed++; e.mu.Unlock() }
func (e *recordingEngine) Seek(p float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seeks = append(e.seeks, p)
	return nil
}
func (e *recordingEngine) SetVolume(v float64) { e.mu.Lock(); e.volume = v; e.mu.Unlock() }
func (e *recordingEngine) Stop()               { e.mu.Lock(); e.stopped++; e.mu.Unlock() }

func testTracks() []Track {
	return []Track{
		{ID: "a", Title: "Air on the G String", Artist: "Bach", Duration: 300},
		{ID: "b", Title: "Clair de Lune", Artist: "Debussy", Duration: 280},
		{ID: "c", Title: "Gymnopedie No.1", Artist: "Satie", Duration: 200},
	}
}

func newTestController(t *testing.T) (*Controller, *recordingEngine) {
	t.Helper()
	engine := &recordingEngine{}
	c := NewController(context.Background(), NewState(0.5), engine, shared.NewLogger(io.Discard))
	return c, engine
}

func TestController(t *testing.T) {
	t.Run("NewController", func(t *testing.T) {
		t.Run("binds engine and applies initial volume", func(t *testing.T) {
			c, engine := newTestController(t)
			if engine.events != c {
				t.Error("expected engine to be bound to controller")
			}
			if engine.volume != 0.5 {
				t.Errorf("expected engine volume 0.5, got %v", engine.volume)
			}
		})

		t.Run("nil engine and logger", func(t *testing.T) {
			c := NewController(context.Background(), NewState(2), nil, nil)
			c.Load(testTracks(), 0)
			if got := c.Snapshot().Status(); got != Playing {
				t.Errorf("expected Playing without an engine, got %v", got)
			}
			if c.Snapshot().Volume != 1 {
				t.Errorf("expected initial volume clamped to 1, got %v", c.Snapshot().Volume)
			}
		})
	})

	t.Run("Load", func(t *testing.T) {
		t.Run("every valid index", func(t *testing.T) {
			tracks := testTracks()
			for i := range tracks {
				c, engine := newTestController(t)
				c.Load(tracks, 1)
				c.TimeUpdate(42)
				c.Load(tracks, i)

				snap := c.Snapshot()
				if snap.Current == nil || snap.Current.ID != tracks[i].ID {
					t.Fatalf("index %d: expected current %s, got %+v", i, tracks[i].ID, snap.Current)
				}
				if snap.Position != 0 {
					t.Errorf("index %d: expected position reset to 0, got %v", i, snap.Position)
				}
				if snap.Duration != tracks[i].Duration {
					t.Errorf("index %d: expected duration hint %v, got %v", i, tracks[i].Duration, snap.Duration)
				}
				if !snap.Playing {
					t.Errorf("index %d: expected playback to start", i)
				}
				if last := engine.loaded[len(engine.loaded)-1]; last != tracks[i].ID {
					t.Errorf("index %d: expected engine to load %s, got %s", i, tracks[i].ID, last)
				}
			}
		})

		t.Run("out of range is a no-op", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 0)
			c.TimeUpdate(10)
			before := c.Snapshot()

			for _, idx := range []int{-1, 3, 100} {
				c.Load(testTracks(), idx)
			}
			c.Load(nil, 0)

			after := c.Snapshot()
			if after.Current.ID != before.Current.ID || after.Position != before.Position || after.Total != before.Total {
				t.Errorf("expected state unchanged, before %+v after %+v", before, after)
			}
			if len(engine.loaded) != 1 {
				t.Errorf("expected a single engine load, got %v", engine.loaded)
			}
		})

		t.Run("from empty state out of range keeps NoTrack", func(t *testing.T) {
			c, _ := newTestController(t)
			c.Load(testTracks(), 5)
			if got := c.Snapshot().Status(); got != NoTrack {
				t.Errorf("expected NoTrack, got %v", got)
			}
		})

		t.Run("playlist is copied", func(t *testing.T) {
			c, _ := newTestController(t)
			tracks := testTracks()
			c.Load(tracks, 0)
			tracks[0].Title = "mutated"
			if c.Snapshot().Current.Title == "mutated" {
				t.Error("expected controller to hold its own copy of the playlist")
			}
		})

		t.Run("engine failure pauses", func(t *testing.T) {
			c, engine := newTestController(t)
			engine.loadErr = errors.New("decode failed")
			c.Load(testTracks(), 0)
			snap := c.Snapshot()
			if snap.Current == nil || snap.Playing {
				t.Errorf("expected loaded but paused track, got %+v", snap)
			}
		})
	})

	t.Run("TogglePlayPause", func(t *testing.T) {
		t.Run("no track does nothing", func(t *testing.T) {
			c, engine := newTestController(t)
			c.TogglePlayPause()
			if c.Snapshot().Playing {
				t.Error("expected playing to stay false without a track")
			}
			if engine.paused+engine.resumed != 0 {
				t.Error("expected no engine calls without a track")
			}
		})

		t.Run("twice restores the flag", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 0)
			orig := c.Snapshot().Playing

			c.TogglePlayPause()
			if c.Snapshot().Playing == orig {
				t.Error("expected flag to flip")
			}
			if got := c.Snapshot().Status(); got != Paused {
				t.Errorf("expected Paused, got %v", got)
			}
			c.TogglePlayPause()
			if c.Snapshot().Playing != orig {
				t.Error("expected flag to return to original value")
			}
			if engine.paused != 1 || engine.resumed != 1 {
				t.Errorf("expected one pause and one resume, got %d/%d", engine.paused, engine.resumed)
			}
		})
	})

	t.Run("Seek", func(t *testing.T) {
		tc := []struct {
			name string
			to   float64
			want float64
		}{
			{"inside range", 120, 120},
			{"below zero", -15, 0},
			{"past duration", 999, 300},
			{"exact end", 300, 300},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c, engine := newTestController(t)
				c.Load(testTracks(), 0)
				c.Seek(tt.to)
				if got := c.Snapshot().Position; got != tt.want {
					t.Errorf("Seek(%v) position = %v, want %v", tt.to, got, tt.want)
				}
				if engine.seeks[len(engine.seeks)-1] != tt.want {
					t.Errorf("expected engine seek to %v, got %v", tt.want, engine.seeks)
				}
			})
		}

		t.Run("unknown duration clamps to zero", func(t *testing.T) {
			c, _ := newTestController(t)
			c.Load([]Track{{ID: "x"}}, 0)
			c.Seek(30)
			if got := c.Snapshot().Position; got != 0 {
				t.Errorf("expected 0, got %v", got)
			}
		})

		t.Run("SeekBy is relative", func(t *testing.T) {
			c, _ := newTestController(t)
			c.Load(testTracks(), 0)
			c.Seek(100)
			c.SeekBy(-10)
			if got := c.Snapshot().Position; got != 90 {
				t.Errorf("expected 90, got %v", got)
			}
		})

		t.Run("no track", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Seek(10)
			if len(engine.seeks) != 0 {
				t.Error("expected no engine seek without a track")
			}
		})
	})

	t.Run("ChangeVolume", func(t *testing.T) {
		tc := []struct {
			level float64
			want  float64
		}{
			{0.3, 0.3},
			{-1, 0},
			{1.7, 1},
			{0, 0},
			{1, 1},
		}

		for _, tt := range tc {
			c, engine := newTestController(t)
			c.ChangeVolume(tt.level)
			if got := c.Snapshot().Volume; got != tt.want {
				t.Errorf("ChangeVolume(%v) = %v, want %v", tt.level, got, tt.want)
			}
			if engine.volume != tt.want {
				t.Errorf("expected engine volume %v, got %v", tt.want, engine.volume)
			}
		}
	})

	t.Run("Next and Previous wrap around", func(t *testing.T) {
		c, engine := newTestController(t)
		c.Load(testTracks(), 0)
		if got := c.Snapshot().Current.ID; got != "a" {
			t.Fatalf("expected a, got %s", got)
		}

		c.PlayNext()
		if got := c.Snapshot().Current.ID; got != "b" {
			t.Errorf("expected b, got %s", got)
		}
		c.PlayNext()
		c.PlayNext()
		if got := c.Snapshot().Current.ID; got != "a" {
			t.Errorf("expected wrap to a, got %s", got)
		}

		c.PlayPrevious()
		if got := c.Snapshot().Current.ID; got != "c" {
			t.Errorf("expected wrap back to c, got %s", got)
		}

		want := []string{"a", "b", "c", "a", "c"}
		if len(engine.loaded) != len(want) {
			t.Fatalf("expected loads %v, got %v", want, engine.loaded)
		}
		for i := range want {
			if engine.loaded[i] != want[i] {
				t.Errorf("load %d: expected %s, got %s", i, want[i], engine.loaded[i])
			}
		}
	})

	t.Run("Next resets position", func(t *testing.T) {
		c, _ := newTestController(t)
		c.Load(testTracks(), 0)
		c.Seek(50)
		c.TogglePlayPause()
		c.PlayNext()
		snap := c.Snapshot()
		if snap.Position != 0 || !snap.Playing {
			t.Errorf("expected fresh playing track, got %+v", snap)
		}
	})

	t.Run("Next without a track", func(t *testing.T) {
		c, engine := newTestController(t)
		c.PlayNext()
		c.PlayPrevious()
		if c.Snapshot().Current != nil || len(engine.loaded) != 0 {
			t.Error("expected navigation to do nothing without a track")
		}
	})

	t.Run("Single track wraps to itself", func(t *testing.T) {
		c, _ := newTestController(t)
		c.Load(testTracks()[:1], 0)
		c.PlayNext()
		if got := c.Snapshot().Index; got != 0 {
			t.Errorf("expected index 0, got %d", got)
		}
	})

	t.Run("ToggleFavorite", func(t *testing.T) {
		c, _ := newTestController(t)
		tracks := testTracks()
		tracks = append(tracks, Track{ID: "b", Title: "Clair de Lune (live)"})
		c.Load(tracks, 1)

		fav, found := c.ToggleFavorite("b")
		if !found || !fav {
			t.Fatalf("expected b to become favorite, got fav=%v found=%v", fav, found)
		}
		if !c.Snapshot().Current.Favorite {
			t.Error("expected current track to reflect favorite")
		}
		for _, tr := range c.State().Tracks() {
			if tr.ID == "b" && !tr.Favorite {
				t.Error("expected every matching track to flip")
			}
			if tr.ID != "b" && tr.Favorite {
				t.Errorf("expected %s untouched", tr.ID)
			}
		}

		if fav, _ := c.ToggleFavorite("b"); fav {
			t.Error("expected second toggle to clear favorite")
		}
		if _, found := c.ToggleFavorite("missing"); found {
			t.Error("expected unknown id not to match")
		}
	})

	t.Run("ToggleExpandPlayer", func(t *testing.T) {
		c, _ := newTestController(t)
		if c.Snapshot().Expanded {
			t.Fatal("expected collapsed by default")
		}
		c.ToggleExpandPlayer()
		if !c.Snapshot().Expanded {
			t.Error("expected expanded")
		}
		c.ToggleExpandPlayer()
		if c.Snapshot().Expanded {
			t.Error("expected collapsed again")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		c, engine := newTestController(t)
		c.ToggleExpandPlayer()
		c.ChangeVolume(0.2)
		c.Load(testTracks(), 2)
		c.Reset()

		snap := c.Snapshot()
		if snap.Status() != NoTrack || snap.Index != -1 || snap.Total != 0 {
			t.Errorf("expected empty player, got %+v", snap)
		}
		if !snap.Expanded || snap.Volume != 0.2 {
			t.Errorf("expected view mode and volume kept, got %+v", snap)
		}
		if engine.stopped != 1 {
			t.Errorf("expected engine stop, got %d", engine.stopped)
		}
	})

	t.Run("Media events", func(t *testing.T) {
		t.Run("time updates are clamped", func(t *testing.T) {
			c, _ := newTestController(t)
			c.Load(testTracks(), 0)
			c.TimeUpdate(45.5)
			if got := c.Snapshot().Position; got != 45.5 {
				t.Errorf("expected 45.5, got %v", got)
			}
			c.TimeUpdate(1000)
			if got := c.Snapshot().Position; got != 300 {
				t.Errorf("expected clamp to 300, got %v", got)
			}
		})

		t.Run("duration change re-clamps position", func(t *testing.T) {
			c, _ := newTestController(t)
			c.Load(testTracks(), 0)
			c.TimeUpdate(250)
			c.DurationChange(200)
			snap := c.Snapshot()
			if snap.Duration != 200 || snap.Position != 200 {
				t.Errorf("expected duration 200 and position 200, got %+v", snap)
			}
			c.DurationChange(-1)
			if c.Snapshot().Duration != 200 {
				t.Error("expected negative duration to be ignored")
			}
		})

		t.Run("events without a track are ignored", func(t *testing.T) {
			c, engine := newTestController(t)
			c.TimeUpdate(5)
			c.DurationChange(100)
			c.Ended()
			snap := c.Snapshot()
			if snap.Position != 0 || snap.Duration != 0 || len(engine.loaded) != 0 {
				t.Errorf("expected untouched state, got %+v", snap)
			}
		})

		t.Run("failure pauses", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 0)
			engine.events.Failed(errors.New("stream closed"))
			if got := c.Snapshot().Status(); got != Paused {
				t.Errorf("expected Paused after failure, got %v", got)
			}
		})

		t.Run("ended advances then stops after the last track", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 1)
			c.Ended()
			if got := c.Snapshot().Current.ID; got != "c" {
				t.Fatalf("expected c after end of b, got %s", got)
			}

			c.TimeUpdate(150)
			c.Ended()
			snap := c.Snapshot()
			if snap.Current.ID != "c" || snap.Playing || snap.Position != 0 {
				t.Errorf("expected c paused at 0, got %+v", snap)
			}
			if len(engine.loaded) != 2 {
				t.Errorf("expected no load after the last track, got %v", engine.loaded)
			}
		})

		t.Run("play after the last track ends reloads it", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 2)
			c.TimeUpdate(120)
			c.Ended()

			c.TogglePlayPause()
			snap := c.Snapshot()
			if snap.Status() != Playing || snap.Position != 0 || snap.Current.ID != "c" {
				t.Errorf("expected c playing from 0, got %+v", snap)
			}
			if got := engine.loaded; len(got) != 2 || got[1] != "c" {
				t.Errorf("expected c loaded again, got %v", got)
			}
			if engine.resumed != 0 {
				t.Errorf("expected no resume of the finished stream, got %d", engine.resumed)
			}

			c.TogglePlayPause()
			c.TogglePlayPause()
			if engine.resumed != 1 || len(engine.loaded) != 2 {
				t.Errorf("expected a plain resume once reloaded, got resumed=%d loaded=%v", engine.resumed, engine.loaded)
			}
		})

		t.Run("play after a failure reloads the track", func(t *testing.T) {
			c, engine := newTestController(t)
			c.Load(testTracks(), 0)
			engine.events.Failed(errors.New("stream closed"))

			c.TogglePlayPause()
			if got := engine.loaded; len(got) != 2 || got[1] != "a" {
				t.Errorf("expected a loaded again, got %v", got)
			}
			if !c.Snapshot().Playing {
				t.Error("expected playing after reload")
			}
		})
	})

	t.Run("Concurrent events and intents", func(t *testing.T) {
		c, _ := newTestController(t)
		c.Load(testTracks(), 0)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				c.TimeUpdate(float64(i * 7))
			}(i)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					c.PlayNext()
				} else {
					c.Seek(float64(i))
				}
			}(i)
		}
		wg.Wait()

		snap := c.Snapshot()
		if snap.Position < 0 || snap.Position > snap.Duration {
			t.Errorf("position %v escaped [0, %v]", snap.Position, snap.Duration)
		}
		if snap.Index < 0 || snap.Index >= snap.Total {
			t.Errorf("index %d out of range", snap.Index)
		}
	})
}
