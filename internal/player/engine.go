package player

import "context"

// MediaEvents receives notifications from a playing media resource.
type MediaEvents interface {
	TimeUpdate(position float64)
	DurationChange(duration float64)
	Ended()
	Failed(err error)
}

// Engine plays audio for the [Controller].
//
// Load may return before audio starts; later failures arrive through
// [MediaEvents.Failed]. Implementations must not call back into the bound
// [MediaEvents] while holding their own locks.
type Engine interface {
	Bind(events MediaEvents)
	Load(ctx context.Context, track Track) error
	Pause()
	Resume()
	Seek(position float64) error
	SetVolume(level float64)
	Stop()
}

// nopEngine is used when the controller runs without audio output.
type nopEngine struct{}

func (nopEngine) Bind(MediaEvents)                  {}
func (nopEngine) Load(context.Context, Track) error { return nil }
func (nopEngine) Pause()                            {}
func (nopEngine) Resume()                           {}
func (nopEngine) Seek(float64) error                { return nil }
func (nopEngine) SetVolume(float64)                 {}
func (nopEngine) Stop()                             {}
