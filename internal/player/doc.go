// Package player holds the persistent music player core.
//
// A [State] is created once per session and passed to both the [Controller]
// and any view. The controller is the only writer: it applies user intent
// (Load, TogglePlayPause, Seek, ChangeVolume, PlayNext, PlayPrevious,
// ToggleFavorite, ToggleExpandPlayer) and media events from an [Engine]
// (TimeUpdate, DurationChange, Ended). Views read copies via [State.Snapshot].
//
// Two independent state machines are tracked: the view mode (collapsed or
// expanded) and the transport ([NoTrack], [Paused], [Playing]).
//
// Boundary policy: PlayNext and PlayPrevious wrap around the playlist.
// A track ending naturally advances, except after the last track where
// playback pauses at position 0.
package player
