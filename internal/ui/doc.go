// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [HomeView] : Recommended, popular and top lists, switched with tab
//  2. [SearchView] : A song search prompt
//  3. [ResultsView] : Songs matching the last search
//
// A [PlayerView] sits under every view. It reads the shared player state and renders a compact
// bar, or takes over the screen when the player is expanded. All playback keys go to the
// [player.Controller]; the view itself never writes state.
//
// Every fetch runs as a tea.Cmd with its own cancellable context. Starting a new request cancels
// the previous one of the same kind and responses for superseded requests are dropped.
package ui
