// Package tasks loads and exports the home feed with real-time progress reporting.
//
// # Core Operations
//
//  1. [FeedEngine.Load] : Fetch the recommended, popular and top lists
//     - One goroutine per list, paced by a shared [rate.Limiter]
//     - A list that fails to load comes back empty; only cancellation is an error
//
//  2. [FeedEngine.Export] : Write each non-empty list to disk
//     - A small worker pool calls [formatter.WriteExport] per section
//     - Partial failures are reported per section and recorded in export_manifest.json
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
