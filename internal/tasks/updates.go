package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFeed Phase = iota
	ExportSection
)

func (p Phase) String() string {
	switch p {
	case FetchFeed:
		return "fetch_feed"
	case ExportSection:
		return "export_section"
	default:
		return ""
	}
}

func fetchingFeedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    0,
		Total:   total,
		Message: "Fetching home feed...",
	}
}

func fetchedSectionUpdate(step, total int, section string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d songs)", step, total, section, count),
		Data:    count,
	}
}

func exportingSectionUpdate(step, total int, section string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, section),
	}
}

func exportCompletedUpdate(step, total int, section string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, section, filesCount),
	}
}

func exportFailedUpdate(step, total int, section string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, section, err),
	}
}
