// Package progress reports sort lifecycle progress to a caller-supplied
// callback.
package progress

import (
	"fmt"
	"time"
)

// Phase names reported during a sort.
const (
	PhaseBuffer = "buffer"
	PhaseFlush  = "flush"
	PhaseMerge  = "merge"
	PhaseDone   = "done"
)

// Progress describes the state of a sort at the moment it was reported.
type Progress struct {
	Phase         string
	ItemsBuffered int64
	RunsCreated   int
	ItemsMerged   int64
	StartTime     time.Time
	Error         error
}

// Func is called with progress updates as a sort proceeds.
type Func func(Progress)

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Default prints progress to stdout.
func Default(p Progress) {
	switch p.Phase {
	case PhaseBuffer:
		fmt.Printf("\r[Buffer] %d items buffered", p.ItemsBuffered)
	case PhaseFlush:
		fmt.Printf("\r[Flush] %d runs spilled", p.RunsCreated)
	case PhaseMerge:
		fmt.Printf("\r[Merge] %d items merged", p.ItemsMerged)
	case PhaseDone:
		elapsed := time.Since(p.StartTime)
		fmt.Printf("\n[Done] %d runs, %s\n", p.RunsCreated, FormatDuration(elapsed))
	case "error":
		fmt.Printf("\n[Error] %v\n", p.Error)
	}
}
