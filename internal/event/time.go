package event

import (
	"fmt"
	"time"
)

// Minutes returns d as fractional minutes.
func Minutes(d time.Duration) float64 {
	return d.Minutes()
}

// FormatMinutes renders a minute count as "1h30m", "45m" or "2h".
func FormatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, rem)
	}
}

// OverlapDuration returns how long [start1, end1) and [start2, end2) overlap.
// Returns 0 if there is no overlap.
func OverlapDuration(start1, end1, start2, end2 time.Time) time.Duration {
	start := start1
	if start2.After(start) {
		start = start2
	}
	end := end1
	if end2.Before(end) {
		end = end2
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// TimesOverlap returns true if two half-open ranges overlap.
// Two ranges overlap if: start1 < end2 AND start2 < end1
func TimesOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
