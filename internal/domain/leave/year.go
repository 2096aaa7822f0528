package leave

import (
	"fmt"
	"time"
)

// YearIdentifier derives the canonical leave year name from a cutoff pair,
// e.g. 2023-06-01 / 2024-05-31 -> "2023-2024". Ordering of the dates is the
// caller's concern.
func YearIdentifier(cutoffStart, cutoffEnd time.Time) string {
	return fmt.Sprintf("%d-%d", cutoffStart.Year(), cutoffEnd.Year())
}

// ResolveYear reports the configured year identifier when date falls inside
// the cutoff window, inclusive on both ends. Comparison is at day
// granularity: the time of day on date is ignored for the start boundary and
// the end boundary extends to end of day.
func ResolveYear(date time.Time, cfg YearConfig) (string, bool) {
	day := truncateToDay(date)
	start := truncateToDay(cfg.CutoffStart)
	end := truncateToDay(cfg.CutoffEnd)
	if day.Before(start) || day.After(end) {
		return "", false
	}
	return cfg.Year, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
