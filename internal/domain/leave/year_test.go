package leave

import (
	"testing"
	"time"
)

func TestYearIdentifier(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	if got := YearIdentifier(start, end); got != "2023-2024" {
		t.Fatalf("expected 2023-2024, got %s", got)
	}

	sameYear := YearIdentifier(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if sameYear != "2025-2025" {
		t.Fatalf("expected 2025-2025, got %s", sameYear)
	}
}

func TestResolveYearBoundaries(t *testing.T) {
	cfg := YearConfig{
		Year:        "2023-2024",
		CutoffStart: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		CutoffEnd:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	if year, ok := ResolveYear(cfg.CutoffStart, cfg); !ok || year != "2023-2024" {
		t.Fatalf("start boundary should resolve, got %q %v", year, ok)
	}
	if year, ok := ResolveYear(cfg.CutoffEnd, cfg); !ok || year != "2023-2024" {
		t.Fatalf("end boundary should resolve, got %q %v", year, ok)
	}
	if _, ok := ResolveYear(cfg.CutoffEnd.AddDate(0, 0, 1), cfg); ok {
		t.Fatal("day after cutoff end should not resolve")
	}
	if _, ok := ResolveYear(cfg.CutoffStart.AddDate(0, 0, -1), cfg); ok {
		t.Fatal("day before cutoff start should not resolve")
	}
}

func TestResolveYearIgnoresTimeOfDay(t *testing.T) {
	cfg := YearConfig{
		Year:        "2023-2024",
		CutoffStart: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		CutoffEnd:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	lateOnEnd := time.Date(2024, 5, 31, 23, 45, 12, 0, time.UTC)
	if _, ok := ResolveYear(lateOnEnd, cfg); !ok {
		t.Fatal("late evening on the end date should still resolve")
	}

	earlyOnStart := time.Date(2023, 6, 1, 0, 0, 1, 0, time.UTC)
	if _, ok := ResolveYear(earlyOnStart, cfg); !ok {
		t.Fatal("time of day on the start date should be ignored")
	}
}
