package server

import (
	"testing"
	"time"
)

func TestResolveWindowCalendarPeriods(t *testing.T) {
	cases := []struct {
		name      string
		query     reportQuery
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"day",
			reportQuery{Period: "day", Date: "2025-06-15"},
			time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"month",
			reportQuery{Period: "month", Date: "2025-06-15"},
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"year",
			reportQuery{Period: "year", Date: "2025-06-15"},
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"custom end date is exclusive next day",
			reportQuery{Period: "custom", Start: "2025-06-01", End: "2025-06-15"},
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			window, err := resolveWindow(tc.query)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !window.Start.Equal(tc.wantStart) || !window.End.Equal(tc.wantEnd) {
				t.Fatalf("window = [%s, %s), want [%s, %s)", window.Start, window.End, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestResolveWindowRejectsBadInput(t *testing.T) {
	if _, err := resolveWindow(reportQuery{Period: "decade"}); err == nil {
		t.Fatal("expected error for unknown period")
	}
	if _, err := resolveWindow(reportQuery{Period: "custom", Start: "2025-06-01"}); err == nil {
		t.Fatal("expected error for custom without end")
	}
	if _, err := resolveWindow(reportQuery{Period: "day", Date: "June 1"}); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestPreviousWindowStepsBack(t *testing.T) {
	current, err := resolveWindow(reportQuery{Period: "month", Date: "2025-03-15"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	previous := previousWindow("month", current)
	if !previous.Start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("previous start = %s, want 2025-02-01", previous.Start)
	}
	if !previous.End.Equal(current.Start) {
		t.Fatalf("previous end = %s, want current start", previous.End)
	}

	day, _ := resolveWindow(reportQuery{Period: "day", Date: "2025-06-15"})
	prevDay := previousWindow("day", day)
	if !prevDay.Start.Equal(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("previous day start = %s, want 2025-06-14", prevDay.Start)
	}
}
