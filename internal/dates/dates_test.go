package dates

import (
	"errors"
	"testing"
	"time"
)

// Monday afternoon.
var now = time.Date(2026, 2, 9, 15, 30, 0, 0, time.UTC)

func TestInInterval(t *testing.T) {
	cases := []struct {
		kind Interval
		date string
		want bool
	}{
		{IntervalToday, "2026-02-09", true},
		{IntervalToday, "2026-02-10", false},
		{IntervalToday, "2026-02-08", false},
		{IntervalOverdue, "2026-02-08", true},
		{IntervalOverdue, "2026-02-09", false},
		{IntervalOverdue, "2025-12-31", true},
		{IntervalThisWeek, "2026-02-09", true},
		{IntervalThisWeek, "2026-02-16", true},
		{IntervalThisWeek, "2026-02-17", false},
		{IntervalThisWeek, "2026-02-08", false},
		{IntervalToday, "", false},
		{"", "2026-02-09", false},
		{IntervalToday, "not-a-date", false},
		{Interval("someday"), "2026-02-09", false},
	}
	for _, tc := range cases {
		if got := InInterval(tc.kind, tc.date, now); got != tc.want {
			t.Fatalf("InInterval(%q, %q) = %v, want %v", tc.kind, tc.date, got, tc.want)
		}
	}
}

func TestInIntervalIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 2, 9, 23, 59, 59, 0, time.UTC)
	if !InInterval(IntervalToday, "2026-02-09", late) {
		t.Fatal("expected today just before midnight")
	}
	early := time.Date(2026, 2, 10, 0, 0, 1, 0, time.UTC)
	if !InInterval(IntervalOverdue, "2026-02-09", early) {
		t.Fatal("expected overdue just after midnight")
	}
}

func TestFormatDue(t *testing.T) {
	cases := map[string]string{
		"2026-02-09": "Today",
		"2026-02-10": "Tomorrow",
		"2026-02-08": "Yesterday",
		"2026-02-12": "Thursday",
		"2026-02-15": "Sunday",
		"2026-02-16": "16 Feb",
		"2026-01-20": "20 Jan",
		"2027-03-05": "5 Mar 2027",
		"":           "",
		"garbage":    "",
	}
	for in, want := range cases {
		if got := FormatDue(in, now); got != want {
			t.Fatalf("FormatDue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRelative(t *testing.T) {
	cases := map[string]string{
		"today":      "2026-02-09",
		"Tomorrow":   "2026-02-10",
		"+3d":        "2026-02-12",
		"+2w":        "2026-02-23",
		"monday":     "2026-02-16",
		"fri":        "2026-02-13",
		"2026-05-01": "2026-05-01",
		"none":       "",
		"":           "",
	}
	for in, want := range cases {
		got, err := ParseRelative(in, now)
		if err != nil {
			t.Fatalf("ParseRelative(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRelative(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"+xd", "+3y", "someday", "2026-13-01"} {
		if _, err := ParseRelative(bad, now); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseRelative(%q) expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 2, 9, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
	if got := DaysBetween(b, a); got != -1 {
		t.Fatalf("expected -1 day, got %d", got)
	}
}
