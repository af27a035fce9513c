// Package dates classifies calendar dates relative to "now" and renders short
// human-readable due labels.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the ISO calendar-date layout todos store their due dates in.
const Layout = "2006-01-02"

// WeekSpan is the last day offset from today still counted as "this week".
// The window runs from today through today+WeekSpan inclusive.
const WeekSpan = 7

var ErrInvalidDate = errors.New("dates: invalid date")

type Interval string

const (
	IntervalOverdue  Interval = "overdue"
	IntervalToday    Interval = "today"
	IntervalThisWeek Interval = "this-week"
)

// Parse reads an ISO date as midnight in loc.
func Parse(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, ignoring the time of day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// InInterval reports whether date falls in the kind window relative to now.
// It is false when kind or date is empty or the date does not parse.
func InInterval(kind Interval, date string, now time.Time) bool {
	if kind == "" || strings.TrimSpace(date) == "" {
		return false
	}
	due, err := Parse(date, now.Location())
	if err != nil {
		return false
	}
	diff := DaysBetween(now, due)
	switch kind {
	case IntervalOverdue:
		return diff < 0
	case IntervalToday:
		return diff == 0
	case IntervalThisWeek:
		return diff >= 0 && diff <= WeekSpan
	default:
		return false
	}
}

// FormatDue renders date relative to now: "Today", "Tomorrow", "Yesterday",
// a weekday name up to six days ahead, "2 Jan" this year and "2 Jan 2006"
// otherwise. A date exactly WeekSpan days out shares today's weekday, so it
// gets a calendar label.
func FormatDue(date string, now time.Time) string {
	if strings.TrimSpace(date) == "" {
		return ""
	}
	due, err := Parse(date, now.Location())
	if err != nil {
		return ""
	}
	switch diff := DaysBetween(now, due); {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff == -1:
		return "Yesterday"
	case diff > 1 && diff < WeekSpan:
		return due.Weekday().String()
	case due.Year() == now.Year():
		return due.Format("2 Jan")
	default:
		return due.Format("2 Jan 2006")
	}
}

// ParseRelative accepts an ISO date, "today", "tomorrow", "+Nd", "+Nw" or a
// weekday name (the next such day, today excluded) and returns an ISO date.
// "none" and the empty string clear the date.
func ParseRelative(input string, now time.Time) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(input))
	today := StartOfDay(now)
	switch raw {
	case "", "none", "-":
		return "", nil
	case "today":
		return Format(today), nil
	case "tomorrow":
		return Format(today.AddDate(0, 0, 1)), nil
	}
	if strings.HasPrefix(raw, "+") && len(raw) > 2 {
		n, err := strconv.Atoi(raw[1 : len(raw)-1])
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		switch raw[len(raw)-1] {
		case 'd':
			return Format(today.AddDate(0, 0, n)), nil
		case 'w':
			return Format(today.AddDate(0, 0, 7*n)), nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if raw == name || raw == name[:3] {
			ahead := (int(d) - int(today.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			return Format(today.AddDate(0, 0, ahead)), nil
		}
	}
	t, err := Parse(raw, now.Location())
	if err != nil {
		return "", err
	}
	return Format(t), nil
}
