// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// ParseDateRange reads inclusive YYYY-MM-DD bounds, defaulting to the current month.
func ParseDateRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := BeginningOfMonth(now)
	end := EndOfDay(start.AddDate(0, 1, -1))

	if from != "" {
		t, err := time.ParseInLocation(DateLayout, from, now.Location())
		if err != nil {
			return start, end, fmt.Errorf("invalid from date %q", from)
		}
		start = t
	}
	if to != "" {
		t, err := time.ParseInLocation(DateLayout, to, now.Location())
		if err != nil {
			return start, end, fmt.Errorf("invalid to date %q", to)
		}
		end = EndOfDay(t)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("date range ends before it starts")
	}
	return start, end, nil
}
