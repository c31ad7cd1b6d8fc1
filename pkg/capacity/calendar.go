package capacity

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates; no time-of-day component.
const DateLayout = "2006-01-02"

// WorkWeek marks which weekdays are working days, Monday first.
type WorkWeek [7]bool

// DefaultWorkWeek is a five-day Monday-to-Friday week.
func DefaultWorkWeek() WorkWeek {
	return WorkWeek{true, true, true, true, true, false, false}
}

// ParseWorkWeek reads a seven-character mask, Monday first, '1' for working.
func ParseWorkWeek(s string) (WorkWeek, error) {
	var w WorkWeek
	if len(s) != 7 {
		return w, fmt.Errorf("work week mask must have 7 characters, got %q", s)
	}
	for i, c := range s {
		switch c {
		case '1':
			w[i] = true
		case '0':
			w[i] = false
		default:
			return w, fmt.Errorf("work week mask must contain only 0 and 1, got %q", s)
		}
	}
	return w, nil
}

func (w WorkWeek) Working(d time.Weekday) bool {
	// time.Weekday is Sunday-first, the mask is Monday-first.
	return w[(int(d)+6)%7]
}

// DateKey normalizes a timestamp to its calendar date.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// BusinessDays counts working days in the inclusive range [from, to],
// skipping any date present in holidays (keyed by DateKey). An inverted
// range counts as empty.
func BusinessDays(from, to time.Time, week WorkWeek, holidays map[string]struct{}) int {
	from = midnight(from)
	to = midnight(to)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !week.Working(d.Weekday()) {
			continue
		}
		if _, holiday := holidays[DateKey(d)]; holiday {
			continue
		}
		count++
	}
	return count
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
