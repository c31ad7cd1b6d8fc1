package capacity

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseWorkWeek(t *testing.T) {
	week, err := ParseWorkWeek("1111100")
	if err != nil {
		t.Fatalf("ParseWorkWeek error: %v", err)
	}
	if week != DefaultWorkWeek() {
		t.Fatalf("expected default week, got %v", week)
	}

	if _, err := ParseWorkWeek("111"); err == nil {
		t.Fatal("expected error for short mask")
	}
	if _, err := ParseWorkWeek("11111xx"); err == nil {
		t.Fatal("expected error for invalid characters")
	}
}

func TestWorkingMapsWeekdays(t *testing.T) {
	week := DefaultWorkWeek()
	if !week.Working(time.Monday) || !week.Working(time.Friday) {
		t.Fatal("Monday and Friday should be working days")
	}
	if week.Working(time.Saturday) || week.Working(time.Sunday) {
		t.Fatal("weekend must not be working days")
	}
}

func TestBusinessDays(t *testing.T) {
	week := DefaultWorkWeek()

	// 2026-01-05 is a Monday.
	monday := date(2026, time.January, 5)
	friday := date(2026, time.January, 9)
	saturday := date(2026, time.January, 10)
	sunday := date(2026, time.January, 11)

	if got := BusinessDays(monday, friday, week, nil); got != 5 {
		t.Fatalf("expected 5 business days Mon-Fri, got %d", got)
	}
	if got := BusinessDays(saturday, sunday, week, nil); got != 0 {
		t.Fatalf("expected 0 business days on a weekend, got %d", got)
	}
	if got := BusinessDays(monday, monday, week, nil); got != 1 {
		t.Fatalf("expected 1 business day for a single Monday, got %d", got)
	}

	// Inverted range counts as empty.
	if got := BusinessDays(friday, monday, week, nil); got != 0 {
		t.Fatalf("expected 0 business days for an inverted range, got %d", got)
	}

	holidays := map[string]struct{}{
		DateKey(date(2026, time.January, 7)): {}, // Wednesday
	}
	if got := BusinessDays(monday, friday, week, holidays); got != 4 {
		t.Fatalf("expected 4 business days with one holiday, got %d", got)
	}
}
