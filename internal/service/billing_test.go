package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStayCost(t *testing.T) {
	entry := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("2000")

	cases := []struct {
		name string
		exit time.Time
		want string
	}{
		// 1 minute = 0.02 h (rounded up), 0.02 * 2000 = 40.00
		{"one minute", entry.Add(1 * time.Minute), "40.00"},
		{"exactly one hour", entry.Add(60 * time.Minute), "2000.00"},
		// 90 min = 1.5 h exactly
		{"ninety minutes", entry.Add(90 * time.Minute), "3000.00"},
		// 61 min = 1.0167 h, rounds up to 1.02
		{"sixty-one minutes", entry.Add(61 * time.Minute), "2040.00"},
		{"zero duration", entry, "0.00"},
		// sub-minute stays bill zero whole minutes
		{"thirty seconds", entry.Add(30 * time.Second), "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stayCost(entry, tc.exit, rate)
			if got.StringFixed(2) != tc.want {
				t.Errorf("stayCost = %s, want %s", got.StringFixed(2), tc.want)
			}
		})
	}
}

func TestStayCost_ExitBeforeEntryClampsToZero(t *testing.T) {
	entry := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	got := stayCost(entry, entry.Add(-5*time.Minute), decimal.RequireFromString("1500"))
	if !got.IsZero() {
		t.Errorf("stayCost with exit before entry = %s, want 0", got)
	}
}

func TestPeriodRange(t *testing.T) {
	// Wednesday, March 12 2025.
	now := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		period    string
		wantStart time.Time
	}{
		{PeriodToday, time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)}, // Monday
		{PeriodMonth, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodYear, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			start, end, err := periodRange(tc.period, now)
			if err != nil {
				t.Fatalf("periodRange(%q): %v", tc.period, err)
			}
			if !start.Equal(tc.wantStart) {
				t.Errorf("start = %v, want %v", start, tc.wantStart)
			}
			if !end.After(now) {
				t.Errorf("end %v should be after now %v", end, now)
			}
			if !start.Before(end) {
				t.Errorf("start %v should precede end %v", start, end)
			}
		})
	}
}

func TestPeriodRange_WeekStartsMondayOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, time.March, 16, 10, 0, 0, 0, time.UTC)
	start, end, err := periodRange(PeriodWeek, sunday)
	if err != nil {
		t.Fatalf("periodRange: %v", err)
	}
	wantStart := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("week start = %v, want %v", start, wantStart)
	}
	if !end.After(sunday) {
		t.Errorf("week end %v should still contain sunday %v", end, sunday)
	}
}

func TestPeriodRange_UnknownPeriod(t *testing.T) {
	if _, _, err := periodRange("quarter", time.Now()); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("err = %v, want ErrInvalidPeriod", err)
	}
}
