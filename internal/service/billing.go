package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

var sixty = decimal.NewFromInt(60)

// stayCost computes the fee for a completed stay. Elapsed whole minutes are
// converted to hours rounded up to 2 decimals (any partial hour is billed),
// then multiplied by the hourly rate and rounded half-up to 2 decimals.
// A stay with exit == entry costs 0.00.
func stayCost(entry, exit time.Time, hourlyRate decimal.Decimal) decimal.Decimal {
	minutes := int64(exit.Sub(entry).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	hours := decimal.NewFromInt(minutes).Div(sixty).RoundUp(2)
	return hourlyRate.Mul(hours).Round(2)
}

// periodRange resolves a named billing period to its inclusive window in the
// zone of now: today is the current calendar day, week runs Monday through
// Sunday, month and year are the current calendar month and year.
func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start, end time.Time
	switch period {
	case PeriodToday:
		start = midnight
		end = start.AddDate(0, 0, 1)
	case PeriodWeek:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		start = midnight.AddDate(0, 0, -daysSinceMonday)
		end = start.AddDate(0, 0, 7)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: '%s'", ErrInvalidPeriod, period)
	}
	return start, end.Add(-time.Nanosecond), nil
}
