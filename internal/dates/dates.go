// Package dates implements UK statutory date arithmetic: company year ends,
// Corporation Tax and annual accounts deadlines, and VAT quarter boundaries.
// All functions are pure; "now" is always an explicit parameter.
//
// Statutory deadlines are defined in UK civil time, so every input is first
// reduced to its calendar date in Europe/London. Comparisons are between
// calendar dates, never instants, which keeps results stable across BST
// transitions.
package dates

import (
	"time"
)

var london = mustLoadLondon()

func mustLoadLondon() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic("dates: loading Europe/London: " + err.Error())
	}

	return loc
}

// Civil reduces t to its calendar date in the Europe/London civil calendar,
// returned as midnight UTC. All derived dates in this package are civil
// dates in this form.
func Civil(t time.Time) time.Time {
	y, m, d := t.In(london).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}

	return day
}

// AddMonths adds calendar months with month-end clamping: 31 Jan + 1 month
// is the last day of February, 29 Feb + 12 months is 28 Feb. This is the
// standard reading of "n months after" in Companies Act and VAT deadlines.
func AddMonths(t time.Time, months int) time.Time {
	t = Civil(t)

	y, m, d := t.Date()

	// Anchor on day 1 so AddDate cannot overflow into the following month,
	// then clamp the day to the target month's length.
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)

	return time.Date(first.Year(), first.Month(), clampDay(first.Year(), first.Month(), d), 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month as a civil date.
func EndOfMonth(t time.Time) time.Time {
	t = Civil(t)
	return time.Date(t.Year(), t.Month(), daysIn(t.Year(), t.Month()), 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether due falls strictly before now, comparing civil
// dates. A deadline is not overdue on the day itself.
func IsOverdue(due, now time.Time) bool {
	return Civil(due).Before(Civil(now))
}

// DaysUntil returns the number of whole days from now until due, both
// truncated to civil dates first. Negative when due has passed.
func DaysUntil(due, now time.Time) int {
	return int(Civil(due).Sub(Civil(now)).Hours() / 24)
}
