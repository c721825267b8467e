package dates

import (
	"fmt"
	"time"
)

// QuarterGroup is one of the three HMRC VAT stagger groups, named by the
// calendar months its quarters end on.
type QuarterGroup string

const (
	QuarterGroupJanAprJulOct QuarterGroup = "jan_apr_jul_oct"
	QuarterGroupFebMayAugNov QuarterGroup = "feb_may_aug_nov"
	QuarterGroupMarJunSepDec QuarterGroup = "mar_jun_sep_dec"
)

var quarterEndMonths = map[QuarterGroup][4]time.Month{
	QuarterGroupJanAprJulOct: {time.January, time.April, time.July, time.October},
	QuarterGroupFebMayAugNov: {time.February, time.May, time.August, time.November},
	QuarterGroupMarJunSepDec: {time.March, time.June, time.September, time.December},
}

// ParseQuarterGroup validates a stored quarter-group string. Unknown values
// are a hard error: a guessed stagger group means a wrong statutory deadline.
func ParseQuarterGroup(s string) (QuarterGroup, error) {
	g := QuarterGroup(s)
	if _, ok := quarterEndMonths[g]; !ok {
		return "", fmt.Errorf("unknown VAT quarter group %q", s)
	}

	return g, nil
}

// VATQuarter describes one VAT accounting quarter and its filing deadline.
type VATQuarter struct {
	Start     time.Time
	End       time.Time
	FilingDue time.Time

	// PeriodID identifies the quarter by its end month, e.g. "2025-05".
	PeriodID string
}

// CalculateVATQuarter returns the current quarter for the given reference
// date: the quarter ending in the first group month at or after the
// reference date's month, rolling to the group's first month next year when
// the reference date sits past the last one.
//
// The filing deadline is the last day of the month immediately following the
// quarter end.
func CalculateVATQuarter(group QuarterGroup, ref time.Time) (VATQuarter, error) {
	months, ok := quarterEndMonths[group]
	if !ok {
		return VATQuarter{}, fmt.Errorf("unknown VAT quarter group %q", group)
	}

	ref = Civil(ref)

	endYear, endMonth := ref.Year(), time.Month(0)

	for _, m := range months {
		if m >= ref.Month() {
			endMonth = m
			break
		}
	}

	if endMonth == 0 {
		endYear++
		endMonth = months[0]
	}

	return quarterEndingIn(endYear, endMonth), nil
}

// NextVATQuarter advances from the given quarter end by exactly three months
// and recomputes the boundaries.
func NextVATQuarter(group QuarterGroup, currentEnd time.Time) (VATQuarter, error) {
	months, ok := quarterEndMonths[group]
	if !ok {
		return VATQuarter{}, fmt.Errorf("unknown VAT quarter group %q", group)
	}

	next := AddMonths(EndOfMonth(currentEnd), 3)

	found := false

	for _, m := range months {
		if m == next.Month() {
			found = true
			break
		}
	}

	if !found {
		return VATQuarter{}, fmt.Errorf("quarter end %s does not belong to group %q", Civil(currentEnd).Format(time.DateOnly), group)
	}

	return quarterEndingIn(next.Year(), next.Month()), nil
}

func quarterEndingIn(year int, month time.Month) VATQuarter {
	end := time.Date(year, month, daysIn(year, month), 0, 0, 0, 0, time.UTC)
	start := time.Date(year, month-2, 1, 0, 0, 0, 0, time.UTC)
	filingDue := EndOfMonth(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC))

	return VATQuarter{
		Start:     start,
		End:       end,
		FilingDue: filingDue,
		PeriodID:  fmt.Sprintf("%04d-%02d", end.Year(), int(end.Month())),
	}
}
