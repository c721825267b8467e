package dates

import (
	"time"
)

// CompanyFacts is the snapshot of company record fields the year-end
// calculation reads. It is never mutated here; pointers distinguish
// "not set" from a real date.
type CompanyFacts struct {
	IncorporationDate    *time.Time
	LastAccountsMadeUpTo *time.Time

	// Accounting reference date as held at Companies House: a day/month
	// pair. Zero values mean not set.
	AccountingRefDay   int
	AccountingRefMonth time.Month

	// Next year end as reported by Companies House, when known.
	NextYearEnd *time.Time
}

func (f CompanyFacts) hasRefDate() bool {
	return f.AccountingRefDay >= 1 && f.AccountingRefMonth >= time.January && f.AccountingRefMonth <= time.December
}

// CalculateYearEnd derives the company's current accounting year end, or nil
// when no usable input exists. Callers must treat nil as "cannot determine",
// never substitute a default.
//
// Priority:
//  1. the Companies House reported next year end, verbatim
//  2. last accounts made up to + 1 year
//  3. first accounting period rule from the incorporation date and the
//     accounting reference day/month: the first period must span at least
//     6 months (and at most 18), so a reference date falling under 6 months
//     after incorporation rolls forward one year
//  4. the nearest occurrence of the reference day/month on or after now
func CalculateYearEnd(facts CompanyFacts, now time.Time) *time.Time {
	if facts.NextYearEnd != nil {
		ye := Civil(*facts.NextYearEnd)
		return &ye
	}

	if facts.LastAccountsMadeUpTo != nil {
		ye := AddMonths(*facts.LastAccountsMadeUpTo, 12)
		return &ye
	}

	if !facts.hasRefDate() {
		return nil
	}

	if facts.IncorporationDate != nil {
		inc := Civil(*facts.IncorporationDate)

		ye := refDateOnOrAfter(inc, facts.AccountingRefDay, facts.AccountingRefMonth)
		if ye.Before(AddMonths(inc, 6)) {
			ye = refDateInYear(ye.Year()+1, facts.AccountingRefDay, facts.AccountingRefMonth)
		}

		return &ye
	}

	ye := refDateOnOrAfter(Civil(now), facts.AccountingRefDay, facts.AccountingRefMonth)

	return &ye
}

// refDateInYear builds the reference date for a given year, clamping the day
// to the month length (a 29 Feb reference date is 28 Feb in non-leap years).
func refDateInYear(year int, day int, month time.Month) time.Time {
	return time.Date(year, month, clampDay(year, month, day), 0, 0, 0, 0, time.UTC)
}

func refDateOnOrAfter(from time.Time, day int, month time.Month) time.Time {
	candidate := refDateInYear(from.Year(), day, month)
	if candidate.Before(from) {
		candidate = refDateInYear(from.Year()+1, day, month)
	}

	return candidate
}

// CTDueFromYearEnd returns the CT600 filing deadline: exactly 12 calendar
// months after the year end.
func CTDueFromYearEnd(yearEnd time.Time) time.Time {
	return AddMonths(yearEnd, 12)
}

// AccountsDueFromYearEnd returns the Companies House accounts deadline:
// 9 calendar months after the year end.
func AccountsDueFromYearEnd(yearEnd time.Time) time.Time {
	return AddMonths(yearEnd, 9)
}

// CalculateAccountsDue derives the accounts deadline from company facts, or
// nil when the year end cannot be determined.
func CalculateAccountsDue(facts CompanyFacts, now time.Time) *time.Time {
	ye := CalculateYearEnd(facts, now)
	if ye == nil {
		return nil
	}

	due := AccountsDueFromYearEnd(*ye)

	return &due
}

// CalculateCTDue derives the CT600 deadline from company facts, or nil when
// the year end cannot be determined.
func CalculateCTDue(facts CompanyFacts, now time.Time) *time.Time {
	ye := CalculateYearEnd(facts, now)
	if ye == nil {
		return nil
	}

	due := CTDueFromYearEnd(*ye)

	return &due
}
