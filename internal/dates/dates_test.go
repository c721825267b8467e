package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rgoodall/duebook/internal/dates"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"SimpleMonth", date(2025, time.March, 15), 1, date(2025, time.April, 15)},
		{"MonthEndClamp", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"MonthEndClampLeap", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"LeapDayPlusYear", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"AcrossYearBoundary", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"NineMonths", date(2025, time.January, 31), 9, date(2025, time.October, 31)},
		{"Negative", date(2025, time.March, 31), -1, date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dates.AddMonths(tt.start, tt.months))
		})
	}
}

func TestCivil_BSTSafe(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	assert.NoError(t, err)

	// 23:30 BST on 30 June is 22:30 UTC; the civil date must stay 30 June.
	instant := time.Date(2025, time.June, 30, 23, 30, 0, 0, london)
	assert.Equal(t, date(2025, time.June, 30), dates.Civil(instant))

	// 00:30 BST on 1 July is 23:30 UTC on 30 June; the civil date is 1 July.
	instant = time.Date(2025, time.July, 1, 0, 30, 0, 0, london)
	assert.Equal(t, date(2025, time.July, 1), dates.Civil(instant))
}

func TestIsOverdue(t *testing.T) {
	now := date(2025, time.June, 15)

	assert.True(t, dates.IsOverdue(date(2025, time.June, 14), now))
	assert.False(t, dates.IsOverdue(date(2025, time.June, 15), now), "not overdue on the day itself")
	assert.False(t, dates.IsOverdue(date(2025, time.June, 16), now))
}

func TestDaysUntil(t *testing.T) {
	now := date(2025, time.June, 15)

	assert.Equal(t, 0, dates.DaysUntil(date(2025, time.June, 15), now))
	assert.Equal(t, 30, dates.DaysUntil(date(2025, time.July, 15), now))
	assert.Equal(t, -5, dates.DaysUntil(date(2025, time.June, 10), now))

	// Time of day must not shift the count.
	london, err := time.LoadLocation("Europe/London")
	assert.NoError(t, err)

	lateNow := time.Date(2025, time.June, 15, 23, 59, 0, 0, london)
	assert.Equal(t, 1, dates.DaysUntil(date(2025, time.June, 16), lateNow))
}

func TestCalculateYearEnd(t *testing.T) {
	now := date(2025, time.June, 1)

	t.Run("NoUsableInput", func(t *testing.T) {
		assert.Nil(t, dates.CalculateYearEnd(dates.CompanyFacts{}, now))
	})

	t.Run("LastAccountsPlusOneYear", func(t *testing.T) {
		last := date(2023, time.September, 30)
		got := dates.CalculateYearEnd(dates.CompanyFacts{LastAccountsMadeUpTo: &last}, now)

		assert.NotNil(t, got)
		assert.Equal(t, date(2024, time.September, 30), *got)
	})

	t.Run("CompaniesHouseReportedWins", func(t *testing.T) {
		last := date(2023, time.September, 30)
		reported := date(2025, time.March, 31)
		got := dates.CalculateYearEnd(dates.CompanyFacts{
			LastAccountsMadeUpTo: &last,
			NextYearEnd:          &reported,
		}, now)

		assert.NotNil(t, got)
		assert.Equal(t, reported, *got)
	})

	t.Run("FirstPeriodUnderSixMonthsRollsForward", func(t *testing.T) {
		// Incorporated 15 Jan 2024 with a 31 Jan reference date: 31 Jan 2024
		// would make a 16-day first period, so the first year end is 31 Jan 2025.
		inc := date(2024, time.January, 15)
		got := dates.CalculateYearEnd(dates.CompanyFacts{
			IncorporationDate:  &inc,
			AccountingRefDay:   31,
			AccountingRefMonth: time.January,
		}, now)

		assert.NotNil(t, got)
		assert.Equal(t, date(2025, time.January, 31), *got)
	})

	t.Run("FirstPeriodOverSixMonthsKept", func(t *testing.T) {
		inc := date(2024, time.January, 15)
		got := dates.CalculateYearEnd(dates.CompanyFacts{
			IncorporationDate:  &inc,
			AccountingRefDay:   30,
			AccountingRefMonth: time.September,
		}, now)

		assert.NotNil(t, got)
		assert.Equal(t, date(2024, time.September, 30), *got)
	})

	t.Run("FallbackNearestFutureRefDate", func(t *testing.T) {
		got := dates.CalculateYearEnd(dates.CompanyFacts{
			AccountingRefDay:   31,
			AccountingRefMonth: time.March,
		}, now)

		assert.NotNil(t, got)
		assert.Equal(t, date(2026, time.March, 31), *got)
	})

	t.Run("LeapRefDateClamped", func(t *testing.T) {
		inc := date(2023, time.March, 1)
		got := dates.CalculateYearEnd(dates.CompanyFacts{
			IncorporationDate:  &inc,
			AccountingRefDay:   29,
			AccountingRefMonth: time.February,
		}, now)

		assert.NotNil(t, got)
		assert.Equal(t, date(2024, time.February, 29), *got)
	})
}

func TestStatutoryDeadlines(t *testing.T) {
	t.Run("CTDueTwelveMonths", func(t *testing.T) {
		assert.Equal(t, date(2025, time.September, 30), dates.CTDueFromYearEnd(date(2024, time.September, 30)))
		assert.Equal(t, date(2025, time.February, 28), dates.CTDueFromYearEnd(date(2024, time.February, 29)))
	})

	t.Run("AccountsDueNineMonths", func(t *testing.T) {
		assert.Equal(t, date(2025, time.June, 30), dates.AccountsDueFromYearEnd(date(2024, time.September, 30)))
		assert.Equal(t, date(2025, time.October, 31), dates.AccountsDueFromYearEnd(date(2025, time.January, 31)))
	})

	t.Run("EndToEndNewIncorporation", func(t *testing.T) {
		now := date(2024, time.February, 1)
		inc := date(2024, time.January, 15)
		facts := dates.CompanyFacts{
			IncorporationDate:  &inc,
			AccountingRefDay:   31,
			AccountingRefMonth: time.January,
		}

		ye := dates.CalculateYearEnd(facts, now)
		assert.NotNil(t, ye)
		assert.Equal(t, date(2025, time.January, 31), *ye)

		ctDue := dates.CalculateCTDue(facts, now)
		assert.NotNil(t, ctDue)
		assert.Equal(t, date(2026, time.January, 31), *ctDue)

		accountsDue := dates.CalculateAccountsDue(facts, now)
		assert.NotNil(t, accountsDue)
		assert.Equal(t, date(2025, time.October, 31), *accountsDue)
	})
}

func TestCalculateVATQuarter(t *testing.T) {
	t.Run("UnknownGroup", func(t *testing.T) {
		_, err := dates.CalculateVATQuarter(dates.QuarterGroup("jan_feb_mar_apr"), date(2025, time.March, 15))
		assert.Error(t, err)

		_, err = dates.ParseQuarterGroup("quarterly")
		assert.Error(t, err)
	})

	t.Run("MidQuarter", func(t *testing.T) {
		q, err := dates.CalculateVATQuarter(dates.QuarterGroupFebMayAugNov, date(2025, time.March, 15))

		assert.NoError(t, err)
		assert.Equal(t, date(2025, time.March, 1), q.Start)
		assert.Equal(t, date(2025, time.May, 31), q.End)
		assert.Equal(t, date(2025, time.June, 30), q.FilingDue)
		assert.Equal(t, "2025-05", q.PeriodID)
	})

	t.Run("ReferenceInEndMonth", func(t *testing.T) {
		q, err := dates.CalculateVATQuarter(dates.QuarterGroupJanAprJulOct, date(2025, time.July, 2))

		assert.NoError(t, err)
		assert.Equal(t, date(2025, time.July, 31), q.End)
		assert.Equal(t, date(2025, time.August, 31), q.FilingDue)
	})

	t.Run("RollsToNextYear", func(t *testing.T) {
		q, err := dates.CalculateVATQuarter(dates.QuarterGroupJanAprJulOct, date(2025, time.November, 12))

		assert.NoError(t, err)
		assert.Equal(t, date(2026, time.January, 31), q.End)
		assert.Equal(t, date(2025, time.November, 1), q.Start)
		assert.Equal(t, date(2026, time.February, 28), q.FilingDue)
	})

	t.Run("FilingDueIsAlwaysMonthEnd", func(t *testing.T) {
		for _, group := range []dates.QuarterGroup{
			dates.QuarterGroupJanAprJulOct,
			dates.QuarterGroupFebMayAugNov,
			dates.QuarterGroupMarJunSepDec,
		} {
			ref := date(2025, time.January, 1)

			for i := 0; i < 12; i++ {
				q, err := dates.CalculateVATQuarter(group, ref)
				assert.NoError(t, err)

				next := q.End.AddDate(0, 0, 1)
				assert.Equal(t, dates.EndOfMonth(next), q.FilingDue, "group %s ref %s", group, ref.Format(time.DateOnly))

				ref = ref.AddDate(0, 1, 0)
			}
		}
	})
}

func TestNextVATQuarter(t *testing.T) {
	q, err := dates.NextVATQuarter(dates.QuarterGroupFebMayAugNov, date(2025, time.May, 31))

	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 1), q.Start)
	assert.Equal(t, date(2025, time.August, 31), q.End)
	assert.Equal(t, date(2025, time.September, 30), q.FilingDue)
	assert.Equal(t, "2025-08", q.PeriodID)

	t.Run("YearRollover", func(t *testing.T) {
		q, err := dates.NextVATQuarter(dates.QuarterGroupFebMayAugNov, date(2025, time.November, 30))

		assert.NoError(t, err)
		assert.Equal(t, date(2026, time.February, 28), q.End)
	})

	t.Run("EndOutsideGroup", func(t *testing.T) {
		_, err := dates.NextVATQuarter(dates.QuarterGroupFebMayAugNov, date(2025, time.June, 30))
		assert.Error(t, err)
	})
}
