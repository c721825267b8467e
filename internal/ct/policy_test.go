package ct_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoodall/duebook/internal/ct"
)

var (
	now   = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	actor = uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pendingTracking(due time.Time) ct.Tracking {
	return ct.Tracking{
		ClientID: uuid.New(),
		Status:   ct.StatusPending,
		DueDate:  &due,
		Source:   ct.SourceAuto,
	}
}

func TestStatus(t *testing.T) {
	t.Run("FiledIsSticky", func(t *testing.T) {
		tr := pendingTracking(date(2024, time.January, 31))
		tr.Status = ct.StatusFiled

		// Long past due, still filed.
		assert.Equal(t, ct.StatusFiled, ct.Status(tr, now))
	})

	t.Run("OverdueWhenDuePassed", func(t *testing.T) {
		assert.Equal(t, ct.StatusOverdue, ct.Status(pendingTracking(date(2025, time.June, 14)), now))
	})

	t.Run("PendingOtherwise", func(t *testing.T) {
		assert.Equal(t, ct.StatusPending, ct.Status(pendingTracking(date(2025, time.June, 15)), now))
		assert.Equal(t, ct.StatusPending, ct.Status(ct.Tracking{Status: ct.StatusPending}, now))
	})
}

func TestShouldUpdateDue(t *testing.T) {
	newYearEnd := date(2025, time.March, 31) // recomputed due 2026-03-31

	t.Run("ManualOverrideAlwaysRefused", func(t *testing.T) {
		tr := pendingTracking(date(2025, time.December, 31))
		tr.Source = ct.SourceManual

		for _, chChanged := range []bool{true, false} {
			d := ct.ShouldUpdateDue(tr, newYearEnd, chChanged, now)

			assert.False(t, d.Apply)
			assert.NotEmpty(t, d.Warnings)
		}
	})

	t.Run("LargeShiftWhilePendingAndCHChangedRefused", func(t *testing.T) {
		tr := pendingTracking(date(2025, time.September, 30))

		d := ct.ShouldUpdateDue(tr, newYearEnd, true, now)

		assert.False(t, d.Apply)
		assert.Len(t, d.Warnings, 1)
		assert.Equal(t, date(2026, time.March, 31), d.NewDue)
	})

	t.Run("LargeShiftWithoutCHChangeApplied", func(t *testing.T) {
		tr := pendingTracking(date(2025, time.September, 30))

		d := ct.ShouldUpdateDue(tr, newYearEnd, false, now)

		assert.True(t, d.Apply)
		assert.Empty(t, d.Warnings)
	})

	t.Run("SmallShiftApplied", func(t *testing.T) {
		tr := pendingTracking(date(2026, time.March, 15))

		d := ct.ShouldUpdateDue(tr, newYearEnd, true, now)

		assert.True(t, d.Apply)
		assert.Equal(t, date(2026, time.March, 31), d.NewDue)
	})

	t.Run("LargeShiftOnFiledRecordApplied", func(t *testing.T) {
		// The guard protects open periods only.
		tr := pendingTracking(date(2025, time.September, 30))
		tr.Status = ct.StatusFiled

		d := ct.ShouldUpdateDue(tr, newYearEnd, true, now)
		assert.True(t, d.Apply)
	})

	t.Run("NoStoredDueApplied", func(t *testing.T) {
		d := ct.ShouldUpdateDue(ct.Tracking{Status: ct.StatusPending, Source: ct.SourceAuto}, newYearEnd, true, now)
		assert.True(t, d.Apply)
	})
}

func TestApplyDue(t *testing.T) {
	tr := ct.ApplyDue(ct.Tracking{}, date(2025, time.January, 31), actor, now)

	require.NotNil(t, tr.DueDate)
	assert.Equal(t, date(2026, time.January, 31), *tr.DueDate)

	require.NotNil(t, tr.PeriodEnd)
	assert.Equal(t, date(2025, time.January, 31), *tr.PeriodEnd)

	require.NotNil(t, tr.PeriodStart)
	assert.Equal(t, date(2024, time.February, 1), *tr.PeriodStart)

	assert.Equal(t, ct.SourceAuto, tr.Source)
	require.NotNil(t, tr.UpdatedBy)
	assert.Equal(t, actor, *tr.UpdatedBy)
}

func TestMarkAsFiled(t *testing.T) {
	t.Run("WithoutNextYearEndStaysFiled", func(t *testing.T) {
		override := date(2025, time.August, 31)
		tr := pendingTracking(date(2025, time.September, 30))
		tr.Source = ct.SourceManual
		tr.ManualOverride = &override

		filed := ct.MarkAsFiled(tr, actor, now, nil)

		assert.Equal(t, ct.StatusFiled, filed.Status)
		assert.Nil(t, filed.ManualOverride)
		assert.Equal(t, ct.SourceAuto, filed.Source)
		require.NotNil(t, filed.FiledAt)
		assert.Equal(t, now, *filed.FiledAt)
	})

	t.Run("WithNextYearEndRollsForwardPending", func(t *testing.T) {
		periodEnd := date(2024, time.September, 30)
		tr := pendingTracking(date(2025, time.September, 30))
		tr.PeriodEnd = &periodEnd

		nextYE := date(2025, time.September, 30)
		rolled := ct.MarkAsFiled(tr, actor, now, &nextYE)

		assert.Equal(t, ct.StatusPending, rolled.Status)

		require.NotNil(t, rolled.DueDate)
		assert.Equal(t, date(2026, time.September, 30), *rolled.DueDate)

		require.NotNil(t, rolled.PeriodStart)
		assert.Equal(t, date(2024, time.October, 1), *rolled.PeriodStart)

		require.NotNil(t, rolled.PeriodEnd)
		assert.Equal(t, nextYE, *rolled.PeriodEnd)
	})
}

func TestOverrideAndReset(t *testing.T) {
	tr := pendingTracking(date(2025, time.September, 30))

	overridden := ct.SetManualOverride(tr, date(2025, time.November, 15), actor, now)

	assert.Equal(t, ct.SourceManual, overridden.Source)
	require.NotNil(t, overridden.DueDate)
	assert.Equal(t, date(2025, time.November, 15), *overridden.DueDate)

	// While overridden, recomputation is refused.
	d := ct.ShouldUpdateDue(overridden, date(2024, time.September, 30), false, now)
	assert.False(t, d.Apply)

	reset := ct.ResetToAuto(overridden, date(2024, time.September, 30), actor, now)

	assert.Equal(t, ct.SourceAuto, reset.Source)
	assert.Nil(t, reset.ManualOverride)
	require.NotNil(t, reset.DueDate)
	assert.Equal(t, date(2025, time.September, 30), *reset.DueDate)
}
