package ct

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/dates"
)

// maxAutoShiftDays is the largest recomputed due-date movement applied
// automatically while the prior period is still open. Bigger jumps usually
// mean Companies House rolled the year end forward before the old period was
// filed; overwriting would lose a live deadline.
const maxAutoShiftDays = 30

// Status derives the effective lifecycle state at a point in time. Filed is
// sticky: once filed, the record stays filed until explicitly reset. With no
// due date the obligation is pending.
func Status(t Tracking, now time.Time) TrackingStatus {
	if t.Status == StatusFiled {
		return StatusFiled
	}

	if t.DueDate != nil && dates.IsOverdue(*t.DueDate, now) {
		return StatusOverdue
	}

	return StatusPending
}

// Decision is the outcome of a due-date recomputation check. Refusals carry
// warnings rather than errors: the caller chooses whether to surface them or
// force the change through an explicit override.
type Decision struct {
	Apply    bool
	NewDue   time.Time
	Warnings []string
}

// ShouldUpdateDue decides whether an automatically recomputed CT due date
// may replace the stored one.
//
// A manual override always wins. When the prior period is still pending and
// Companies House data changed, a shift of more than 30 days is flagged
// instead of applied.
func ShouldUpdateDue(t Tracking, newYearEnd time.Time, companiesHouseChanged bool, now time.Time) Decision {
	newDue := dates.CTDueFromYearEnd(newYearEnd)

	if t.Source == SourceManual {
		return Decision{
			NewDue:   newDue,
			Warnings: []string{"due date is manually overridden; reset to automatic tracking to recompute"},
		}
	}

	if t.DueDate != nil && companiesHouseChanged && Status(t, now) == StatusPending {
		shift := dates.DaysUntil(newDue, *t.DueDate)
		if shift > maxAutoShiftDays || shift < -maxAutoShiftDays {
			return Decision{
				NewDue: newDue,
				Warnings: []string{fmt.Sprintf(
					"recomputed due date %s moves %d days from %s while the current period is still pending; not applied automatically",
					newDue.Format(time.DateOnly), shift, t.DueDate.Format(time.DateOnly),
				)},
			}
		}
	}

	return Decision{Apply: true, NewDue: newDue}
}

// ApplyDue writes an approved recomputation onto the tracking state.
func ApplyDue(t Tracking, newYearEnd time.Time, actorID uuid.UUID, now time.Time) Tracking {
	due := dates.CTDueFromYearEnd(newYearEnd)
	end := dates.Civil(newYearEnd)
	start := dates.AddMonths(end, -12).AddDate(0, 0, 1)

	t.DueDate = &due
	t.PeriodStart = &start
	t.PeriodEnd = &end
	t.Source = SourceAuto
	t.UpdatedAt = now
	t.UpdatedBy = &actorID

	return t
}

// MarkAsFiled records the CT600 as filed, clearing any manual override and
// returning the record to automatic tracking. When the next year end is
// already known the obligation rolls straight forward: the returned state is
// pending for the next period with its due date precomputed.
func MarkAsFiled(t Tracking, actorID uuid.UUID, now time.Time, nextYearEnd *time.Time) Tracking {
	filedAt := dates.Civil(now)

	t.Status = StatusFiled
	t.FiledAt = &filedAt
	t.ManualOverride = nil
	t.Source = SourceAuto
	t.UpdatedAt = now
	t.UpdatedBy = &actorID

	if nextYearEnd == nil {
		return t
	}

	next := ApplyDue(t, *nextYearEnd, actorID, now)
	next.Status = StatusPending

	if t.PeriodEnd != nil {
		start := t.PeriodEnd.AddDate(0, 0, 1)
		next.PeriodStart = &start
	}

	return next
}

// SetManualOverride pins the due date by hand. The engine will refuse to
// recompute it until ResetToAuto.
func SetManualOverride(t Tracking, due time.Time, actorID uuid.UUID, now time.Time) Tracking {
	d := dates.Civil(due)

	t.DueDate = &d
	t.ManualOverride = &d
	t.Source = SourceManual
	t.UpdatedAt = now
	t.UpdatedBy = &actorID

	return t
}

// ResetToAuto clears a manual override and recomputes from the year end.
func ResetToAuto(t Tracking, yearEnd time.Time, actorID uuid.UUID, now time.Time) Tracking {
	t.ManualOverride = nil
	return ApplyDue(t, yearEnd, actorID, now)
}
