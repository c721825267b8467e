// Package deadline classifies due dates into urgency buckets for dashboards
// and workload views.
package deadline

import (
	"time"

	"github.com/rgoodall/duebook/internal/dates"
)

// Bucket is the dashboard urgency classification of a due date.
type Bucket string

const (
	BucketOverdue   Bucket = "overdue"
	BucketDueSoon   Bucket = "due_soon"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
	BucketNone      Bucket = "none"
)

const (
	dueSoonDays  = 7
	upcomingDays = 30
)

// Classify places a due date into exactly one of overdue / due_soon /
// upcoming / none. Due today counts as due_soon, not overdue.
func Classify(due, now time.Time) Bucket {
	switch days := dates.DaysUntil(due, now); {
	case days < 0:
		return BucketOverdue
	case days <= dueSoonDays:
		return BucketDueSoon
	case days <= upcomingDays:
		return BucketUpcoming
	default:
		return BucketNone
	}
}

// ClassifyWorkflow is Classify with completion awareness: a filed obligation
// is completed regardless of where its due date sits relative to now.
func ClassifyWorkflow(due time.Time, completed bool, now time.Time) Bucket {
	if completed {
		return BucketCompleted
	}

	return Classify(due, now)
}

// Window is a five-tier deadline window in days, used by the
// deadline-breakdown widgets. WindowNone covers overdue dates and anything
// beyond 90 days.
type Window int

const (
	WindowNone Window = 0
	Window7    Window = 7
	Window15   Window = 15
	Window30   Window = 30
	Window60   Window = 60
	Window90   Window = 90
)

var windows = []Window{Window7, Window15, Window30, Window60, Window90}

// ClassifyWindow places a due date into exactly one window, evaluated in
// ascending order so each date lands in the first window that contains it.
func ClassifyWindow(due, now time.Time) Window {
	days := dates.DaysUntil(due, now)
	if days < 0 {
		return WindowNone
	}

	for _, w := range windows {
		if days <= int(w) {
			return w
		}
	}

	return WindowNone
}

// Breakdown counts due dates per window, skipping WindowNone entries.
func Breakdown(dues []time.Time, now time.Time) map[Window]int {
	counts := make(map[Window]int, len(windows))

	for _, due := range dues {
		if w := ClassifyWindow(due, now); w != WindowNone {
			counts[w]++
		}
	}

	return counts
}
