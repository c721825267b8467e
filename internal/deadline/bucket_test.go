package deadline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rgoodall/duebook/internal/deadline"
)

var now = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func daysFromNow(d int) time.Time {
	return now.AddDate(0, 0, d)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want deadline.Bucket
	}{
		{"Overdue", daysFromNow(-1), deadline.BucketOverdue},
		{"DueToday", daysFromNow(0), deadline.BucketDueSoon},
		{"DueSoonEdge", daysFromNow(7), deadline.BucketDueSoon},
		{"Upcoming", daysFromNow(8), deadline.BucketUpcoming},
		{"UpcomingEdge", daysFromNow(30), deadline.BucketUpcoming},
		{"BeyondWindow", daysFromNow(31), deadline.BucketNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deadline.Classify(tt.due, now))
		})
	}
}

func TestClassify_Partition(t *testing.T) {
	// Every offset lands in exactly one bucket.
	for d := -100; d <= 100; d++ {
		got := deadline.Classify(daysFromNow(d), now)
		assert.Contains(t, []deadline.Bucket{
			deadline.BucketOverdue,
			deadline.BucketDueSoon,
			deadline.BucketUpcoming,
			deadline.BucketNone,
		}, got)
	}
}

func TestClassifyWorkflow(t *testing.T) {
	assert.Equal(t, deadline.BucketCompleted, deadline.ClassifyWorkflow(daysFromNow(-200), true, now),
		"completed wins even when long overdue")
	assert.Equal(t, deadline.BucketOverdue, deadline.ClassifyWorkflow(daysFromNow(-1), false, now))
}

func TestClassifyWindow(t *testing.T) {
	tests := []struct {
		days int
		want deadline.Window
	}{
		{-1, deadline.WindowNone},
		{0, deadline.Window7},
		{7, deadline.Window7},
		{8, deadline.Window15},
		{15, deadline.Window15},
		{16, deadline.Window30},
		{30, deadline.Window30},
		{31, deadline.Window60},
		{60, deadline.Window60},
		{61, deadline.Window90},
		{90, deadline.Window90},
		{91, deadline.WindowNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, deadline.ClassifyWindow(daysFromNow(tt.days), now), "offset %d", tt.days)
	}
}

func TestBreakdown(t *testing.T) {
	dues := []time.Time{
		daysFromNow(-3),  // excluded
		daysFromNow(2),   // 7
		daysFromNow(7),   // 7
		daysFromNow(12),  // 15
		daysFromNow(45),  // 60
		daysFromNow(89),  // 90
		daysFromNow(120), // excluded
	}

	counts := deadline.Breakdown(dues, now)

	assert.Equal(t, 2, counts[deadline.Window7])
	assert.Equal(t, 1, counts[deadline.Window15])
	assert.Equal(t, 0, counts[deadline.Window30])
	assert.Equal(t, 1, counts[deadline.Window60])
	assert.Equal(t, 1, counts[deadline.Window90])

	total := 0
	for _, c := range counts {
		total += c
	}

	assert.Equal(t, 5, total, "each date counted at most once")
}
