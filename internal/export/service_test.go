package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/export"
)

var now = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

type stubLister struct {
	deadlines []client.Deadline
	err       error
}

func (s *stubLister) Deadlines(context.Context) ([]client.Deadline, error) {
	return s.deadlines, s.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWriteCSV(t *testing.T) {
	assignee := uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff")

	lister := &stubLister{deadlines: []client.Deadline{
		{
			ClientName: "Hollow Oak Farms Limited",
			Obligation: client.ObligationVATReturn,
			Due:        date(2025, time.June, 30),
			AssigneeID: &assignee,
		},
		{
			ClientName: "Brightwell Joinery Ltd",
			Obligation: client.ObligationAccounts,
			Due:        date(2025, time.June, 10),
		},
		// Outside the 30-day horizon.
		{
			ClientName: "Mott & Webb Partnership",
			Obligation: client.ObligationAccounts,
			Due:        date(2025, time.December, 31),
		},
		// Completed work needs no reminder.
		{
			ClientName: "D Okafor",
			Obligation: client.ObligationVATReturn,
			Due:        date(2025, time.June, 20),
			Completed:  true,
		},
	}}

	svc := export.NewService(lister)

	var buf bytes.Buffer

	n, err := svc.WriteCSV(context.Background(), &buf, export.Options{}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"client", "obligation", "due_date", "days_left", "status", "assignee_id"}, records[0])

	// Most urgent first: the overdue accounts job leads.
	assert.Equal(t, "Brightwell Joinery Ltd", records[1][0])
	assert.Equal(t, "accounts", records[1][1])
	assert.Equal(t, "2025-06-10", records[1][2])
	assert.Equal(t, "-5", records[1][3])
	assert.Equal(t, "overdue", records[1][4])
	assert.Empty(t, records[1][5])

	assert.Equal(t, "Hollow Oak Farms Limited", records[2][0])
	assert.Equal(t, "15", records[2][3])
	assert.Equal(t, "upcoming", records[2][4])
	assert.Equal(t, assignee.String(), records[2][5])
}

func TestWriteCSV_IncludeCompleted(t *testing.T) {
	lister := &stubLister{deadlines: []client.Deadline{
		{
			ClientName: "D Okafor",
			Obligation: client.ObligationVATReturn,
			Due:        date(2025, time.June, 20),
			Completed:  true,
		},
	}}

	svc := export.NewService(lister)

	var buf bytes.Buffer

	n, err := svc.WriteCSV(context.Background(), &buf, export.Options{IncludeCompleted: true}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "completed", records[1][4])
}

func TestWriteCSV_ListerError(t *testing.T) {
	svc := export.NewService(&stubLister{err: errors.New("connection reset")})

	var buf bytes.Buffer

	_, err := svc.WriteCSV(context.Background(), &buf, export.Options{}, now)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
