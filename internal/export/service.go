// Package export writes deadline-reminder CSVs for the firm's mail-merge.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/dates"
	"github.com/rgoodall/duebook/internal/deadline"
)

// DeadlineLister is the slice of the client service the export needs.
type DeadlineLister interface {
	Deadlines(ctx context.Context) ([]client.Deadline, error)
}

// Options narrow which deadlines make the reminder run.
type Options struct {
	// Horizon keeps only deadlines due within this many days of now.
	// Overdue deadlines are always included. Zero means 30 days.
	Horizon int

	// IncludeCompleted keeps deadlines whose workflow is already done;
	// off by default since completed work needs no reminder.
	IncludeCompleted bool
}

type Service struct {
	deadlines DeadlineLister
}

func NewService(deadlines DeadlineLister) *Service {
	return &Service{deadlines: deadlines}
}

var header = []string{"client", "obligation", "due_date", "days_left", "status", "assignee_id"}

// WriteCSV writes the reminder rows to w, most urgent first. The layout is
// fixed: the firm's mail-merge template maps columns by name.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, opts Options, now time.Time) (int, error) {
	items, err := s.deadlines.Deadlines(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing deadlines: %w", err)
	}

	horizon := opts.Horizon
	if horizon == 0 {
		horizon = 30
	}

	var rows []client.Deadline

	for _, d := range items {
		if d.Completed && !opts.IncludeCompleted {
			continue
		}

		if days := dates.DaysUntil(d.Due, now); days > horizon {
			continue
		}

		rows = append(rows, d)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Due.Equal(rows[j].Due) {
			return rows[i].Due.Before(rows[j].Due)
		}

		return rows[i].ClientName < rows[j].ClientName
	})

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}

	for _, d := range rows {
		assignee := ""
		if d.AssigneeID != nil {
			assignee = d.AssigneeID.String()
		}

		record := []string{
			d.ClientName,
			string(d.Obligation),
			d.Due.Format(time.DateOnly),
			strconv.Itoa(dates.DaysUntil(d.Due, now)),
			string(deadline.ClassifyWorkflow(d.Due, d.Completed, now)),
			assignee,
		}

		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing csv row for %s: %w", d.ClientName, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(rows), nil
}
