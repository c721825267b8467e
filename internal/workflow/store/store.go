package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/workflow"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectPeriodColumns = `
	id, client_id, type, period_id, period_start, period_end, filing_due,
	current_stage, stage_entered_at, is_completed, assigned_user_id,
	chase_started_at, paperwork_received_at, work_started_at,
	manager_review_at, partner_review_at, sent_to_client_at,
	client_approved_at, filed_at, created_at, updated_at
`

// scanPeriod reads a workflow period row in selectPeriodColumns order.
func scanPeriod(s scanner) (*workflow.Period, error) {
	var p workflow.Period

	var typeStr, stageStr string

	if err := s.Scan(
		&p.ID, &p.ClientID, &typeStr, &p.PeriodID,
		&p.PeriodStart, &p.PeriodEnd, &p.FilingDue,
		&stageStr, &p.StageEnteredAt, &p.IsCompleted, &p.AssignedUserID,
		&p.Milestones.ChaseStartedAt, &p.Milestones.PaperworkReceivedAt, &p.Milestones.WorkStartedAt,
		&p.Milestones.ManagerReviewAt, &p.Milestones.PartnerReviewAt, &p.Milestones.SentToClientAt,
		&p.Milestones.ClientApprovedAt, &p.Milestones.FiledAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	typ, err := workflow.ParseType(typeStr)
	if err != nil {
		return nil, err
	}

	p.Type = typ
	p.CurrentStage = workflow.Stage(stageStr)

	return &p, nil
}

func (s *Store) GetPeriod(ctx context.Context, key workflow.Key) (*workflow.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM workflow_periods
		WHERE client_id = $1 AND type = $2 AND period_id = $3`

	p, err := scanPeriod(s.db.QueryRowContext(ctx, query, key.ClientID, key.Type, key.PeriodID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, workflow.ErrNotFound
		}

		return nil, fmt.Errorf("getting workflow period: %w", err)
	}

	return p, nil
}

func (s *Store) CreatePeriod(ctx context.Context, p *workflow.Period) error {
	query := `
		INSERT INTO workflow_periods (
			client_id, type, period_id, period_start, period_end, filing_due,
			current_stage, stage_entered_at, is_completed, assigned_user_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.ClientID,
		p.Type,
		p.PeriodID,
		p.PeriodStart,
		p.PeriodEnd,
		p.FilingDue,
		p.CurrentStage,
		p.StageEnteredAt,
		p.IsCompleted,
		p.AssignedUserID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating workflow period: %w", err)
	}

	return nil
}

func (s *Store) ListPeriods(ctx context.Context, filter workflow.ListFilter) ([]*workflow.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM workflow_periods
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.AssignedUserID != nil {
		query += fmt.Sprintf(" AND assigned_user_id = $%d", argIdx)

		args = append(args, *filter.AssignedUserID)
		argIdx++
	}

	if filter.Completed != nil {
		query += fmt.Sprintf(" AND is_completed = $%d", argIdx)

		args = append(args, *filter.Completed)
		argIdx++
	}

	query += " ORDER BY filing_due ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing workflow periods: %w", err)
	}
	defer rows.Close()

	var periods []*workflow.Period

	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workflow period: %w", err)
		}

		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workflow periods: %w", err)
	}

	return periods, nil
}

func (s *Store) UpdateAssignee(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	query := `
		UPDATE workflow_periods
		SET assigned_user_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := s.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("updating assignee: %w", err)
	}

	return nil
}

func (s *Store) ListHistory(ctx context.Context, periodRef uuid.UUID) ([]workflow.HistoryEntry, error) {
	query := `
		SELECT id, period_ref, from_stage, to_stage, actor_id, at, notes, days_in_previous_stage
		FROM workflow_history
		WHERE period_ref = $1
		ORDER BY at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, periodRef)
	if err != nil {
		return nil, fmt.Errorf("listing workflow history: %w", err)
	}
	defer rows.Close()

	var entries []workflow.HistoryEntry

	for rows.Next() {
		var e workflow.HistoryEntry

		var fromStr, toStr string

		if err := rows.Scan(&e.ID, &e.PeriodRef, &fromStr, &toStr, &e.ActorID, &e.At, &e.Notes, &e.DaysInPreviousStage); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}

		e.FromStage = workflow.Stage(fromStr)
		e.ToStage = workflow.Stage(toStr)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history entries: %w", err)
	}

	return entries, nil
}

type transitionTx struct {
	tx *sql.Tx
}

// BeginTransition opens the transaction a stage move runs in. The period row
// is locked with SELECT ... FOR UPDATE so concurrent transitions against the
// same period serialize and each one validates against the committed stage.
func (s *Store) BeginTransition(ctx context.Context) (workflow.TransitionTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transition tx: %w", err)
	}

	return &transitionTx{tx: tx}, nil
}

func (t *transitionTx) Commit() error   { return t.tx.Commit() }
func (t *transitionTx) Rollback() error { return t.tx.Rollback() }

func (t *transitionTx) GetPeriodForUpdate(ctx context.Context, key workflow.Key) (*workflow.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM workflow_periods
		WHERE client_id = $1 AND type = $2 AND period_id = $3
		FOR UPDATE`

	p, err := scanPeriod(t.tx.QueryRowContext(ctx, query, key.ClientID, key.Type, key.PeriodID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, workflow.ErrNotFound
		}

		return nil, fmt.Errorf("locking workflow period: %w", err)
	}

	return p, nil
}

func (t *transitionTx) UpdatePeriod(ctx context.Context, p *workflow.Period) error {
	query := `
		UPDATE workflow_periods
		SET current_stage = $1, stage_entered_at = $2, is_completed = $3,
			chase_started_at = $4, paperwork_received_at = $5, work_started_at = $6,
			manager_review_at = $7, partner_review_at = $8, sent_to_client_at = $9,
			client_approved_at = $10, filed_at = $11, updated_at = NOW()
		WHERE id = $12
	`

	_, err := t.tx.ExecContext(ctx, query,
		p.CurrentStage,
		p.StageEnteredAt,
		p.IsCompleted,
		p.Milestones.ChaseStartedAt,
		p.Milestones.PaperworkReceivedAt,
		p.Milestones.WorkStartedAt,
		p.Milestones.ManagerReviewAt,
		p.Milestones.PartnerReviewAt,
		p.Milestones.SentToClientAt,
		p.Milestones.ClientApprovedAt,
		p.Milestones.FiledAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating workflow period: %w", err)
	}

	return nil
}

func (t *transitionTx) AppendHistory(ctx context.Context, entry *workflow.HistoryEntry) error {
	query := `
		INSERT INTO workflow_history (period_ref, from_stage, to_stage, actor_id, at, notes, days_in_previous_stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := t.tx.QueryRowContext(ctx, query,
		entry.PeriodRef,
		entry.FromStage,
		entry.ToStage,
		entry.ActorID,
		entry.At,
		entry.Notes,
		entry.DaysInPreviousStage,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("appending workflow history: %w", err)
	}

	return nil
}
