package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/workflow"
	"github.com/rgoodall/duebook/internal/workload"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type clientRow struct {
	id              uuid.UUID
	clientType      string
	vatEnabled      bool
	isContractor    bool
	isSubcontractor bool

	vatAssignee           *uuid.UUID
	accountsAssignee      *uuid.UUID
	contractorAssignee    *uuid.UUID
	subcontractorAssignee *uuid.UUID
}

type periodRow struct {
	stage    workflow.Stage
	assignee *uuid.UUID
}

type periodKey struct {
	clientID uuid.UUID
	line     workload.ServiceLine
}

// ListItems flattens every client's service lines into aggregation items,
// joined in Go against the open workflow period (if any) for each line.
// Contractor and sub-contractor lines carry no workflow and always count via
// the client-level assignee.
func (s *Store) ListItems(ctx context.Context) ([]workload.Item, error) {
	clients, err := s.listClients(ctx)
	if err != nil {
		return nil, err
	}

	periods, err := s.listOpenPeriods(ctx)
	if err != nil {
		return nil, err
	}

	var items []workload.Item

	for _, c := range clients {
		for _, line := range linesOf(c) {
			item := workload.Item{
				ClientID:       c.id,
				Line:           line,
				ClientAssignee: fallbackAssignee(c, line),
			}

			if p, ok := periods[periodKey{clientID: c.id, line: line}]; ok {
				item.HasWorkflow = true
				item.Stage = p.stage
				item.WorkflowAssignee = p.assignee
			}

			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Store) listClients(ctx context.Context) ([]clientRow, error) {
	query := `
		SELECT id, type, vat_enabled, is_contractor, is_subcontractor,
			vat_assignee_id, accounts_assignee_id,
			contractor_assignee_id, subcontractor_assignee_id
		FROM clients
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients for workload: %w", err)
	}
	defer rows.Close()

	var clients []clientRow

	for rows.Next() {
		var c clientRow

		if err := rows.Scan(
			&c.id, &c.clientType, &c.vatEnabled, &c.isContractor, &c.isSubcontractor,
			&c.vatAssignee, &c.accountsAssignee,
			&c.contractorAssignee, &c.subcontractorAssignee,
		); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}

	return clients, nil
}

func (s *Store) listOpenPeriods(ctx context.Context) (map[periodKey]periodRow, error) {
	query := `
		SELECT client_id, type, current_stage, assigned_user_id
		FROM workflow_periods
		WHERE is_completed = FALSE
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing open periods for workload: %w", err)
	}
	defer rows.Close()

	periods := make(map[periodKey]periodRow)

	for rows.Next() {
		var clientID uuid.UUID

		var typeStr, stageStr string

		var assignee *uuid.UUID

		if err := rows.Scan(&clientID, &typeStr, &stageStr, &assignee); err != nil {
			return nil, fmt.Errorf("scanning period row: %w", err)
		}

		// Workflow types share their names with the service lines they feed.
		periods[periodKey{clientID: clientID, line: workload.ServiceLine(typeStr)}] = periodRow{
			stage:    workflow.Stage(stageStr),
			assignee: assignee,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating period rows: %w", err)
	}

	return periods, nil
}

// linesOf lists the service lines a client is signed up for. Every client has
// an accounts line; the rest depend on registration flags.
func linesOf(c clientRow) []workload.ServiceLine {
	lines := []workload.ServiceLine{accountsLine(c)}

	if c.vatEnabled {
		lines = append(lines, workload.LineVAT)
	}

	if c.isContractor {
		lines = append(lines, workload.LineContractor)
	}

	if c.isSubcontractor {
		lines = append(lines, workload.LineSubcontractor)
	}

	return lines
}

func accountsLine(c clientRow) workload.ServiceLine {
	if c.clientType == "limited" {
		return workload.LineLtdAccounts
	}

	return workload.LineNonLtdAccounts
}

func fallbackAssignee(c clientRow, line workload.ServiceLine) *uuid.UUID {
	switch line {
	case workload.LineVAT:
		return c.vatAssignee
	case workload.LineLtdAccounts, workload.LineNonLtdAccounts:
		return c.accountsAssignee
	case workload.LineContractor:
		return c.contractorAssignee
	case workload.LineSubcontractor:
		return c.subcontractorAssignee
	}

	return nil
}
