package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/ct"
	"github.com/rgoodall/duebook/internal/dates"
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

const selectClientColumns = `
	id, name, type, company_number,
	incorporation_date, accounting_ref_day, accounting_ref_month,
	last_accounts_made_up_to, ch_next_year_end,
	vat_enabled, vat_quarter_group, is_contractor, is_subcontractor,
	vat_assignee_id, accounts_assignee_id, contractor_assignee_id, subcontractor_assignee_id,
	year_end, accounts_due, vat_quarter_end, vat_filing_due, vat_period_id, deadlines_refreshed_at,
	created_at, updated_at
`

func scanClient(s scanner) (*client.Client, error) {
	var c client.Client

	var typeStr string

	var quarterGroup *string

	var refMonth int

	if err := s.Scan(
		&c.ID, &c.Name, &typeStr, &c.CompanyNumber,
		&c.IncorporationDate, &c.AccountingRefDay, &refMonth,
		&c.LastAccountsMadeUpTo, &c.CHNextYearEnd,
		&c.VATEnabled, &quarterGroup, &c.IsContractor, &c.IsSubcontractor,
		&c.Assignees.VAT, &c.Assignees.Accounts, &c.Assignees.Contractor, &c.Assignees.Subcontractor,
		&c.Deadlines.YearEnd, &c.Deadlines.AccountsDue,
		&c.Deadlines.VATQuarterEnd, &c.Deadlines.VATFilingDue, &c.Deadlines.VATPeriodID,
		&c.Deadlines.RefreshedAt,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	typ, err := client.ParseType(typeStr)
	if err != nil {
		return nil, err
	}

	c.Type = typ
	c.AccountingRefMonth = time.Month(refMonth)

	if quarterGroup != nil {
		g, err := dates.ParseQuarterGroup(*quarterGroup)
		if err != nil {
			return nil, err
		}

		c.VATQuarterGroup = &g
	}

	return &c, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) GetByCompanyNumber(ctx context.Context, number string) (*client.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE company_number = $1`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client by company number: %w", err)
	}

	return c, nil
}

func (s *Store) List(ctx context.Context) ([]*client.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	return clients, nil
}

func (s *Store) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			name, type, company_number,
			incorporation_date, accounting_ref_day, accounting_ref_month,
			last_accounts_made_up_to, ch_next_year_end,
			vat_enabled, vat_quarter_group, is_contractor, is_subcontractor,
			vat_assignee_id, accounts_assignee_id, contractor_assignee_id, subcontractor_assignee_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.Type,
		c.CompanyNumber,
		c.IncorporationDate,
		c.AccountingRefDay,
		int(c.AccountingRefMonth),
		c.LastAccountsMadeUpTo,
		c.CHNextYearEnd,
		c.VATEnabled,
		quarterGroupValue(c.VATQuarterGroup),
		c.IsContractor,
		c.IsSubcontractor,
		c.Assignees.VAT,
		c.Assignees.Accounts,
		c.Assignees.Contractor,
		c.Assignees.Subcontractor,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = $1, type = $2, company_number = $3,
			incorporation_date = $4, accounting_ref_day = $5, accounting_ref_month = $6,
			last_accounts_made_up_to = $7, ch_next_year_end = $8,
			vat_enabled = $9, vat_quarter_group = $10, is_contractor = $11, is_subcontractor = $12,
			vat_assignee_id = $13, accounts_assignee_id = $14,
			contractor_assignee_id = $15, subcontractor_assignee_id = $16,
			updated_at = NOW()
		WHERE id = $17
	`

	res, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Type,
		c.CompanyNumber,
		c.IncorporationDate,
		c.AccountingRefDay,
		int(c.AccountingRefMonth),
		c.LastAccountsMadeUpTo,
		c.CHNextYearEnd,
		c.VATEnabled,
		quarterGroupValue(c.VATQuarterGroup),
		c.IsContractor,
		c.IsSubcontractor,
		c.Assignees.VAT,
		c.Assignees.Accounts,
		c.Assignees.Contractor,
		c.Assignees.Subcontractor,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return client.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return client.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateDeadlines(ctx context.Context, id uuid.UUID, d client.Deadlines) error {
	query := `
		UPDATE clients
		SET year_end = $1, accounts_due = $2,
			vat_quarter_end = $3, vat_filing_due = $4, vat_period_id = $5,
			deadlines_refreshed_at = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		d.YearEnd,
		d.AccountsDue,
		d.VATQuarterEnd,
		d.VATFilingDue,
		d.VATPeriodID,
		d.RefreshedAt,
		id,
	)
	if err != nil {
		return fmt.Errorf("updating client deadlines: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deadline update result: %w", err)
	}

	if affected == 0 {
		return client.ErrNotFound
	}

	return nil
}

// ListDeadlines flattens each client's cached dates plus its CT tracking row
// into one deadline entry per obligation. Accounts and VAT completion comes
// from the matching workflow period; CT completion from the tracking status.
func (s *Store) ListDeadlines(ctx context.Context) ([]client.Deadline, error) {
	query := `
		SELECT c.id, c.name, c.type,
			c.accounts_due, c.vat_filing_due, c.vat_period_id,
			c.vat_assignee_id, c.accounts_assignee_id,
			t.due_date, t.status,
			acc.is_completed, vat.is_completed,
			acc.assigned_user_id, vat.assigned_user_id
		FROM clients c
		LEFT JOIN ct_tracking t ON t.client_id = c.id
		LEFT JOIN workflow_periods acc
			ON acc.client_id = c.id
			AND acc.type IN ('ltd_accounts', 'nonltd_accounts')
			AND acc.filing_due = c.accounts_due
		LEFT JOIN workflow_periods vat
			ON vat.client_id = c.id
			AND vat.type = 'vat'
			AND vat.period_id = c.vat_period_id
		ORDER BY c.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []client.Deadline

	for rows.Next() {
		var (
			id                            uuid.UUID
			name, typeStr                 string
			accountsDue, vatDue, ctDue    *time.Time
			vatPeriodID                   *string
			vatAssignee, accountsAssignee *uuid.UUID
			ctStatus                      *string
			accDone, vatDone              *bool
			accWfAssignee, vatWfAssignee  *uuid.UUID
		)

		if err := rows.Scan(
			&id, &name, &typeStr,
			&accountsDue, &vatDue, &vatPeriodID,
			&vatAssignee, &accountsAssignee,
			&ctDue, &ctStatus,
			&accDone, &vatDone,
			&accWfAssignee, &vatWfAssignee,
		); err != nil {
			return nil, fmt.Errorf("scanning deadline row: %w", err)
		}

		if accountsDue != nil {
			deadlines = append(deadlines, client.Deadline{
				ClientID:   id,
				ClientName: name,
				Obligation: client.ObligationAccounts,
				Due:        *accountsDue,
				AssigneeID: coalesce(accWfAssignee, accountsAssignee),
				Completed:  accDone != nil && *accDone,
			})
		}

		if ctDue != nil && typeStr == string(client.TypeLimited) {
			deadlines = append(deadlines, client.Deadline{
				ClientID:   id,
				ClientName: name,
				Obligation: client.ObligationCT600,
				Due:        *ctDue,
				AssigneeID: accountsAssignee,
				Completed:  ctStatus != nil && *ctStatus == string(ct.StatusFiled),
			})
		}

		if vatDue != nil {
			deadlines = append(deadlines, client.Deadline{
				ClientID:   id,
				ClientName: name,
				Obligation: client.ObligationVATReturn,
				Due:        *vatDue,
				AssigneeID: coalesce(vatWfAssignee, vatAssignee),
				Completed:  vatDone != nil && *vatDone,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deadline rows: %w", err)
	}

	return deadlines, nil
}

func quarterGroupValue(g *dates.QuarterGroup) *string {
	if g == nil {
		return nil
	}

	return new(string(*g))
}

func coalesce(primary, fallback *uuid.UUID) *uuid.UUID {
	if primary != nil {
		return primary
	}

	return fallback
}
