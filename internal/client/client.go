// Package client holds the practice's client records: company facts from
// Companies House, service-line registration, fallback assignees, and the
// cached statutory deadlines computed from them.
package client

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/dates"
)

var (
	ErrNotFound = errors.New("client not found")
	ErrInvalid  = errors.New("invalid client")
)

// Type is the legal form of the client, which decides the accounts line.
type Type string

const (
	TypeLimited     Type = "limited"
	TypeSoleTrader  Type = "sole_trader"
	TypePartnership Type = "partnership"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeLimited, TypeSoleTrader, TypePartnership:
		return Type(s), nil
	}

	return "", errors.New("unknown client type: " + s)
}

// Assignees are the client-level fallback assignments per service line, used
// for workload counting until a workflow period carries its own assignee.
type Assignees struct {
	VAT           *uuid.UUID `json:"vat"`
	Accounts      *uuid.UUID `json:"accounts"`
	Contractor    *uuid.UUID `json:"contractor"`
	Subcontractor *uuid.UUID `json:"subcontractor"`
}

// Deadlines are the cached computed due dates, refreshed by
// Service.RefreshDeadlines. They exist for listing and export; the engine
// recomputes from facts, never from these.
type Deadlines struct {
	YearEnd     *time.Time `json:"year_end"`
	AccountsDue *time.Time `json:"accounts_due"`

	VATQuarterEnd *time.Time `json:"vat_quarter_end"`
	VATFilingDue  *time.Time `json:"vat_filing_due"`
	VATPeriodID   *string    `json:"vat_period_id"`

	RefreshedAt *time.Time `json:"refreshed_at"`
}

type Client struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type Type      `json:"type"`

	CompanyNumber *string `json:"company_number"`

	IncorporationDate    *time.Time `json:"incorporation_date"`
	AccountingRefDay     int        `json:"accounting_ref_day"`
	AccountingRefMonth   time.Month `json:"accounting_ref_month"`
	LastAccountsMadeUpTo *time.Time `json:"last_accounts_made_up_to"`

	// CHNextYearEnd is the next accounts-made-up-to date as reported by
	// Companies House, when known. It outranks every derived value.
	CHNextYearEnd *time.Time `json:"ch_next_year_end"`

	VATEnabled      bool                `json:"vat_enabled"`
	VATQuarterGroup *dates.QuarterGroup `json:"vat_quarter_group"`

	IsContractor    bool `json:"is_contractor"`
	IsSubcontractor bool `json:"is_subcontractor"`

	Assignees Assignees `json:"assignees"`
	Deadlines Deadlines `json:"deadlines"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Facts maps the record onto the date engine's input shape.
func (c *Client) Facts() dates.CompanyFacts {
	return dates.CompanyFacts{
		IncorporationDate:    c.IncorporationDate,
		LastAccountsMadeUpTo: c.LastAccountsMadeUpTo,
		AccountingRefDay:     c.AccountingRefDay,
		AccountingRefMonth:   c.AccountingRefMonth,
		NextYearEnd:          c.CHNextYearEnd,
	}
}

// Validate checks the fields the deadline engine depends on. A record can be
// incomplete (no ARD yet), but what is present must be well-formed.
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.Join(ErrInvalid, errors.New("name is required"))
	}

	if _, err := ParseType(string(c.Type)); err != nil {
		return errors.Join(ErrInvalid, err)
	}

	if c.AccountingRefDay != 0 || c.AccountingRefMonth != 0 {
		if c.AccountingRefDay < 1 || c.AccountingRefDay > 31 {
			return errors.Join(ErrInvalid, errors.New("accounting reference day must be 1-31"))
		}

		if c.AccountingRefMonth < time.January || c.AccountingRefMonth > time.December {
			return errors.Join(ErrInvalid, errors.New("accounting reference month must be 1-12"))
		}
	}

	if c.VATEnabled {
		if c.VATQuarterGroup == nil {
			return errors.Join(ErrInvalid, errors.New("vat-enabled client needs a quarter group"))
		}

		if _, err := dates.ParseQuarterGroup(string(*c.VATQuarterGroup)); err != nil {
			return errors.Join(ErrInvalid, err)
		}
	}

	return nil
}

// Obligation names a statutory filing for deadline listings and exports.
type Obligation string

const (
	ObligationAccounts  Obligation = "accounts"
	ObligationCT600     Obligation = "ct600"
	ObligationVATReturn Obligation = "vat_return"
)

// Deadline is one client's upcoming (or missed) statutory due date, flattened
// for dashboards and the reminder export.
type Deadline struct {
	ClientID   uuid.UUID  `json:"client_id"`
	ClientName string     `json:"client_name"`
	Obligation Obligation `json:"obligation"`
	Due        time.Time  `json:"due"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
	Completed  bool       `json:"completed"`
}
