package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/ct"
	"github.com/rgoodall/duebook/internal/dates"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByCompanyNumber(ctx context.Context, number string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateDeadlines(ctx context.Context, id uuid.UUID, d Deadlines) error
	ListDeadlines(ctx context.Context) ([]Deadline, error)
}

// CTTracker is the slice of the CT service the deadline refresh needs.
type CTTracker interface {
	RefreshDue(ctx context.Context, clientID uuid.UUID, newYearEnd time.Time, companiesHouseChanged bool, actorID uuid.UUID, now time.Time) (ct.Decision, error)
}

type Service struct {
	repo Repository
	ct   CTTracker
}

func NewService(repo Repository, ct CTTracker) *Service {
	return &Service{repo: repo, ct: ct}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.List(ctx)
}

// GetByCompanyNumber finds a client by registered company number, used by the
// importer to spot rows that already exist.
func (s *Service) GetByCompanyNumber(ctx context.Context, number string) (*Client, error) {
	return s.repo.GetByCompanyNumber(ctx, number)
}

func (s *Service) Create(ctx context.Context, c *Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Deadlines lists every client's flattened statutory due dates for
// dashboards and the reminder export.
func (s *Service) Deadlines(ctx context.Context) ([]Deadline, error) {
	return s.repo.ListDeadlines(ctx)
}

// RefreshDeadlines recomputes the client's statutory dates from current
// facts and persists the cache: year end and accounts due from company
// facts, the CT due date through the tracking policy, and the current VAT
// quarter when the client is VAT-registered.
//
// Policy refusals (manual override, suspicious year-end shift) come back as
// warnings, not errors; the cache still refreshes for everything else.
func (s *Service) RefreshDeadlines(ctx context.Context, id uuid.UUID, companiesHouseChanged bool, actorID uuid.UUID, now time.Time) ([]string, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var warnings []string

	var d Deadlines

	if yearEnd := dates.CalculateYearEnd(c.Facts(), now); yearEnd != nil {
		accountsDue := dates.AccountsDueFromYearEnd(*yearEnd)

		d.YearEnd = yearEnd
		d.AccountsDue = &accountsDue

		if c.Type == TypeLimited {
			decision, err := s.ct.RefreshDue(ctx, c.ID, *yearEnd, companiesHouseChanged, actorID, now)
			if err != nil {
				return nil, fmt.Errorf("refreshing ct due date: %w", err)
			}

			warnings = append(warnings, decision.Warnings...)
		}
	} else {
		warnings = append(warnings, "year end cannot be determined: no reported year end, last accounts date, or accounting reference date")
	}

	if c.VATEnabled && c.VATQuarterGroup != nil {
		quarter, err := dates.CalculateVATQuarter(*c.VATQuarterGroup, now)
		if err != nil {
			return nil, fmt.Errorf("computing vat quarter: %w", err)
		}

		d.VATQuarterEnd = &quarter.End
		d.VATFilingDue = &quarter.FilingDue
		d.VATPeriodID = &quarter.PeriodID
	}

	d.RefreshedAt = &now

	if err := s.repo.UpdateDeadlines(ctx, c.ID, d); err != nil {
		return nil, fmt.Errorf("saving refreshed deadlines: %w", err)
	}

	return warnings, nil
}
