package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/dates"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=workflow
type Repository interface {
	GetPeriod(ctx context.Context, key Key) (*Period, error)
	CreatePeriod(ctx context.Context, p *Period) error
	ListPeriods(ctx context.Context, filter ListFilter) ([]*Period, error)
	UpdateAssignee(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error
	ListHistory(ctx context.Context, periodRef uuid.UUID) ([]HistoryEntry, error)

	BeginTransition(ctx context.Context) (TransitionTx, error)
}

// TransitionTx scopes a stage transition to one database transaction. The
// period is re-read under a row lock so validation always runs against the
// current stored stage, never the caller's possibly stale view.
type TransitionTx interface {
	GetPeriodForUpdate(ctx context.Context, key Key) (*Period, error)
	UpdatePeriod(ctx context.Context, p *Period) error
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams seeds a lazily created period record. The caller supplies the
// period boundaries (computed from the client's quarter group or year end).
type CreateParams struct {
	Key Key

	PeriodStart time.Time
	PeriodEnd   time.Time
	FilingDue   time.Time

	Now time.Time
}

// GetOrCreate returns the period record for the key, creating it in the
// initial stage on first access.
func (s *Service) GetOrCreate(ctx context.Context, params CreateParams) (*Period, error) {
	p, err := s.repo.GetPeriod(ctx, params.Key)
	if err == nil {
		return p, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting period: %w", err)
	}

	p = &Period{
		ClientID:       params.Key.ClientID,
		Type:           params.Key.Type,
		PeriodID:       params.Key.PeriodID,
		PeriodStart:    dates.Civil(params.PeriodStart),
		PeriodEnd:      dates.Civil(params.PeriodEnd),
		FilingDue:      dates.Civil(params.FilingDue),
		CurrentStage:   InitialStage(params.Key.Type),
		StageEnteredAt: params.Now,
	}

	if err := s.repo.CreatePeriod(ctx, p); err != nil {
		return nil, fmt.Errorf("creating period: %w", err)
	}

	return p, nil
}

// Get returns the period record for the key, or ErrNotFound.
func (s *Service) Get(ctx context.Context, key Key) (*Period, error) {
	return s.repo.GetPeriod(ctx, key)
}

// List returns period records matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Period, error) {
	return s.repo.ListPeriods(ctx, filter)
}

// Assign sets or clears the period's assignee. Assignment is independent per
// period; it never falls back to a client-level assignment here.
func (s *Service) Assign(ctx context.Context, key Key, userID *uuid.UUID) error {
	p, err := s.repo.GetPeriod(ctx, key)
	if err != nil {
		return err
	}

	return s.repo.UpdateAssignee(ctx, p.ID, userID)
}

// History returns the append-only transition log for a period.
func (s *Service) History(ctx context.Context, key Key) ([]HistoryEntry, error) {
	p, err := s.repo.GetPeriod(ctx, key)
	if err != nil {
		return nil, err
	}

	return s.repo.ListHistory(ctx, p.ID)
}

// TransitionParams is one requested stage move. ActorID and Now come from
// the caller; the engine never reads the clock or a session itself.
type TransitionParams struct {
	Key Key

	ToStage     Stage
	Notes       string
	ConfirmSkip bool

	ActorID uuid.UUID
	Now     time.Time
}

// TransitionResult carries the updated period and the graph check that
// admitted (or rejected) the move, so callers can surface skip details.
type TransitionResult struct {
	Period *Period
	Check  Check
}

// Transition applies a stage move. The stored stage is re-read under a row
// lock and re-validated, so two concurrent requests cannot both apply
// conflicting moves. Skipping transitions need ConfirmSkip; illegal
// regressions are refused outright. A same-stage request is a no-op.
func (s *Service) Transition(ctx context.Context, params TransitionParams) (*TransitionResult, error) {
	tx, err := s.repo.BeginTransition(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transition: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.GetPeriodForUpdate(ctx, params.Key)
	if err != nil {
		return nil, err
	}

	if p.IsCompleted {
		return nil, ErrCompleted
	}

	check, err := ValidateTransition(p.CurrentStage, params.ToStage, params.Key.Type)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Period: p, Check: check}

	if !check.Valid {
		if !check.IsSkipping {
			return result, fmt.Errorf("%w: %s", ErrStageNotAllowed, check.Message)
		}

		if !params.ConfirmSkip {
			return result, ErrSkipNeedsConfirm
		}
	}

	if params.ToStage == p.CurrentStage {
		// Valid no-op: nothing to record.
		return result, nil
	}

	entry := &HistoryEntry{
		PeriodRef:           p.ID,
		FromStage:           p.CurrentStage,
		ToStage:             params.ToStage,
		ActorID:             params.ActorID,
		At:                  params.Now,
		Notes:               params.Notes,
		DaysInPreviousStage: dates.DaysUntil(params.Now, p.StageEnteredAt),
	}

	p.CurrentStage = params.ToStage
	p.StageEnteredAt = params.Now
	p.Milestones.Stamp(params.ToStage, params.Now)

	// A confirmed skip still stamps nothing for the skipped stages: the
	// milestone records when a stage was actually entered.

	terminal, err := TerminalStage(params.Key.Type)
	if err != nil {
		return nil, err
	}

	if params.ToStage == terminal {
		p.IsCompleted = true
	}

	if err := tx.UpdatePeriod(ctx, p); err != nil {
		return nil, fmt.Errorf("updating period: %w", err)
	}

	if err := tx.AppendHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}

	return result, nil
}
