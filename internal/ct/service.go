package ct

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ct
type Repository interface {
	Get(ctx context.Context, clientID uuid.UUID) (*Tracking, error)
	Upsert(ctx context.Context, t *Tracking) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the client's tracking record, or ErrNotFound.
func (s *Service) Get(ctx context.Context, clientID uuid.UUID) (*Tracking, error) {
	return s.repo.Get(ctx, clientID)
}

// getOrNew loads the tracking record, starting a fresh pending one for
// clients not tracked yet.
func (s *Service) getOrNew(ctx context.Context, clientID uuid.UUID) (Tracking, error) {
	t, err := s.repo.Get(ctx, clientID)
	if err == nil {
		return *t, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return Tracking{}, fmt.Errorf("getting ct tracking: %w", err)
	}

	return Tracking{ClientID: clientID, Status: StatusPending, Source: SourceAuto}, nil
}

// RefreshDue runs the recomputation policy for a new year end and persists
// the result when the policy approves it. The decision (with any warnings)
// is returned either way.
func (s *Service) RefreshDue(ctx context.Context, clientID uuid.UUID, newYearEnd time.Time, companiesHouseChanged bool, actorID uuid.UUID, now time.Time) (Decision, error) {
	t, err := s.getOrNew(ctx, clientID)
	if err != nil {
		return Decision{}, err
	}

	decision := ShouldUpdateDue(t, newYearEnd, companiesHouseChanged, now)
	if !decision.Apply {
		return decision, nil
	}

	updated := ApplyDue(t, newYearEnd, actorID, now)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return Decision{}, fmt.Errorf("saving ct tracking: %w", err)
	}

	return decision, nil
}

// MarkFiled records the CT600 as filed, optionally rolling straight on to
// the next period.
func (s *Service) MarkFiled(ctx context.Context, clientID uuid.UUID, actorID uuid.UUID, now time.Time, nextYearEnd *time.Time) (*Tracking, error) {
	t, err := s.getOrNew(ctx, clientID)
	if err != nil {
		return nil, err
	}

	updated := MarkAsFiled(t, actorID, now, nextYearEnd)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("saving ct tracking: %w", err)
	}

	return &updated, nil
}

// Override pins the due date by hand.
func (s *Service) Override(ctx context.Context, clientID uuid.UUID, due time.Time, actorID uuid.UUID, now time.Time) (*Tracking, error) {
	t, err := s.getOrNew(ctx, clientID)
	if err != nil {
		return nil, err
	}

	updated := SetManualOverride(t, due, actorID, now)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("saving ct tracking: %w", err)
	}

	return &updated, nil
}

// Reset clears a manual override and returns to automatic tracking.
func (s *Service) Reset(ctx context.Context, clientID uuid.UUID, yearEnd time.Time, actorID uuid.UUID, now time.Time) (*Tracking, error) {
	t, err := s.getOrNew(ctx, clientID)
	if err != nil {
		return nil, err
	}

	updated := ResetToAuto(t, yearEnd, actorID, now)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("saving ct tracking: %w", err)
	}

	return &updated, nil
}
