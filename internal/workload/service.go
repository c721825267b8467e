package workload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=workload
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overview returns every user's per-line counts, for the partner dashboard.
func (s *Service) Overview(ctx context.Context) (map[uuid.UUID]Summary, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workload items: %w", err)
	}

	return Aggregate(items), nil
}

// ForUser returns one staff member's counts.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) (Summary, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workload items: %w", err)
	}

	return For(items, userID), nil
}
