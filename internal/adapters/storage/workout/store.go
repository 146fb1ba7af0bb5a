package workout

import (
	"context"

	domain "auragym/internal/domain/workout"
)

// Store persists Workout state.
type Store interface {
	Create(ctx context.Context, value domain.Workout) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Workout, error)
	DeleteOwned(ctx context.Context, id, accountID string) error
	CountByAccount(ctx context.Context) (map[string]int, error)
}
