package meal

import (
	"context"

	domain "auragym/internal/domain/meal"
)

// Store persists Meal state.
type Store interface {
	Create(ctx context.Context, value domain.Meal) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Meal, error)
	DeleteOwned(ctx context.Context, id, accountID string) error
	CountByAccount(ctx context.Context) (map[string]int, error)
}
