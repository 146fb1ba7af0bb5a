package projections

import (
	"context"

	accountstore "auragym/internal/adapters/storage/account"
	domainAccount "auragym/internal/domain/account"
	domainMeal "auragym/internal/domain/meal"
	domainWorkout "auragym/internal/domain/workout"
)

// AccountStore interface for account queries.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (domainAccount.Account, error)
	List(ctx context.Context, filter accountstore.ListFilter) ([]domainAccount.Account, error)
	Count(ctx context.Context, role domainAccount.Role) (int, error)
}

// WorkoutStore interface for workout queries.
type WorkoutStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]domainWorkout.Workout, error)
	CountByAccount(ctx context.Context) (map[string]int, error)
}

// MealStore interface for meal queries.
type MealStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]domainMeal.Meal, error)
	CountByAccount(ctx context.Context) (map[string]int, error)
}
