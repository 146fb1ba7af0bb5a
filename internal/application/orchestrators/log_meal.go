package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auragym/internal/domain/meal"

	"github.com/google/uuid"
)

// MealStoreForLog defines the store interface needed by the meal log flows.
type MealStoreForLog interface {
	Create(ctx context.Context, m meal.Meal) error
	ListByAccount(ctx context.Context, accountID string) ([]meal.Meal, error)
	DeleteOwned(ctx context.Context, id, accountID string) error
}

// LogMealInput carries input for LogMeal.
type LogMealInput struct {
	AccountID string
	Name      string
	Calories  int
}

// DeleteMealInput carries input for DeleteMeal.
type DeleteMealInput struct {
	AccountID string
	MealID    string
}

// MealLogDeps holds dependencies for the meal log flows.
type MealLogDeps struct {
	MealStore MealStoreForLog
	Now       func() time.Time
}

// ExecuteLogMeal records a meal for the authenticated member.
// PRE: AccountID comes from the session identity
// POST: Returns the member's meals newest first
func ExecuteLogMeal(ctx context.Context, input LogMealInput, deps MealLogDeps) ([]meal.Meal, error) {
	m := meal.Meal{
		ID:        uuid.New().String(),
		AccountID: input.AccountID,
		Name:      strings.TrimSpace(input.Name),
		Calories:  input.Calories,
		LoggedAt:  clock(deps.Now),
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := deps.MealStore.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return listMeals(ctx, input.AccountID, deps)
}

// ExecuteDeleteMeal removes one of the member's own meals.
// POST: Returns the remaining meals, or ErrNotFound if the member does not own MealID
func ExecuteDeleteMeal(ctx context.Context, input DeleteMealInput, deps MealLogDeps) ([]meal.Meal, error) {
	err := deps.MealStore.DeleteOwned(ctx, input.MealID, input.AccountID)
	if errors.Is(err, meal.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return listMeals(ctx, input.AccountID, deps)
}

func listMeals(ctx context.Context, accountID string, deps MealLogDeps) ([]meal.Meal, error) {
	list, err := deps.MealStore.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return list, nil
}
