package projections

import (
	"context"

	domainAccount "auragym/internal/domain/account"
	domainMeal "auragym/internal/domain/meal"
	domainWorkout "auragym/internal/domain/workout"
)

// GetMemberDashboardQuery carries query parameters.
type GetMemberDashboardQuery struct {
	AccountID string
}

// GetMemberDashboardResult carries the query result.
type GetMemberDashboardResult struct {
	Account       domainAccount.Account
	Workouts      []domainWorkout.Workout
	Meals         []domainMeal.Meal
	TotalMinutes  int
	CaloriesBurnt int
	CaloriesEaten int
}

// GetMemberDashboardDeps holds dependencies for GetMemberDashboard.
type GetMemberDashboardDeps struct {
	AccountStore AccountStore
	WorkoutStore WorkoutStore
	MealStore    MealStore
}

// QueryGetMemberDashboard gathers a member's own profile and logs.
// PRE: AccountID comes from the session identity
// POST: Returns the member's workouts and meals newest first with simple totals
func QueryGetMemberDashboard(ctx context.Context, query GetMemberDashboardQuery, deps GetMemberDashboardDeps) (GetMemberDashboardResult, error) {
	acct, err := deps.AccountStore.GetByID(ctx, query.AccountID)
	if err != nil {
		return GetMemberDashboardResult{}, err
	}
	workouts, err := deps.WorkoutStore.ListByAccount(ctx, query.AccountID)
	if err != nil {
		return GetMemberDashboardResult{}, err
	}
	meals, err := deps.MealStore.ListByAccount(ctx, query.AccountID)
	if err != nil {
		return GetMemberDashboardResult{}, err
	}

	result := GetMemberDashboardResult{Account: acct, Workouts: workouts, Meals: meals}
	for _, w := range workouts {
		result.TotalMinutes += w.DurationMinutes
		result.CaloriesBurnt += w.Calories
	}
	for _, m := range meals {
		result.CaloriesEaten += m.Calories
	}
	return result, nil
}
