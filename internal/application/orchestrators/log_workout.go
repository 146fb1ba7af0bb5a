package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auragym/internal/domain/workout"

	"github.com/google/uuid"
)

// WorkoutStoreForLog defines the store interface needed by the workout log flows.
type WorkoutStoreForLog interface {
	Create(ctx context.Context, w workout.Workout) error
	ListByAccount(ctx context.Context, accountID string) ([]workout.Workout, error)
	DeleteOwned(ctx context.Context, id, accountID string) error
}

// LogWorkoutInput carries input for LogWorkout.
type LogWorkoutInput struct {
	AccountID       string
	Title           string
	Type            string
	DurationMinutes int
	Calories        int
}

// DeleteWorkoutInput carries input for DeleteWorkout.
type DeleteWorkoutInput struct {
	AccountID string
	WorkoutID string
}

// WorkoutLogDeps holds dependencies for the workout log flows.
type WorkoutLogDeps struct {
	WorkoutStore WorkoutStoreForLog
	Now          func() time.Time
}

// ExecuteLogWorkout records a workout for the authenticated member.
// PRE: AccountID comes from the session identity, never from the request body
// POST: Returns the member's workouts newest first, including the new one
func ExecuteLogWorkout(ctx context.Context, input LogWorkoutInput, deps WorkoutLogDeps) ([]workout.Workout, error) {
	w := workout.Workout{
		ID:              uuid.New().String(),
		AccountID:       input.AccountID,
		Title:           strings.TrimSpace(input.Title),
		Type:            strings.TrimSpace(input.Type),
		DurationMinutes: input.DurationMinutes,
		Calories:        input.Calories,
		LoggedAt:        clock(deps.Now),
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := deps.WorkoutStore.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return listWorkouts(ctx, input.AccountID, deps)
}

// ExecuteDeleteWorkout removes one of the member's own workouts.
// POST: Returns the remaining workouts, or ErrNotFound if the member does not own WorkoutID
func ExecuteDeleteWorkout(ctx context.Context, input DeleteWorkoutInput, deps WorkoutLogDeps) ([]workout.Workout, error) {
	err := deps.WorkoutStore.DeleteOwned(ctx, input.WorkoutID, input.AccountID)
	if errors.Is(err, workout.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return listWorkouts(ctx, input.AccountID, deps)
}

func listWorkouts(ctx context.Context, accountID string, deps WorkoutLogDeps) ([]workout.Workout, error) {
	list, err := deps.WorkoutStore.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return list, nil
}
