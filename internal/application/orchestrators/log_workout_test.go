package orchestrators

import (
	"context"
	"errors"
	"testing"
)

func TestWorkoutLog(t *testing.T) {
	ctx := context.Background()
	deps := WorkoutLogDeps{WorkoutStore: &mockWorkoutStore{}}

	list, err := ExecuteLogWorkout(ctx, LogWorkoutInput{AccountID: "m1", Title: " Run ", Type: "cardio", DurationMinutes: 30, Calories: 300}, deps)
	if err != nil {
		t.Fatalf("ExecuteLogWorkout: %v", err)
	}
	list, err = ExecuteLogWorkout(ctx, LogWorkoutInput{AccountID: "m1", Title: "Lift", DurationMinutes: 45}, deps)
	if err != nil {
		t.Fatalf("ExecuteLogWorkout: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Lift" || list[1].Title != "Run" {
		t.Fatalf("list = %+v, want newest first with trimmed titles", list)
	}

	if _, err := ExecuteLogWorkout(ctx, LogWorkoutInput{AccountID: "m1"}, deps); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("empty title err = %v, want ErrValidationFailed", err)
	}

	if _, err := ExecuteDeleteWorkout(ctx, DeleteWorkoutInput{AccountID: "m2", WorkoutID: list[0].ID}, deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign delete err = %v, want ErrNotFound", err)
	}
	remaining, err := ExecuteDeleteWorkout(ctx, DeleteWorkoutInput{AccountID: "m1", WorkoutID: list[0].ID}, deps)
	if err != nil {
		t.Fatalf("ExecuteDeleteWorkout: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "Run" {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestMealLog(t *testing.T) {
	ctx := context.Background()
	deps := MealLogDeps{MealStore: &mockMealStore{}}

	list, err := ExecuteLogMeal(ctx, LogMealInput{AccountID: "m1", Name: "Oats", Calories: 350}, deps)
	if err != nil {
		t.Fatalf("ExecuteLogMeal: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if _, err := ExecuteLogMeal(ctx, LogMealInput{AccountID: "m1", Name: "Feast", Calories: -1}, deps); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("negative calories err = %v", err)
	}
	if _, err := ExecuteDeleteMeal(ctx, DeleteMealInput{AccountID: "m1", MealID: "missing"}, deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing delete err = %v", err)
	}
	remaining, err := ExecuteDeleteMeal(ctx, DeleteMealInput{AccountID: "m1", MealID: list[0].ID}, deps)
	if err != nil {
		t.Fatalf("ExecuteDeleteMeal: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = %+v", remaining)
	}
}
