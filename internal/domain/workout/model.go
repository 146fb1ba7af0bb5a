package workout

import (
	"errors"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 100
	MaxTypeLength  = 50
	MaxDuration    = 24 * 60 // minutes
	MaxCalories    = 20000
)

// Domain errors
var (
	ErrEmptyAccountID  = errors.New("account ID is required")
	ErrEmptyTitle      = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title cannot exceed 100 characters")
	ErrTypeTooLong     = errors.New("type cannot exceed 50 characters")
	ErrInvalidDuration = errors.New("duration must be between 0 and 1440 minutes")
	ErrInvalidCalories = errors.New("calories must be between 0 and 20000")
	ErrNotFound        = errors.New("workout not found")
)

// Workout is a single logged training session owned by a member account.
type Workout struct {
	ID              string
	AccountID       string
	Title           string
	Type            string // e.g. "cardio", "strength"
	DurationMinutes int
	Calories        int
	LoggedAt        time.Time
}

// Validate checks if the Workout has valid data.
// PRE: Workout struct is populated
// POST: Returns nil if valid, error otherwise
func (w *Workout) Validate() error {
	if w.AccountID == "" {
		return ErrEmptyAccountID
	}
	if w.Title == "" {
		return ErrEmptyTitle
	}
	if len(w.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(w.Type) > MaxTypeLength {
		return ErrTypeTooLong
	}
	if w.DurationMinutes < 0 || w.DurationMinutes > MaxDuration {
		return ErrInvalidDuration
	}
	if w.Calories < 0 || w.Calories > MaxCalories {
		return ErrInvalidCalories
	}
	return nil
}
