package meal

import (
	"errors"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxCalories   = 20000
)

// Domain errors
var (
	ErrEmptyAccountID  = errors.New("account ID is required")
	ErrEmptyName       = errors.New("name is required")
	ErrNameTooLong     = errors.New("name cannot exceed 100 characters")
	ErrInvalidCalories = errors.New("calories must be between 0 and 20000")
	ErrNotFound        = errors.New("meal not found")
)

// Meal is a single nutrition log entry owned by a member account.
type Meal struct {
	ID        string
	AccountID string
	Name      string
	Calories  int
	LoggedAt  time.Time
}

// Validate checks if the Meal has valid data.
// PRE: Meal struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Meal) Validate() error {
	if m.AccountID == "" {
		return ErrEmptyAccountID
	}
	if m.Name == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if m.Calories < 0 || m.Calories > MaxCalories {
		return ErrInvalidCalories
	}
	return nil
}
