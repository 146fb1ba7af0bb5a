package account

import (
	"context"

	domain "auragym/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	Create(ctx context.Context, value domain.Account) error
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context, role domain.Role) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Role   domain.Role
}
