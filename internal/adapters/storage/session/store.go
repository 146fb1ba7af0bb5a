package session

import (
	"context"
	"time"

	domain "auragym/internal/domain/session"
)

// Store persists server-side sessions.
type Store interface {
	Create(ctx context.Context, value domain.Session) error
	GetByToken(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
