package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auragym/internal/domain/account"
	"auragym/internal/domain/session"
)

// SessionStoreForIssue defines the store interface needed by IssueSession.
type SessionStoreForIssue interface {
	Create(ctx context.Context, s session.Session) error
}

// SessionStoreForResolve defines the store interface needed by ResolveSession.
type SessionStoreForResolve interface {
	GetByToken(ctx context.Context, token string) (session.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionStoreForLogout defines the store interface needed by Logout.
type SessionStoreForLogout interface {
	Delete(ctx context.Context, token string) error
}

// SessionStoreForPurge defines the store interface needed by PurgeSessions.
type SessionStoreForPurge interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// IssueSessionDeps holds dependencies for IssueSession.
type IssueSessionDeps struct {
	SessionStore SessionStoreForIssue
	TTL          time.Duration    // zero means session.DefaultTTL
	Now          func() time.Time // nil means time.Now
}

// ResolveSessionDeps holds dependencies for ResolveSession.
type ResolveSessionDeps struct {
	SessionStore SessionStoreForResolve
	Now          func() time.Time
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	SessionStore SessionStoreForLogout
}

// PurgeSessionsDeps holds dependencies for PurgeSessions.
type PurgeSessionsDeps struct {
	SessionStore SessionStoreForPurge
	Now          func() time.Time
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

// ExecuteIssueSession creates a server-side session for an authenticated account.
// PRE: accountID references an existing account whose stored role is role
// POST: A session row exists with ExpiresAt = now + TTL
// INVARIANT: The session role equals the account role at issuance
func ExecuteIssueSession(ctx context.Context, accountID string, role account.Role, deps IssueSessionDeps) (session.Session, error) {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	s, err := session.New(accountID, role, clock(deps.Now), ttl)
	if err != nil {
		return session.Session{}, fmt.Errorf("generate session token: %w", err)
	}
	if err := deps.SessionStore.Create(ctx, s); err != nil {
		slog.Error("session_issue_failed", "account_id", accountID, "error", err)
		return session.Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s, nil
}

// ExecuteResolveSession maps a session token to the identity it carries.
// PRE: none; an empty token is treated as no session
// POST: Returns the identity, ErrSessionInvalid for unknown or expired tokens,
// or ErrStoreUnavailable when the store cannot be read
func ExecuteResolveSession(ctx context.Context, token string, deps ResolveSessionDeps) (session.Identity, error) {
	if token == "" {
		return session.Identity{}, ErrSessionInvalid
	}
	s, err := deps.SessionStore.GetByToken(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return session.Identity{}, ErrSessionInvalid
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if s.IsExpired(clock(deps.Now)) {
		// Expired rows are dead weight; the hourly purge catches any this misses.
		if err := deps.SessionStore.Delete(ctx, token); err != nil {
			slog.Warn("session_expired_delete_failed", "account_id", s.AccountID, "error", err)
		}
		return session.Identity{}, ErrSessionInvalid
	}
	return s.Identity(), nil
}

// ExecuteLogout destroys the session behind token. Repeated calls are harmless.
// POST: No session row exists for token
func ExecuteLogout(ctx context.Context, token string, deps LogoutDeps) error {
	if token == "" {
		return nil
	}
	if err := deps.SessionStore.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}

// ExecutePurgeSessions deletes sessions that expired before now.
// POST: Returns the number of rows removed
func ExecutePurgeSessions(ctx context.Context, deps PurgeSessionsDeps) (int64, error) {
	n, err := deps.SessionStore.DeleteExpired(ctx, clock(deps.Now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if n > 0 {
		slog.Info("sessions_purged", "count", n)
	}
	return n, nil
}
