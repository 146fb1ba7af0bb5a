package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auragym/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email       string
	Password    string
	ClaimedRole account.Role // empty means member
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID   string
	Role        account.Role
	DisplayName string
	Token       string
	ExpiresAt   time.Time
	RedirectTo  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Sessions     IssueSessionDeps
}

// ExecuteLogin verifies credentials for the claimed role and issues a session.
// PRE: none
// POST: On success a session exists for the account; every failure is ErrInvalidCredentials
// unless the store itself failed
// INVARIANT: A session is only issued for the role the account was created with
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := account.NormalizeEmail(input.Email)
	claimed := input.ClaimedRole
	if claimed == "" {
		claimed = account.RoleMember
	}

	if email == "" || input.Password == "" {
		slog.Info("auth_event", "event", "login_failed", "reason", "missing_fields")
		return LoginResult{}, ErrInvalidCredentials
	}
	if !claimed.Valid() {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "unknown_role")
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		account.VerifyAgainstPad(input.Password)
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		slog.Error("login_store_failed", "email", email, "error", err)
		return LoginResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.Role != claimed {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "role_mismatch", "claimed", claimed)
		return LoginResult{}, ErrInvalidCredentials
	}

	s, err := ExecuteIssueSession(ctx, acct.ID, acct.Role, deps.Sessions)
	if err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", acct.Role)

	return LoginResult{
		AccountID:   acct.ID,
		Role:        acct.Role,
		DisplayName: acct.DisplayName,
		Token:       s.Token,
		ExpiresAt:   s.ExpiresAt,
		RedirectTo:  acct.Role.DashboardPath(),
	}, nil
}
