package orchestrators

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auragym/internal/adapters/email"
	"auragym/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	Create(ctx context.Context, a account.Account) error
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        account.Role
	Age         int
	Gender      string
	Goal        string
	AccessCode  string // admin only
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore AccountStoreForSignup
	Sessions     IssueSessionDeps
	AdminCode    string       // empty disables admin signup
	Mailer       email.Sender // optional
	BaseURL      string       // used in the welcome email link
}

// SignupResult carries the result of a successful signup.
type SignupResult struct {
	AccountID   string
	Role        account.Role
	DisplayName string
	Token       string
	ExpiresAt   time.Time
	RedirectTo  string
}

// ExecuteSignup creates an account and logs it in.
// PRE: none; all input is validated here
// POST: Account persisted with a bcrypt hash and a session issued for it
// INVARIANT: Email is unique across both roles; enforced by the store, not by a prior lookup
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       account.NormalizeEmail(input.Email),
		DisplayName: input.DisplayName,
		Role:        input.Role,
		CreatedAt:   clock(deps.Sessions.Now),
	}
	if input.Role == account.RoleMember {
		acct.Profile = account.Profile{Age: input.Age, Gender: input.Gender, Goal: input.Goal}
	}

	if err := acct.Validate(); err != nil {
		slog.Info("auth_event", "event", "signup_rejected", "reason", "validation", "error", err)
		return SignupResult{}, err
	}
	if err := account.ValidatePassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "signup_rejected", "reason", "validation", "error", err)
		return SignupResult{}, err
	}

	if acct.Role == account.RoleAdmin && !adminCodeMatches(input.AccessCode, deps.AdminCode) {
		slog.Info("auth_event", "event", "signup_rejected", "email", acct.Email, "reason", "bad_admin_code")
		return SignupResult{}, ErrInvalidAdminCode
	}

	if err := acct.SetPassword(input.Password); err != nil {
		slog.Error("signup_hash_failed", "email", acct.Email, "error", err)
		return SignupResult{}, fmt.Errorf("%w: %v", ErrHashFailed, err)
	}

	if err := deps.AccountStore.Create(ctx, acct); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			slog.Info("auth_event", "event", "signup_rejected", "email", acct.Email, "reason", "duplicate_email")
			return SignupResult{}, ErrDuplicateEmail
		}
		slog.Error("signup_store_failed", "email", acct.Email, "error", err)
		return SignupResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)

	s, err := ExecuteIssueSession(ctx, acct.ID, acct.Role, deps.Sessions)
	if err != nil {
		return SignupResult{}, err
	}

	sendWelcome(ctx, acct, deps)

	return SignupResult{
		AccountID:   acct.ID,
		Role:        acct.Role,
		DisplayName: acct.DisplayName,
		Token:       s.Token,
		ExpiresAt:   s.ExpiresAt,
		RedirectTo:  acct.Role.DashboardPath(),
	}, nil
}

// adminCodeMatches compares in constant time. An unset configured code never matches.
func adminCodeMatches(given, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(configured)) == 1
}

// sendWelcome is best effort: failures are logged and never fail signup.
func sendWelcome(ctx context.Context, acct account.Account, deps SignupDeps) {
	if deps.Mailer == nil {
		return
	}
	req, err := email.Welcome(acct.Email, acct.DisplayName, string(acct.Role), deps.BaseURL)
	if err == nil {
		_, err = deps.Mailer.Send(ctx, req)
	}
	if err != nil {
		slog.Warn("welcome_email_failed", "account_id", acct.ID, "error", err)
	}
}
