package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"auragym/internal/domain/account"
)

// DefaultTTL is how long an issued session stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// TokenBytes is the amount of randomness in a session token.
const TokenBytes = 32

// Domain errors
var (
	ErrNotFound = errors.New("session not found")
)

// Identity is the claim set handlers see for an authenticated request.
type Identity struct {
	AccountID string
	Role      account.Role
}

// Session is a server-side record keyed by an opaque token.
type Session struct {
	Token     string
	AccountID string
	Role      account.Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New builds a session for the given account starting at now.
// PRE: ttl > 0
// POST: Token is fresh random hex; ExpiresAt = now + ttl
func New(accountID string, role account.Role, now time.Time, ttl time.Duration) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		AccountID: accountID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// NewToken returns TokenBytes of crypto/rand encoded as hex.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsExpired reports whether the session is no longer valid at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the claims carried by this session.
func (s Session) Identity() Identity {
	return Identity{AccountID: s.AccountID, Role: s.Role}
}
