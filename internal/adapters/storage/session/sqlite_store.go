package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auragym/internal/adapters/storage"
	"auragym/internal/domain/account"
	domain "auragym/internal/domain/session"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SessionStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create persists a freshly issued session.
// PRE: value.Token is unique random hex, value.AccountID references an account
// POST: Session row exists until deleted or purged
func (s *SQLiteStore) Create(ctx context.Context, value domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (token, account_id, role, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		value.Token,
		value.AccountID,
		string(value.Role),
		storage.FormatTime(value.CreatedAt),
		storage.FormatTime(value.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByToken returns the session for token. Expired rows are still returned;
// the caller decides validity against its clock.
// POST: Returns the session or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	var value domain.Session
	var role, createdAt, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, account_id, role, created_at, expires_at FROM session WHERE token = ?`,
		token,
	).Scan(&value.Token, &value.AccountID, &role, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	value.Role = account.Role(role)
	value.CreatedAt, _ = storage.ParseTime(createdAt)
	value.ExpiresAt, err = storage.ParseTime(expiresAt)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session expiry: %w", err)
	}
	return value, nil
}

// Delete removes one session. Deleting a missing token is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions whose expiry is at or before now and reports how many went.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, storage.FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
