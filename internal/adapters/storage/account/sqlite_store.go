package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"auragym/internal/adapters/storage"
	domain "auragym/internal/domain/account"
)

const selectColumns = "SELECT id, email, display_name, password_hash, role, age, gender, goal, created_at FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a new Account. There is no update path: role and email are immutable.
// PRE: entity has been validated, Email normalized
// POST: Entity is persisted, or domain.ErrEmailTaken if the email already exists
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, display_name, password_hash, role, age, gender, goal, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.Email,
		entity.DisplayName,
		entity.PasswordHash,
		string(entity.Role),
		entity.Profile.Age,
		entity.Profile.Gender,
		entity.Profile.Goal,
		storage.FormatTime(entity.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("create account %s: %w", entity.Email, domain.ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email. Matching ignores case.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ?", email)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	return entity, err
}

// List retrieves Accounts based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(selectColumns)

	if filter.Role != "" {
		queryBuilder.WriteString(" WHERE role = ?")
		args = append(args, string(filter.Role))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC, id LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of accounts with the given role, or all accounts when role is empty.
// PRE: none
// POST: Returns account count
func (s *SQLiteStore) Count(ctx context.Context, role domain.Role) (int, error) {
	query := "SELECT COUNT(*) FROM account"
	var args []interface{}
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, string(role))
	}
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...interface{}) error) (domain.Account, error) {
	var entity domain.Account
	var role, createdAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.DisplayName,
		&entity.PasswordHash,
		&role,
		&entity.Profile.Age,
		&entity.Profile.Gender,
		&entity.Profile.Goal,
		&createdAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.Role = domain.Role(role)
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
