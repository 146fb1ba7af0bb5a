package meal

import (
	"context"
	"fmt"

	"auragym/internal/adapters/storage"
	domain "auragym/internal/domain/meal"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MealStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create persists a Meal.
// PRE: value has been validated
func (s *SQLiteStore) Create(ctx context.Context, value domain.Meal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meal (id, account_id, name, calories, logged_at) VALUES (?, ?, ?, ?, ?)`,
		value.ID, value.AccountID, value.Name, value.Calories, storage.FormatTime(value.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

// ListByAccount returns an account's meals, newest first.
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, name, calories, logged_at FROM meal WHERE account_id = ? ORDER BY logged_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	results := []domain.Meal{}
	for rows.Next() {
		var m domain.Meal
		var loggedAt string
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Name, &m.Calories, &loggedAt); err != nil {
			return nil, err
		}
		m.LoggedAt, _ = storage.ParseTime(loggedAt)
		results = append(results, m)
	}
	return results, rows.Err()
}

// DeleteOwned removes a meal only if it belongs to accountID.
// POST: Returns domain.ErrNotFound when no such meal is owned by the account
func (s *SQLiteStore) DeleteOwned(ctx context.Context, id, accountID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM meal WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByAccount returns meal totals keyed by account ID.
func (s *SQLiteStore) CountByAccount(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id, COUNT(*) FROM meal GROUP BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("count meals: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
