package workout

import (
	"context"
	"fmt"

	"auragym/internal/adapters/storage"
	domain "auragym/internal/domain/workout"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new WorkoutStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create persists a Workout.
// PRE: value has been validated
// POST: Workout is persisted
func (s *SQLiteStore) Create(ctx context.Context, value domain.Workout) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout (id, account_id, title, type, duration_minutes, calories, logged_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		value.ID,
		value.AccountID,
		value.Title,
		value.Type,
		value.DurationMinutes,
		value.Calories,
		storage.FormatTime(value.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

// ListByAccount returns an account's workouts, newest first.
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, title, type, duration_minutes, calories, logged_at
		 FROM workout WHERE account_id = ? ORDER BY logged_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	results := []domain.Workout{}
	for rows.Next() {
		var w domain.Workout
		var loggedAt string
		if err := rows.Scan(&w.ID, &w.AccountID, &w.Title, &w.Type, &w.DurationMinutes, &w.Calories, &loggedAt); err != nil {
			return nil, err
		}
		w.LoggedAt, _ = storage.ParseTime(loggedAt)
		results = append(results, w)
	}
	return results, rows.Err()
}

// DeleteOwned removes a workout only if it belongs to accountID.
// POST: Returns domain.ErrNotFound when no such workout is owned by the account
func (s *SQLiteStore) DeleteOwned(ctx context.Context, id, accountID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM workout WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
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

// CountByAccount returns workout totals keyed by account ID.
func (s *SQLiteStore) CountByAccount(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id, COUNT(*) FROM workout GROUP BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("count workouts: %w", err)
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
