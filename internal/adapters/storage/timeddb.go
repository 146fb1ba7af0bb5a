package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the default threshold for slow query warnings.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB and logs queries slower than a threshold.
type TimedDB struct {
	db        *sql.DB
	logger    *slog.Logger
	threshold time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that warns on queries taking at least threshold; zero means DefaultSlowQuery
func NewTimedDB(db *sql.DB, logger *slog.Logger, threshold time.Duration) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimedDB{db: db, logger: logger, threshold: threshold}
}

func (t *TimedDB) logQuery(ctx context.Context, op, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	if elapsed >= t.threshold {
		t.logger.WarnContext(ctx, "slow_query", "op", op, "query", query, "duration_ms", elapsed.Milliseconds(), "error", err)
		return
	}
	t.logger.DebugContext(ctx, "query", "op", op, "duration_ms", float64(elapsed.Microseconds())/1000.0)
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery(ctx, "exec", query, start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery(ctx, "query", query, start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// Row errors surface at Scan, so only the round trip is timed.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery(ctx, "query_row", query, start, nil)
	return row
}
