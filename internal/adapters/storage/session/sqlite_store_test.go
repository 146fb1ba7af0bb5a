package session_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"auragym/internal/adapters/storage"
	accountstore "auragym/internal/adapters/storage/account"
	sessionstore "auragym/internal/adapters/storage/session"
	"auragym/internal/domain/account"
	domain "auragym/internal/domain/session"
)

// setupTestDB opens a migrated database with two accounts.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	accounts := accountstore.NewSQLiteStore(db)
	for _, a := range []account.Account{
		{ID: "acct-1", Email: "one@example.com", PasswordHash: "x", Role: account.RoleMember, CreatedAt: time.Now()},
		{ID: "acct-2", Email: "two@example.com", PasswordHash: "x", Role: account.RoleAdmin, CreatedAt: time.Now()},
	} {
		if err := accounts.Create(context.Background(), a); err != nil {
			t.Fatalf("seed account: %v", err)
		}
	}
	return db
}

func TestCreateAndGetByToken(t *testing.T) {
	store := sessionstore.NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := domain.New("acct-1", account.RoleMember, now, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByToken(ctx, s.Token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.AccountID != "acct-1" || got.Role != account.RoleMember {
		t.Errorf("GetByToken = %+v", got)
	}
	if !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", got.ExpiresAt)
	}
}

func TestGetByTokenMissing(t *testing.T) {
	store := sessionstore.NewSQLiteStore(setupTestDB(t))
	if _, err := store.GetByToken(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByToken = %v, want ErrNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := sessionstore.NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	s, _ := domain.New("acct-1", account.RoleMember, time.Now(), time.Hour)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.Delete(ctx, s.Token); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if _, err := store.GetByToken(ctx, s.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("after Delete, GetByToken = %v", err)
	}
}

func TestMultipleSessionsPerAccount(t *testing.T) {
	store := sessionstore.NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	a, _ := domain.New("acct-1", account.RoleMember, time.Now(), time.Hour)
	b, _ := domain.New("acct-1", account.RoleMember, time.Now(), time.Hour)
	other, _ := domain.New("acct-2", account.RoleAdmin, time.Now(), time.Hour)
	for _, s := range []domain.Session{a, b, other} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := store.Delete(ctx, a.Token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByToken(ctx, a.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("logged-out session still resolves: %v", err)
	}
	for _, tok := range []string{b.Token, other.Token} {
		if _, err := store.GetByToken(ctx, tok); err != nil {
			t.Errorf("session %s removed with another: %v", tok[:8], err)
		}
	}
}

func TestDeleteExpired(t *testing.T) {
	store := sessionstore.NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stale, _ := domain.New("acct-1", account.RoleMember, now.Add(-2*time.Hour), time.Hour)
	fresh, _ := domain.New("acct-1", account.RoleMember, now, time.Hour)
	for _, s := range []domain.Session{stale, fresh} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	n, err := store.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired removed %d, want 1", n)
	}
	if _, err := store.GetByToken(ctx, fresh.Token); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
}
