package orchestrators

import (
	"context"
	"errors"
	"sync"
	"time"

	"auragym/internal/adapters/email"
	"auragym/internal/domain/account"
	"auragym/internal/domain/meal"
	"auragym/internal/domain/session"
	"auragym/internal/domain/workout"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	account.HashCost = bcrypt.MinCost
}

var errBoom = errors.New("boom")

type mockAccountStore struct {
	mu        sync.Mutex
	byEmail   map[string]account.Account
	createErr error
	getErr    error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{byEmail: make(map[string]account.Account)}
}

// Create stores the account unless its email is already present.
// PRE: a.Email is normalized
// POST: Returns account.ErrEmailTaken on duplicates
func (m *mockAccountStore) Create(_ context.Context, a account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[a.Email]; ok {
		return account.ErrEmailTaken
	}
	m.byEmail[a.Email] = a
	return nil
}

// GetByEmail returns the seeded account.
func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return account.Account{}, m.getErr
	}
	a, ok := m.byEmail[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

type mockSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]session.Session
	createErr error
	getErr    error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]session.Session)}
}

func (m *mockSessionStore) Create(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionStore) GetByToken(_ context.Context, token string) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return session.Session{}, m.getErr
	}
	s, ok := m.sessions[token]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for tok, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, tok)
			n++
		}
	}
	return n, nil
}

func (m *mockSessionStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type mockMailer struct {
	sent []email.SendRequest
	err  error
}

func (m *mockMailer) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "mock"}, m.err
}

type mockWorkoutStore struct {
	rows []workout.Workout
}

func (m *mockWorkoutStore) Create(_ context.Context, w workout.Workout) error {
	m.rows = append([]workout.Workout{w}, m.rows...)
	return nil
}

func (m *mockWorkoutStore) ListByAccount(_ context.Context, accountID string) ([]workout.Workout, error) {
	var out []workout.Workout
	for _, w := range m.rows {
		if w.AccountID == accountID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockWorkoutStore) DeleteOwned(_ context.Context, id, accountID string) error {
	for i, w := range m.rows {
		if w.ID == id && w.AccountID == accountID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return workout.ErrNotFound
}

type mockMealStore struct {
	rows []meal.Meal
}

func (m *mockMealStore) Create(_ context.Context, v meal.Meal) error {
	m.rows = append([]meal.Meal{v}, m.rows...)
	return nil
}

func (m *mockMealStore) ListByAccount(_ context.Context, accountID string) ([]meal.Meal, error) {
	var out []meal.Meal
	for _, v := range m.rows {
		if v.AccountID == accountID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockMealStore) DeleteOwned(_ context.Context, id, accountID string) error {
	for i, v := range m.rows {
		if v.ID == id && v.AccountID == accountID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return meal.ErrNotFound
}

// fixedClock returns a clock pinned at t that tests can advance.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }
