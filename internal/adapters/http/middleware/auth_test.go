package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auragym/internal/application/orchestrators"
	"auragym/internal/domain/account"
	"auragym/internal/domain/session"
)

type stubSessionStore struct {
	sessions map[string]session.Session
	err      error
}

func (s *stubSessionStore) GetByToken(_ context.Context, token string) (session.Session, error) {
	if s.err != nil {
		return session.Session{}, s.err
	}
	v, ok := s.sessions[token]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return v, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

var testFlashKey = []byte("0123456789abcdef0123456789abcdef")

func identityEcho(t *testing.T, want *session.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFromContext(r.Context())
		if want == nil {
			if ok {
				t.Errorf("expected anonymous request, got %+v", got)
			}
			return
		}
		if !ok || got != *want {
			t.Errorf("identity = %+v (ok=%v), want %+v", got, ok, *want)
		}
	})
}

func TestAuth(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	store := &stubSessionStore{sessions: map[string]session.Session{
		"live":    {Token: "live", AccountID: "m1", Role: account.RoleMember, ExpiresAt: now.Add(time.Hour)},
		"expired": {Token: "expired", AccountID: "m1", Role: account.RoleMember, ExpiresAt: now.Add(-time.Second)},
	}}
	deps := orchestrators.ResolveSessionDeps{SessionStore: store, Now: func() time.Time { return now }}

	tests := []struct {
		name  string
		token string
		want  *session.Identity
	}{
		{"valid session", "live", &session.Identity{AccountID: "m1", Role: account.RoleMember}},
		{"expired session", "expired", nil},
		{"unknown token", "forged", nil},
		{"no cookie", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			Auth(deps)(identityEcho(t, tt.want)).ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestAuth_StoreFailureIsAnonymous(t *testing.T) {
	store := &stubSessionStore{err: errors.New("disk gone")}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "any"})
	rec := httptest.NewRecorder()

	Auth(orchestrators.ResolveSessionDeps{SessionStore: store})(identityEcho(t, nil)).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	member := &session.Identity{AccountID: "m1", Role: account.RoleMember}
	admin := &session.Identity{AccountID: "a1", Role: account.RoleAdmin}

	tests := []struct {
		name       string
		required   account.Role
		identity   *session.Identity
		accept     string
		wantStatus int
		wantLoc    string
	}{
		{"member allowed", account.RoleMember, member, "", http.StatusOK, ""},
		{"admin allowed", account.RoleAdmin, admin, "", http.StatusOK, ""},
		{"anonymous html redirected", account.RoleMember, nil, "text/html", http.StatusSeeOther, "/login"},
		{"anonymous json unauthorized", account.RoleAdmin, nil, "application/json", http.StatusUnauthorized, ""},
		{"admin on member route", account.RoleMember, admin, "", http.StatusForbidden, ""},
		{"member on admin route", account.RoleAdmin, member, "application/json", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.identity != nil {
				req = req.WithContext(ContextWithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

			RequireRole(tt.required, NewFlash(testFlashKey, false))(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLoc != "" && rec.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestRequireRole_RedirectCarriesFlash(t *testing.T) {
	flash := NewFlash(testFlashKey, false)
	rec := httptest.NewRecorder()
	RequireRole(account.RoleAdmin, flash)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	next := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	msg, ok := flash.Pop(httptest.NewRecorder(), next)
	if !ok {
		t.Fatal("expected a flash message")
	}
	if msg.Kind != FlashError || msg.Text != "You must be logged in as an admin to access that page." {
		t.Errorf("flash = %+v", msg)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", CookieOptions{Secure: true, TTL: time.Hour})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.MaxAge != 3600 || c.Path != "/" {
		t.Errorf("cookie = %+v", c)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, CookieOptions{})
	if c := rec.Result().Cookies()[0]; c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("cleared cookie = %+v", c)
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		contentType, accept string
		want                bool
	}{
		{"", "", false},
		{"application/json", "", true},
		{"", "application/json", true},
		{"", "text/html,application/json", false},
		{"application/x-www-form-urlencoded", "*/*", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", tt.contentType)
		req.Header.Set("Accept", tt.accept)
		if got := WantsJSON(req); got != tt.want {
			t.Errorf("WantsJSON(%q, %q) = %v, want %v", tt.contentType, tt.accept, got, tt.want)
		}
	}
}
