package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"auragym/internal/application/orchestrators"
	"auragym/internal/domain/account"
	"auragym/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "aura_session"

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure bool          // set in production so the cookie never travels over plain HTTP
	TTL    time.Duration // matches the server-side session lifetime
}

// Auth returns middleware that resolves the session cookie to an identity and stores it in context.
// It does NOT block unauthenticated requests; use RequireRole for that.
// A resolver failure is logged and the request continues as anonymous.
func Auth(deps orchestrators.ResolveSessionDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token != "" {
				id, err := orchestrators.ExecuteResolveSession(r.Context(), token, deps)
				switch {
				case err == nil:
					r = r.WithContext(ContextWithIdentity(r.Context(), id))
				case errors.Is(err, orchestrators.ErrSessionInvalid):
				default:
					slog.Error("session_resolve_failed", "path", r.URL.Path, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard messages shown on the login page after a redirect.
var guardMessages = map[account.Role]string{
	account.RoleMember: "You must be logged in as a member to access that page.",
	account.RoleAdmin:  "You must be logged in as an admin to access that page.",
}

// RequireRole returns middleware that only admits identities holding role.
// Anonymous HTML requests are redirected to /login with a flash; anonymous JSON requests get 401.
// Authenticated requests with another role get 403.
func RequireRole(role account.Role, flash *Flash) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity *session.Identity
			if id, ok := IdentityFromContext(r.Context()); ok {
				identity = &id
			}

			decision := session.Authorize(identity, role)
			if decision == session.DecisionAllowed {
				next.ServeHTTP(w, r)
				return
			}

			slog.Info("auth_event", "event", "access_denied", "reason", decision.String(), "path", r.URL.Path, "required", role)
			if decision == session.DecisionUnauthenticated {
				if WantsJSON(r) {
					writeJSONError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				if flash != nil {
					flash.Set(w, FlashError, guardMessages[role])
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if WantsJSON(r) {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(session.Identity)
	return id, ok
}

// ContextWithIdentity returns a context carrying id.
func ContextWithIdentity(ctx context.Context, id session.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// SessionToken returns the raw session token from the request cookie, or "".
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// WantsJSON reports whether the client sent or prefers JSON.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
