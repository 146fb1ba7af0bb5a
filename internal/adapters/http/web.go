package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"auragym/internal/adapters/email"
	"auragym/internal/adapters/http/middleware"
	accountStore "auragym/internal/adapters/storage/account"
	mealStore "auragym/internal/adapters/storage/meal"
	sessionStore "auragym/internal/adapters/storage/session"
	workoutStore "auragym/internal/adapters/storage/workout"
	"auragym/internal/application/orchestrators"
	"auragym/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	SessionStore sessionStore.Store
	WorkoutStore workoutStore.Store
	MealStore    mealStore.Store
}

// Options configures a Server.
type Options struct {
	SessionTTL     time.Duration
	Secure         bool   // production: Secure cookies and HTTPS-only CSRF origin checks
	AdminCode      string // empty disables admin signup
	BaseURL        string
	CSRFKey        []byte // 32 bytes; nil disables CSRF protection
	FlashKey       []byte // at least 32 bytes
	TrustedOrigins []string
	TrustedProxies []string      // addresses or CIDRs allowed to set X-Forwarded-For
	AuthRateLimit  int           // POST /login and /signup per client per AuthRateWindow; zero means 10
	AuthRateWindow time.Duration // zero means one minute
	Now            func() time.Time
	Logger         *slog.Logger
}

// Server wires stores and the mail sender into HTTP handlers.
type Server struct {
	stores  Stores
	mailer  email.Sender
	opts    Options
	cookies middleware.CookieOptions
	flash   *middleware.Flash
	limiter *middleware.RateLimiter
	proxies middleware.TrustedProxies
	pages   map[string]*template.Template
	logger  *slog.Logger
}

// NewServer builds a Server. mailer may be nil, in which case no welcome email is sent.
// PRE: every store in stores is non-nil
// POST: Returns a Server whose templates have been parsed
func NewServer(stores Stores, mailer email.Sender, opts Options) (*Server, error) {
	if stores.AccountStore == nil || stores.SessionStore == nil || stores.WorkoutStore == nil || stores.MealStore == nil {
		return nil, errors.New("web: all stores are required")
	}
	if len(opts.FlashKey) < 32 {
		return nil, errors.New("web: flash key must be at least 32 bytes")
	}
	if opts.CSRFKey != nil && len(opts.CSRFKey) != 32 {
		return nil, errors.New("web: CSRF key must be 32 bytes")
	}
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 10
	}
	if opts.AuthRateWindow <= 0 {
		opts.AuthRateWindow = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	proxies, err := middleware.ParseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		stores:  stores,
		mailer:  mailer,
		opts:    opts,
		cookies: middleware.CookieOptions{Secure: opts.Secure, TTL: opts.SessionTTL},
		flash:   middleware.NewFlash(opts.FlashKey, opts.Secure),
		limiter: middleware.NewRateLimiter(opts.AuthRateLimit, opts.AuthRateWindow),
		proxies: proxies,
		pages:   pages,
		logger:  opts.Logger,
	}, nil
}

// RateLimiter exposes the auth rate limiter so the caller can run its eviction loop.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.limiter
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	limited := middleware.RateLimit(s.limiter, s.proxies)
	member := middleware.RequireRole(account.RoleMember, s.flash)
	admin := middleware.RequireRole(account.RoleAdmin, s.flash)

	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /signup", s.handleSignupForm)
	mux.Handle("POST /signup", limited(http.HandlerFunc(s.handleSignup)))
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.Handle("POST /login", limited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /member", member(http.RedirectHandler("/member/dashboard", http.StatusSeeOther)))
	mux.Handle("GET /member/dashboard", member(http.HandlerFunc(s.handleMemberDashboard)))
	mux.Handle("GET /member/workouts", member(http.HandlerFunc(s.handleListWorkouts)))
	mux.Handle("POST /member/workouts", member(http.HandlerFunc(s.handleLogWorkout)))
	mux.Handle("DELETE /member/workouts/{id}", member(http.HandlerFunc(s.handleDeleteWorkout)))
	mux.Handle("POST /member/workouts/{id}/delete", member(http.HandlerFunc(s.handleDeleteWorkout)))
	mux.Handle("GET /member/meals", member(http.HandlerFunc(s.handleListMeals)))
	mux.Handle("POST /member/meals", member(http.HandlerFunc(s.handleLogMeal)))
	mux.Handle("DELETE /member/meals/{id}", member(http.HandlerFunc(s.handleDeleteMeal)))
	mux.Handle("POST /member/meals/{id}/delete", member(http.HandlerFunc(s.handleDeleteMeal)))
	// Anything else under /member/ is still guarded so role isolation holds for unknown paths.
	mux.Handle("/member/", member(http.NotFoundHandler()))

	mux.Handle("GET /admin", admin(http.RedirectHandler("/admin/dashboard", http.StatusSeeOther)))
	mux.Handle("GET /admin/dashboard", admin(http.HandlerFunc(s.handleAdminDashboard)))
	mux.Handle("/admin/", admin(http.NotFoundHandler()))

	stack := []func(http.Handler) http.Handler{
		middleware.RequestLogger(s.logger, s.proxies),
		middleware.SecurityHeaders,
	}
	if s.opts.CSRFKey != nil {
		stack = append(stack, middleware.CSRF(s.opts.CSRFKey, s.opts.Secure, s.opts.TrustedOrigins))
	}
	stack = append(stack, middleware.Auth(orchestrators.ResolveSessionDeps{
		SessionStore: s.stores.SessionStore,
		Now:          s.opts.Now,
	}))
	return middleware.Chain(mux, stack...)
}

func (s *Server) issueDeps() orchestrators.IssueSessionDeps {
	return orchestrators.IssueSessionDeps{
		SessionStore: s.stores.SessionStore,
		TTL:          s.opts.SessionTTL,
		Now:          s.opts.Now,
	}
}

func (s *Server) signupDeps() orchestrators.SignupDeps {
	return orchestrators.SignupDeps{
		AccountStore: s.stores.AccountStore,
		Sessions:     s.issueDeps(),
		AdminCode:    s.opts.AdminCode,
		Mailer:       s.mailer,
		BaseURL:      s.opts.BaseURL,
	}
}

func (s *Server) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		AccountStore: s.stores.AccountStore,
		Sessions:     s.issueDeps(),
	}
}

func (s *Server) workoutDeps() orchestrators.WorkoutLogDeps {
	return orchestrators.WorkoutLogDeps{WorkoutStore: s.stores.WorkoutStore, Now: s.opts.Now}
}

func (s *Server) mealDeps() orchestrators.MealLogDeps {
	return orchestrators.MealLogDeps{MealStore: s.stores.MealStore, Now: s.opts.Now}
}
