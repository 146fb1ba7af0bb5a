package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"auragym/internal/adapters/http/middleware"
	"auragym/internal/application/orchestrators"
	"auragym/internal/domain/account"
)

// signupForm echoes submitted values back into the signup page after an error.
type signupForm struct {
	Email       string
	DisplayName string
	Role        string
	Age         int
	Gender      string
	Goal        string
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "landing.html", nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// redirectIfAuthenticated sends a visitor who already holds a session to their dashboard.
func redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return false
	}
	http.Redirect(w, r, id.Role.DashboardPath(), http.StatusSeeOther)
	return true
}

// handleSignupForm handles GET /signup
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	role := r.URL.Query().Get("role")
	if role == "" {
		role = string(account.RoleMember)
	}
	s.render(w, r, http.StatusOK, "signup.html", map[string]any{
		"Form": signupForm{Role: role},
	})
}

// handleSignup handles POST /signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	// Unknown roles pass through so validation reports them.
	role, _ := account.ParseRole(r.FormValue("role"))
	if role == "" {
		role = account.RoleMember
	}
	form := signupForm{
		Email:       strings.TrimSpace(r.FormValue("email")),
		DisplayName: strings.TrimSpace(formValue(r, "displayName", "username")),
		Role:        string(role),
		Gender:      strings.TrimSpace(r.FormValue("gender")),
		Goal:        strings.TrimSpace(r.FormValue("goal")),
	}
	age, err := parseOptionalInt(r.FormValue("age"))
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "signup.html", map[string]any{
			"Form":  form,
			"Error": "age: must be a whole number",
		})
		return
	}
	form.Age = age

	input := orchestrators.SignupInput{
		Email:       form.Email,
		Password:    r.FormValue("password"),
		DisplayName: form.DisplayName,
		Role:        role,
		Age:         form.Age,
		Gender:      form.Gender,
		Goal:        form.Goal,
		AccessCode:  formValue(r, "accessCode", "accesscode", "adminCode"),
	}

	result, err := orchestrators.ExecuteSignup(r.Context(), input, s.signupDeps())
	if err != nil {
		status, msg := signupFailure(err)
		if status == http.StatusInternalServerError {
			internalError(w, err)
			return
		}
		s.render(w, r, status, "signup.html", map[string]any{
			"Form":  form,
			"Error": msg,
		})
		return
	}

	middleware.SetSessionCookie(w, result.Token, s.cookies)
	if result.Role == account.RoleAdmin {
		s.flash.Set(w, middleware.FlashSuccess, "Admin account created successfully.")
	} else {
		s.flash.Set(w, middleware.FlashSuccess, "Welcome to AURA GYM!")
	}
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

// signupFailure maps a signup error to a status code and a message safe to show the user.
func signupFailure(err error) (int, string) {
	var ve *orchestrators.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, orchestrators.ErrDuplicateEmail):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, orchestrators.ErrInvalidAdminCode):
		return http.StatusForbidden, "Invalid admin access code."
	default:
		return http.StatusInternalServerError, ""
	}
}

// handleLoginForm handles GET /login
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	s.render(w, r, http.StatusOK, "login.html", map[string]any{
		"Email": "",
		"Role":  r.URL.Query().Get("role"),
	})
}

// handleLogin handles POST /login. Success always redirects; it never renders a dashboard.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	claimed, _ := account.ParseRole(r.FormValue("role"))
	input := orchestrators.LoginInput{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		ClaimedRole: claimed,
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, s.loginDeps())
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		s.render(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Email": strings.TrimSpace(input.Email),
			"Role":  string(claimed),
			"Error": "Invalid credentials",
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	name := result.DisplayName
	if name == "" {
		name = account.NormalizeEmail(input.Email)
	}
	middleware.SetSessionCookie(w, result.Token, s.cookies)
	s.flash.Set(w, middleware.FlashSuccess, "Welcome back, "+name+"!")
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

// handleLogout handles GET and POST /logout. It succeeds whether or not a session was present.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		err := orchestrators.ExecuteLogout(r.Context(), token, orchestrators.LogoutDeps{SessionStore: s.stores.SessionStore})
		if err != nil {
			s.logger.Error("logout_failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(w, s.cookies)
	s.flash.Set(w, middleware.FlashSuccess, "You have been logged out successfully.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// formValue returns the first non-empty value among the given field names.
func formValue(r *http.Request, names ...string) string {
	for _, n := range names {
		if v := r.FormValue(n); v != "" {
			return v
		}
	}
	return ""
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
