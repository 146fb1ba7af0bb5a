package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"auragym/internal/adapters/http/middleware"
	"auragym/internal/domain/account"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"landing.html", "login.html", "signup.html", "member.html", "admin.html"}

// baseFuncs declares the per-request helpers so pages can be parsed once at startup.
// render rebinds them on a clone for every request.
var baseFuncs = template.FuncMap{
	"currentRole":   func() string { return "" },
	"isLoggedIn":    func() bool { return false },
	"dashboardPath": func() string { return "/login" },
	"csrfToken":     func() string { return "" },
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(baseFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// maxJSONBody caps JSON request bodies on member endpoints.
const maxJSONBody = 64 << 10

// strictDecode decodes JSON from the request body, rejecting unknown fields and bodies over maxJSONBody.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeDecodeError answers a body strictDecode rejected.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// render executes a page inside the layout. Any pending flash message is popped into data["Flash"].
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	base, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %q", name))
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}

	var role account.Role
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		role = id.Role
	}
	tpl.Funcs(template.FuncMap{
		"currentRole":   func() string { return string(role) },
		"isLoggedIn":    func() bool { return role != "" },
		"dashboardPath": func() string { return role.DashboardPath() },
		"csrfToken":     func() string { return csrf.Token(r) },
	})

	if data == nil {
		data = map[string]any{}
	}
	if msg, ok := s.flash.Pop(w, r); ok {
		data["Flash"] = msg
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
