package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// Role is the UI role chosen at login. It drives which actions are offered.
type Role string

const (
	RoleCashier     Role = "Cashier"
	RoleAdminGudang Role = "Admin Gudang"
	RoleSuperAdmin  Role = "Super Admin"
)

// Roles lists the known roles.
var Roles = []Role{RoleCashier, RoleAdminGudang, RoleSuperAdmin}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

type ctxKey string

const (
	sessionName    = "inventory_session"
	roleKey        = "role"
	usernameKey    = "username"
	roleCtxKey     = ctxKey("role")
	usernameCtxKey = ctxKey("username")
)

// WithRole stores the role in context.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey, role)
}

// RoleFromContext extracts the role.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey).(Role)
	return role, ok && role != ""
}

// WithUsername stores the logged in username in context.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameCtxKey, username)
}

// UsernameFromContext extracts the username.
func UsernameFromContext(ctx context.Context) string {
	s, _ := ctx.Value(usernameCtxKey).(string)
	return s
}

// Sessions keeps the role in a signed cookie.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions creates a cookie store keyed by secret. Cookies are marked Secure when secure is set.
func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Login records username and role in the session cookie.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, username string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[roleKey] = string(role)
	sess.Values[usernameKey] = username
	return sess.Save(r, w)
}

// Logout clears the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Current returns the username and role held by the request's session.
func (s *Sessions) Current(r *http.Request) (string, Role, bool) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", "", false
	}
	raw, _ := sess.Values[roleKey].(string)
	role := Role(raw)
	if !role.Valid() {
		return "", "", false
	}
	username, _ := sess.Values[usernameKey].(string)
	return username, role, true
}

// Middleware attaches the session role and username to the request context if present.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if username, role, ok := s.Current(r); ok {
			ctx := WithRole(r.Context(), role)
			ctx = WithUsername(ctx, username)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// WantsJSON reports whether the client asked for JSON rather than HTML.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// RequireAuth redirects to /login if no role is selected (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RoleFromContext(r.Context()); !ok {
			if WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
