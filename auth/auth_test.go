package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, s.Login(rec, req, "gudang", RoleAdminGudang))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var gotRole Role
	var gotUser string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole, _ = RoleFromContext(r.Context())
		gotUser = UsernameFromContext(r.Context())
	}))
	next := httptest.NewRequest(http.MethodGet, "/products", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), next)
	assert.Equal(t, RoleAdminGudang, gotRole)
	assert.Equal(t, "gudang", gotUser)
}

func TestSessionTamperedCookie(t *testing.T) {
	s := NewSessions("test-secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "forged"})
	if _, _, ok := s.Current(req); ok {
		t.Fatalf("expected forged cookie to be rejected")
	}

	other := NewSessions("other-secret", false)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "admin", RoleSuperAdmin))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if _, _, ok := s.Current(req); ok {
		t.Fatalf("expected cookie signed with another key to be rejected")
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	s := NewSessions("k", false)
	err := s.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil), "x", Role("Janitor"))
	assert.Error(t, err)
}

func TestLogoutExpiresCookie(t *testing.T) {
	s := NewSessions("k", false)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil)))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Accept", "application/json")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req = req.WithContext(WithRole(req.Context(), RoleCashier))
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDefaultCredentials(t *testing.T) {
	c, err := LoadCredentials("")
	require.NoError(t, err)
	cases := []struct {
		user, pass string
		role       Role
		ok         bool
	}{
		{"cashier", "cashier", RoleCashier, true},
		{"gudang", "gudang", RoleAdminGudang, true},
		{"admin", "admin", RoleSuperAdmin, true},
		{"admin", "wrong", "", false},
		{"nobody", "nobody", "", false},
	}
	for _, tc := range cases {
		role, ok := c.Authenticate(tc.user, tc.pass)
		if ok != tc.ok || role != tc.role {
			t.Fatalf("%s/%s: got %q %v want %q %v", tc.user, tc.pass, role, ok, tc.role, tc.ok)
		}
	}
}

func TestLoadCredentialsFile(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "users.yaml")
	body := "users:\n" +
		"  - username: kasir\n    role: Cashier\n    password: kasir123\n" +
		"  - username: boss\n    role: Super Admin\n    password_hash: " + string(hash) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadCredentials(path)
	require.NoError(t, err)
	role, ok := c.Authenticate("boss", "s3cret")
	assert.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, role)
	role, ok = c.Authenticate("kasir", "kasir123")
	assert.True(t, ok)
	assert.Equal(t, RoleCashier, role)
	_, ok = c.Authenticate("admin", "admin")
	assert.False(t, ok, "defaults must not apply when a file is given")
}

func TestLoadCredentialsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"badrole.yaml": "users:\n  - username: x\n    role: Janitor\n    password: x\n",
		"nopass.yaml":  "users:\n  - username: x\n    role: Cashier\n",
		"empty.yaml":   "users: []\n",
		"broken.yaml":  "users: [",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		if _, err := LoadCredentials(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := LoadCredentials(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
