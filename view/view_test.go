package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/internal/middleware"
)

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "partials"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"layout.html":       `<html><body>{{ template "nav" . }}{{ template "content" . }}</body></html>`,
		"partials/nav.html": `{{ define "nav" }}<nav>{{ role }}|{{ if can "product" "delete" }}del{{ end }}</nav>{{ end }}`,
		"page.html":         `{{ define "content" }}<p>{{ t "products" }} {{ money .Price }} {{ datetime .When }} {{ datetime .Missing }}</p>{{ end }}`,
		"standalone.html":   `<!DOCTYPE html><p>{{ lang }}</p>`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderWithLayout(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	SetCanResolver(func(r *http.Request, resource, action string) bool {
		role, _ := auth.RoleFromContext(r.Context())
		return role == auth.RoleSuperAdmin
	})

	for _, tc := range []struct {
		role    auth.Role
		wantDel bool
	}{{auth.RoleSuperAdmin, true}, {auth.RoleCashier, false}} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithRole(req.Context(), tc.role))
		rec := httptest.NewRecorder()
		err := Render(rec, req, "page.html", map[string]any{
			"Price":   12.5,
			"When":    time.Date(2024, 2, 1, 8, 5, 0, 0, time.UTC),
			"Missing": (*time.Time)(nil),
		})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Products 12.50 01-February-2024 08:05 -") {
			t.Fatalf("unexpected body %q", body)
		}
		if !strings.Contains(body, string(tc.role)) {
			t.Fatalf("expected role in nav: %q", body)
		}
		if strings.Contains(body, "del") != tc.wantDel {
			t.Fatalf("%s: delete link visibility wrong: %q", tc.role, body)
		}
	}
}

// The language resolver reads the request context, so it must never be
// handed the nil request used while parsing.
func TestRenderWithRequestLanguageResolver(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	SetLangResolver(middleware.LangFrom)
	defer ResetForTests()

	h := middleware.Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := Render(w, r, "page.html", map[string]any{"Price": 1}); err != nil {
			t.Fatalf("render: %v", err)
		}
	}))
	for lang, want := range map[string]string{"en": "Products 1.00", "id": "Produk 1.00"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang="+lang, nil))
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s: unexpected body %q", lang, rec.Body.String())
		}
	}
}

func TestRenderStandaloneAndMissing(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	rec := httptest.NewRecorder()
	if err := Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "standalone.html", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "<p>en</p>") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if err := Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestMoneyAndDateTime(t *testing.T) {
	if got := Money(3); got != "3.00" {
		t.Fatalf("money int: %s", got)
	}
	if got := Money("7.5"); got != "7.50" {
		t.Fatalf("money string: %s", got)
	}
	if got := DateTime(time.Time{}); got != "-" {
		t.Fatalf("zero time: %s", got)
	}
}
