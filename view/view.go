package view

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/i18n"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// DateTimeLayout is used by the datetime template func.
const DateTimeLayout = "02-January-2006 15:04"

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	assetManifest     map[string]string
	assetManifestOnce sync.Once

	langResolver = func(_ *http.Request) string { return i18n.Default }
	// permission resolver set by the host app so templates can hide actions
	canResolver func(*http.Request, string, string) bool
)

// SetCanResolver sets a callback used by templates to check role permissions.
func SetCanResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canResolver = f
	}
}

// SetLangResolver allows the host app to provide a custom language resolver (e.g., reading from context).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// layoutBase walks upward from a template path to find the directory that contains layout.html.
// If none is found, it returns the template's own directory.
func layoutBase(mainPath string) string {
	d := filepath.Dir(mainPath)
	for {
		lp := filepath.Join(d, "layout.html")
		if fi, err := os.Stat(lp); err == nil && !fi.IsDir() {
			return d
		}
		p := filepath.Dir(d)
		if p == d {
			return filepath.Dir(mainPath)
		}
		d = p
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the standard func map including i18n and simple helpers.
// A nil request, used while parsing, gets the default language.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.Default
	if r != nil {
		lang = langResolver(r)
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		// can checks role permission (resource, action) -> bool
		"can": func(resource string, action string) bool {
			if canResolver == nil || r == nil {
				return false
			}
			return canResolver(r, resource, action)
		},
		"role": func() string {
			if r == nil {
				return ""
			}
			role, _ := auth.RoleFromContext(r.Context())
			return string(role)
		},
		"username": func() string {
			if r == nil {
				return ""
			}
			return auth.UsernameFromContext(r.Context())
		},
		"money":    Money,
		"datetime": DateTime,
		"date": func(v any) string {
			if t, ok := asTime(v); ok {
				return t.Format("2006-01-02")
			}
			return ""
		},
		"mul":   func(a, b any) float64 { return cast.ToFloat64(a) * cast.ToFloat64(b) },
		"add":   func(a, b any) float64 { return cast.ToFloat64(a) + cast.ToFloat64(b) },
		"year":  func() int { return time.Now().Year() },
		"asset": func(path string) string { return resolveAsset(path) },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Money formats any numeric value with two decimals.
func Money(v any) string {
	return decimal.NewFromFloat(cast.ToFloat64(v)).StringFixed(2)
}

// DateTime formats a time or time pointer; nil and zero times render as "-".
func DateTime(v any) string {
	if t, ok := asTime(v); ok {
		return t.Format(DateTimeLayout)
	}
	return "-"
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	p := filepath.Join("static", rel)
	b, err := os.ReadFile(p)
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// resolveAsset prefers a hashed filename from manifest.json then falls back to query param versioning.
func resolveAsset(rel string) string {
	if os.Getenv("DEV") == "1" {
		parseManifest()
	} else {
		assetManifestOnce.Do(parseManifest)
	}
	if assetManifest != nil {
		if h, ok := assetManifest[rel]; ok {
			return "/static/" + h
		}
	}
	return versionedAsset(rel)
}

func parseManifest() {
	mf := filepath.Join("static", "manifest.json")
	b, err := os.ReadFile(mf)
	if err != nil {
		return
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return
	}
	assetManifest = m
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
	langResolver = func(_ *http.Request) string { return i18n.Default }
}

var partialNames = []string{"nav.html", "flash.html", "errors-alert.html", "field-text.html"}

func parse(name string) (*template.Template, error) {
	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		found := false
		for _, c := range []string{
			filepath.Join("templates", name),
			filepath.Join("../templates", name),
			filepath.Join("../../templates", name),
			filepath.Join("../../../templates", name),
		} {
			if fi, e2 := os.Stat(c); e2 == nil && !fi.IsDir() {
				mainPath = c
				found = true
				break
			}
		}
		if !found {
			return nil, err
		}
	}
	// Align baseDir to the directory that owns layout.html (typically the templates root)
	baseDir = layoutBase(mainPath)
	layoutPath := filepath.Join(baseDir, "layout.html")
	funcMap := Funcs(nil)

	contentBytes, _ := os.ReadFile(mainPath)
	if bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype")) {
		// Full document provided; skip layout wrapping.
		return template.New(name).Funcs(funcMap).ParseFiles(mainPath)
	}
	if fi, err := os.Stat(layoutPath); err != nil || fi.IsDir() {
		return template.New(name).Funcs(funcMap).ParseFiles(mainPath)
	}
	files := []string{layoutPath, mainPath}
	for _, p := range partialNames {
		pp := filepath.Join(baseDir, "partials", p)
		if pf, err := os.Stat(pp); err == nil && !pf.IsDir() {
			files = append(files, pp)
		}
	}
	return template.New("layout.html").Funcs(funcMap).ParseFiles(files...)
}

// Render parses and executes a single template file with shared funcs.
// name should be the filename (e.g., "products.html"). Parsed templates are
// cached unless DEV=1; request-bound funcs are rebound on a clone per call.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.RoleFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}

	devMode := os.Getenv("DEV") == "1"
	var base *template.Template
	if !devMode {
		tplCache.RLock()
		base = tplCache.m[name]
		tplCache.RUnlock()
	}
	if base == nil {
		parsed, err := parse(name)
		if err != nil {
			return err
		}
		base = parsed
		if !devMode {
			tplCache.Lock()
			tplCache.m[name] = base
			tplCache.Unlock()
		}
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Funcs(Funcs(r)).Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
