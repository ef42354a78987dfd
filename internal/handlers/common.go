package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/httpx"
	"github.com/diewo77/go-inventory/internal/services"
	"github.com/diewo77/go-inventory/view"
	"go.uber.org/zap"
)

// wantsHTML is true unless the client explicitly asks for JSON only.
func wantsHTML(r *http.Request) bool {
	return !auth.WantsJSON(r)
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w = &statusOnce{ResponseWriter: w, status: status}
	}
	if err := view.Render(w, r, name, data); err != nil {
		zap.L().Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// statusOnce applies a non-200 status on the first write performed by view.Render.
type statusOnce struct {
	http.ResponseWriter
	status  int
	written bool
}

func (s *statusOnce) WriteHeader(code int) {
	if s.written {
		return
	}
	s.written = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusOnce) Write(b []byte) (int, error) {
	if !s.written {
		s.WriteHeader(s.status)
	}
	return s.ResponseWriter.Write(b)
}

// fail reports a service error as JSON or a plain error page.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := httpx.StatusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	if !wantsHTML(r) {
		httpx.Error(w, err)
		return
	}
	http.Error(w, http.StatusText(status)+" ("+code+")", status)
}

// pathID parses the {id} path value. Unparseable ids are treated as missing products.
func pathID(r *http.Request) (uint, error) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, services.ErrNotFound
	}
	return uint(n), nil
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func violationsFrom(err error) map[string]string {
	if ve, ok := services.AsValidation(err); ok {
		return map[string]string{ve.Field: ve.Reason}
	}
	return nil
}
