// Package uploads stores receipt files on disk and hands back their public path.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSize bounds a single uploaded file.
const MaxSize = 10 << 20

// Store writes files below Dir and exposes them under URLPrefix.
type Store struct {
	Dir       string
	URLPrefix string
}

func NewStore(dir, urlPrefix string) *Store {
	return &Store{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Sanitize reduces a client filename to a safe ASCII base name.
// Accents are stripped, spaces become underscores and only [A-Za-z0-9._-] survive.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// Save copies r to a new uniquely named file and returns its public path.
func (s *Store) Save(original string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	clean := Sanitize(original)
	if clean == "" {
		clean = "file"
	}
	name := uuid.NewString() + "_" + clean
	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxSize {
		err = fmt.Errorf("upload exceeds %d bytes", MaxSize)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.Dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	zap.L().Debug("upload stored", zap.String("file", name), zap.Int64("bytes", n))
	return s.URLPrefix + "/" + name, nil
}

// FromRequest saves the multipart file field if the client sent one.
// A missing or empty field yields a nil path and no error.
func (s *Store) FromRequest(r *http.Request, field string) (*string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)
	if header.Filename == "" || header.Size == 0 {
		return nil, nil
	}
	p, err := s.Save(header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *Store) Remove(publicPath *string) {
	if publicPath == nil || !strings.HasPrefix(*publicPath, s.URLPrefix+"/") {
		return
	}
	name := path.Base(*publicPath)
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("remove upload", zap.String("file", name), zap.Error(err))
	}
}
