// Package storage implements the file-store port on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/pkg/config"
)

var _ ports.FileStore = (*LocalStore)(nil)

// allowedExtensions for arrival photos.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".pdf":  true,
}

// LocalStore saves uploads under a local directory. Stored names carry a
// random suffix so uploads never collide or overwrite each other.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore builds the store and ensures the directory exists.
func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalStore{
		dir:      cfg.Dir,
		maxBytes: int64(cfg.MaxSizeMB) * 1024 * 1024,
	}, nil
}

// Save validates the extension and size, writes the content and returns the
// stored reference (the new filename, without directory).
func (s *LocalStore) Save(_ context.Context, filename string, content io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: file type %q not allowed", domain.ErrValidation, ext)
	}
	if size <= 0 || size > s.maxBytes {
		return "", fmt.Errorf("%w: file size out of bounds", domain.ErrValidation)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitize(base)
	ref := fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)

	dst, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(content, s.maxBytes)); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return ref, nil
}

// Exists reports whether a stored reference is present on disk.
func (s *LocalStore) Exists(ref string) bool {
	if ref == "" || ref != filepath.Base(ref) {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, ref))
	return err == nil && !info.IsDir()
}

// sanitize keeps the stored name shell- and URL-friendly.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
