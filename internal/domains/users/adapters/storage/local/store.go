// Package local stores uploaded profile pictures on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
)

// DefaultDir is the directory uploads land in when none is configured.
const DefaultDir = "uploads"

var _ ports.PictureStore = (*Store)(nil)

// Store writes uploads under Dir using a millisecond timestamp plus the original extension.
// Names are not guaranteed unique when two uploads land in the same millisecond.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string { return s.dir }

// Save copies the uploaded file to disk and returns the generated filename.
func (s *Store) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", errors.New("no file to store")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := s.FileName(file.Filename)
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// FileName derives the on-disk name for an upload called original.
func (s *Store) FileName(original string) string {
	return strconv.FormatInt(s.now().UnixMilli(), 10) + filepath.Ext(filepath.Base(original))
}
