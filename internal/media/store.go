// Package media stores uploaded files under the data directory and maps them
// to public URLs.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Root is the public URL prefix mirroring the data directory
const Root = "/data"

// WishlistDir is the subdirectory for wishlist images
const WishlistDir = "wishlist"

// DefaultExt is used when an upload's filename has no extension
const DefaultExt = ".jpg"

// Upload is a file received with a request
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// IsImage reports whether the upload declares an image content type
func (u *Upload) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(u.ContentType)), "image/")
}

// Ext returns the lower-cased extension of the original filename
func (u *Upload) Ext() string {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if ext == "" || ext == "." {
		return DefaultExt
	}
	return ext
}

// Store writes uploads below a base directory
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the upload under subdir with a random name that keeps the
// original extension, and returns the slash-separated relative path.
func (s *Store) Save(subdir string, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", errors.New("empty upload")
	}

	target := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + u.Ext()
	f, err := os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}

	if _, err := io.Copy(f, u.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close media file: %w", err)
	}

	return path.Join(filepath.ToSlash(subdir), name), nil
}

// Remove deletes a previously saved file. Missing files are ignored.
func (s *Store) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}
