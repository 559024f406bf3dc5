package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store keeps document attachments as flat files under a single root
// directory. Stored paths are relative to the root so database rows survive a
// relocation of the directory.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes content under a fresh name derived from the original filename
// and returns the stored path.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	stored := uuid.NewString() + "_" + filepath.Base(name)
	f, err := os.Create(filepath.Join(s.root, stored))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return stored, nil
}

// Copy duplicates a stored file under a fresh name and returns the new path,
// so a cloned document never shares bytes on disk with its source.
func (s *Store) Copy(path string) (string, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	src, err := os.Open(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()
	return s.Save(originalName(path), src)
}

// Remove deletes a stored file. A file already gone is not an error.
func (s *Store) Remove(path string) error {
	resolved, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// resolve rejects anything that would escape the root directory.
func (s *Store) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// originalName strips the uuid prefix Save added, keeping copies of copies
// from growing ever longer names.
func originalName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '_'); i >= 0 && i+1 < len(base) {
		return base[i+1:]
	}
	return base
}
