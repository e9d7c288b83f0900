package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves uploaded listing images and returns the storage-relative
// path persisted on the listing document.
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// DiskImageStore stores images on the local filesystem under a base
// directory served at /uploads.
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates the upload directory if needed.
func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &DiskImageStore{dir: dir}, nil
}

// Save writes the image to disk under a collision-free name and returns its
// public path.
func (s *DiskImageStore) Save(filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// sanitizeFilename strips path separators and whitespace from a
// client-supplied file name.
func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "image"
	}
	return name
}
