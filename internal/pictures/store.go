// Package pictures stores uploaded user pictures on local disk and
// hands back opaque filename references.
package pictures

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/avolkov/tapedeck/internal/errs"
)

// MaxSize is the upload size cap in bytes.
const MaxSize = 5 << 20 // 5MB

// allowedTypes maps accepted file extensions to their content types.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Store writes pictures into a single directory.
type Store struct{ dir string }

// NewStore creates the directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save validates the upload and writes it under a fresh uuid-based
// filename. Returns the filename reference to persist on the user.
// Oversized or non-image uploads are rejected with errs.ErrValidation.
func (s *Store) Save(origName, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	want, ok := allowedTypes[ext]
	if !ok || contentType != want {
		return "", errs.ErrValidation
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	name := id.String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	// Read one byte past the cap to detect oversized uploads.
	n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	cerr := f.Close()
	if err == nil && cerr != nil {
		err = cerr
	}
	if err == nil && n > MaxSize {
		err = errs.ErrValidation
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return name, nil
}

// Remove deletes a stored picture by its reference.
func (s *Store) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

// Path returns the on-disk path for a stored reference.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
