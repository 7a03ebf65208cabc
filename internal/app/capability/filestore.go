// internal/app/capability/filestore.go
package capability

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore persists an uploaded file and returns its public URL.
type FileStore interface {
	Store(ctx context.Context, name string, r io.Reader) (url string, err error)
}

// LocalFileStore writes uploads under BasePath and serves them from
// URLPrefix. Stored names are uuid-prefixed so user-supplied names cannot
// collide or traverse directories.
type LocalFileStore struct {
	BasePath  string
	URLPrefix string
}

func (s *LocalFileStore) Store(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return "", err
	}
	stored := uuid.NewString() + "-" + filepath.Base(name)

	f, err := os.Create(filepath.Join(s.BasePath, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + stored, nil
}
