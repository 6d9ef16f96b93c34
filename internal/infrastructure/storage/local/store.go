// Package local serves database blobs from a directory on disk.
package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Store resolves object names relative to Root.  An empty Root resolves them
// against the working directory.
type Store struct {
	Root string
}

var _ fingerprint.BlobStore = (*Store)(nil)

// NewStore creates a Store rooted at root.
func NewStore(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) path(name string) string {
	if filepath.IsAbs(name) || s.Root == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(s.Root, name)
}

// Fetch reads the whole blob.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.path(name)
	data, err := os.ReadFile(p)
	switch {
	case os.IsNotExist(err):
		return nil, errors.New(errors.CodeBlobNotFound, "database blob not found").WithDetail(p)
	case err != nil:
		return nil, errors.New(errors.CodeBlobSourceFailed, "read database blob").WithDetail(p).WithCause(err)
	}
	return data, nil
}

// Put writes data to a temporary file next to the target and renames it into
// place.
func (s *Store) Put(ctx context.Context, name string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.New(errors.CodeBlobSourceFailed, "create blob directory").WithDetail(p).WithCause(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".blob-*")
	if err != nil {
		return errors.New(errors.CodeBlobSourceFailed, "create blob").WithDetail(p).WithCause(err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return errors.New(errors.CodeBlobSourceFailed, "write blob").WithDetail(p).WithCause(err)
	}
	if err = tmp.Close(); err != nil {
		return errors.New(errors.CodeBlobSourceFailed, "close blob").WithDetail(p).WithCause(err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return errors.New(errors.CodeBlobSourceFailed, "publish blob").WithDetail(p).WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
