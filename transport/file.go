package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arloliu/ept/errs"
)

// File reads resources from a local directory.
type File struct {
	Root string
}

var _ Transport = (*File)(nil)

// NewFile creates a transport reading below root.
func NewFile(root string) *File {
	return &File{Root: root}
}

// Get reads the file at Root/p. Paths leaving the root are rejected.
func (f *File) Get(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}

	clean := path.Clean("/" + p)
	if clean == "/" || strings.Contains(p, "\\") {
		return nil, fmt.Errorf("%w: invalid resource path %q", errs.ErrTransport, p)
	}

	data, err := os.ReadFile(filepath.Join(f.Root, filepath.FromSlash(clean[1:])))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(f.Root, p)
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}

	return data, nil
}

// Endpoint returns the root directory.
func (f *File) Endpoint() string {
	return f.Root
}
