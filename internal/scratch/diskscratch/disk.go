// Package diskscratch implements a disk-based scratch storage backend.
package diskscratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/duskline/extsort/internal/scratch"
)

// Compile-time check that Handle implements scratch.Handle.
var _ scratch.Handle = (*Handle)(nil)

// Handle is a disk-based scratch storage backend rooted at a single
// directory. An owned Handle removes its directory on Close; a
// borrowed one never touches the caller's directory beyond writing
// and reading run files inside it.
type Handle struct {
	dir   string
	owned bool
}

// Open creates an owned Handle rooted at a fresh private directory
// under the default temp location.
func Open() (*Handle, error) {
	dir, err := os.MkdirTemp("", "extsort-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return &Handle{dir: dir, owned: true}, nil
}

// OpenIn creates a borrowed Handle rooted at dir. The directory must
// already exist; it is never removed by Close.
func OpenIn(dir string) (*Handle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat scratch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Handle{dir: dir, owned: false}, nil
}

// Dir returns the root directory this handle is writing runs into.
func (h *Handle) Dir() string {
	return h.dir
}

// CreateRun creates (or truncates) the run file numbered index.
func (h *Handle) CreateRun(index int) (io.WriteCloser, error) {
	f, err := os.OpenFile(h.runPath(index), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating run %d: %w", index, err)
	}
	return f, nil
}

// OpenRun opens the run file numbered index for reading.
func (h *Handle) OpenRun(index int) (io.ReadCloser, error) {
	f, err := os.Open(h.runPath(index))
	if err != nil {
		return nil, fmt.Errorf("opening run %d: %w", index, err)
	}
	return f, nil
}

// Close removes the scratch directory if it is owned; a borrowed
// directory is left untouched.
func (h *Handle) Close() error {
	if !h.owned {
		return nil
	}
	if err := os.RemoveAll(h.dir); err != nil {
		return fmt.Errorf("removing scratch directory: %w", err)
	}
	return nil
}

func (h *Handle) runPath(index int) string {
	return filepath.Join(h.dir, strconv.Itoa(index))
}
