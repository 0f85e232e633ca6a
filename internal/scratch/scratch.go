// Package scratch defines the storage backend interface for writing and
// reading the numbered run files a sort spills while it works.
package scratch

import "io"

// Handle manages the segment files (or objects) created during a sort.
// Runs are created in increasing index order starting at 0 and, once
// created, are never rewritten; Close releases whatever resources the
// implementation holds and, for an engine-owned scratch space, removes
// the runs it created.
type Handle interface {
	// CreateRun returns a writer for the run at index. Callers must
	// call CreateRun with strictly increasing indexes, starting at 0.
	CreateRun(index int) (io.WriteCloser, error)

	// OpenRun opens the run at index for reading from its start.
	OpenRun(index int) (io.ReadCloser, error)

	// Close releases the handle. Implementations that own their
	// storage remove every run they created; implementations wrapping
	// caller-supplied storage leave it untouched.
	Close() error
}
