// Package memscratch provides an in-memory scratch storage backend, for
// tests and callers that want to exercise the merge path without
// touching disk.
package memscratch

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/duskline/extsort/internal/scratch"
)

// Compile-time check that Handle implements scratch.Handle.
var _ scratch.Handle = (*Handle)(nil)

// Handle is an in-memory scratch storage backend.
type Handle struct {
	mu   sync.Mutex
	runs map[int][]byte
}

// New creates a new in-memory scratch handle.
func New() *Handle {
	return &Handle{runs: make(map[int][]byte)}
}

// CreateRun returns a writer that buffers the run in memory until Close.
func (h *Handle) CreateRun(index int) (io.WriteCloser, error) {
	return &runWriter{handle: h, index: index}, nil
}

// OpenRun opens a previously created run for reading.
func (h *Handle) OpenRun(index int) (io.ReadCloser, error) {
	h.mu.Lock()
	data, ok := h.runs[index]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("run %d not found", index)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Close discards all buffered runs.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = make(map[int][]byte)
	return nil
}

type runWriter struct {
	handle *Handle
	index  int
	buf    bytes.Buffer
}

func (w *runWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *runWriter) Close() error {
	w.handle.mu.Lock()
	defer w.handle.mu.Unlock()
	w.handle.runs[w.index] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}
