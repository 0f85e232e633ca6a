// Package extsort sorts an unbounded sequence of items into ascending
// order using bounded memory, spilling presorted runs to scratch
// storage and k-way merging them back into a lazy iterator.
//
// Example usage:
//
//	s := extsort.New[uint32codec.Value](uint32codec.Codec{}, extsort.WithMaxBuffered(1000))
//	it, err := s.Sort(ctx, input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer it.Close()
//
//	for {
//	    v, ok := it.Next()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(v)
//	}
package extsort

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duskline/extsort/internal/progress"
	"github.com/duskline/extsort/internal/scratch"
	"github.com/duskline/extsort/internal/stats"
)

// ErrAlreadySorted is returned by Sort if it is called more than once
// on the same Sorter.
var ErrAlreadySorted = errors.New("extsort: Sort already called on this Sorter")

var bufWriterPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(nil, 64*1024) },
}

var bufReaderPool = sync.Pool{
	New: func() any { return bufio.NewReaderSize(nil, 64*1024) },
}

// Sorter performs an external merge sort over a sequence of T.
// A Sorter is not safe for concurrent use, and Sort may only be called
// once per Sorter.
type Sorter[T Ordered[T]] struct {
	codec       Codec[T]
	maxBuffered int
	stats       stats.Collector
	logger      *zap.Logger
	progress    progress.Func
	openScratch func() (scratch.Handle, error)

	used bool
}

// New creates a Sorter for items of type T, using codec to write and
// read runs spilled to scratch storage.
func New[T Ordered[T]](codec Codec[T], opts ...Option) *Sorter[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	return &Sorter[T]{
		codec:       codec,
		maxBuffered: cfg.maxBuffered,
		stats:       cfg.stats,
		logger:      cfg.logger,
		progress:    cfg.progress,
		openScratch: func() (scratch.Handle, error) { return cfg.openScratch() },
	}
}

// Sort consumes every item sent on input, in order, until input is
// closed, and returns a MergeIterator yielding them back in ascending
// order. Sort blocks until input is closed or ctx is done.
//
// If the buffered items never exceed MaxBuffered, no run is written to
// scratch storage and the result is served directly from memory. The
// scratch backend is still opened up front (for the default disk
// backend, that creates the private directory).
func (s *Sorter[T]) Sort(ctx context.Context, input <-chan T) (*MergeIterator[T], error) {
	if s.used {
		return nil, ErrAlreadySorted
	}
	s.used = true
	start := time.Now()

	handle, err := s.openScratch()
	if err != nil {
		return nil, fmt.Errorf("extsort: opening scratch space: %w", err)
	}

	buffer := make([]T, 0, s.maxBuffered+1)
	runCount := 0

consume:
	for {
		select {
		case <-ctx.Done():
			handle.Close()
			return nil, ctx.Err()
		case item, ok := <-input:
			if !ok {
				break consume
			}
			buffer = append(buffer, item)
			s.stats.IncCounter(stats.MetricItemsConsumed, 1)

			if len(buffer) > s.maxBuffered {
				if err := s.flushRun(handle, &buffer, runCount); err != nil {
					handle.Close()
					return nil, err
				}
				runCount++
				s.reportProgress(progress.Progress{Phase: progress.PhaseFlush, RunsCreated: runCount, StartTime: start})
			}
		}
	}

	var passThrough []T
	switch {
	case runCount > 0 && len(buffer) > 0:
		if err := s.flushRun(handle, &buffer, runCount); err != nil {
			handle.Close()
			return nil, err
		}
		runCount++
	case runCount == 0:
		sortItems(buffer)
		passThrough = buffer
	}

	it, err := newMergeIterator(handle, s.codec, passThrough, runCount, s.logger, s.stats)
	if err != nil {
		handle.Close()
		return nil, err
	}

	s.reportProgress(progress.Progress{Phase: progress.PhaseDone, RunsCreated: runCount, StartTime: start})
	return it, nil
}

// flushRun sorts the current buffer and writes it as run number index,
// then clears the buffer for reuse.
func (s *Sorter[T]) flushRun(h scratch.Handle, buf *[]T, index int) error {
	items := *buf
	sortItems(items)

	w, err := h.CreateRun(index)
	if err != nil {
		return fmt.Errorf("extsort: creating run %d: %w", index, err)
	}

	bw := bufWriterPool.Get().(*bufio.Writer)
	bw.Reset(w)
	defer func() {
		bw.Reset(nil)
		bufWriterPool.Put(bw)
	}()

	for _, item := range items {
		if err := s.codec.Encode(bw, item); err != nil {
			w.Close()
			return fmt.Errorf("extsort: encoding item into run %d: %w", index, err)
		}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return fmt.Errorf("extsort: flushing run %d: %w", index, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("extsort: closing run %d: %w", index, err)
	}

	*buf = items[:0]
	s.stats.IncCounter(stats.MetricRunsSpilled, 1)
	s.logger.Debug("spilled run", zap.Int("run", index), zap.Int("items", len(items)))
	return nil
}

func (s *Sorter[T]) reportProgress(p progress.Progress) {
	if s.progress != nil {
		s.progress(p)
	}
}

func sortItems[T Ordered[T]](items []T) {
	slices.SortFunc(items, func(a, b T) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
