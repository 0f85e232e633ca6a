package extsort

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/duskline/extsort/internal/heap"
	"github.com/duskline/extsort/internal/scratch"
	"github.com/duskline/extsort/internal/stats"
)

// runCursor tracks one open run: its underlying reader and the buffered
// reader decoding from it. The run's current head item, if any, is held
// in the merge heap, not here.
type runCursor[T any] struct {
	r  io.ReadCloser
	br *bufio.Reader
}

// MergeIterator lazily yields items in ascending order. It is in
// exactly one of two modes for its whole lifetime: serving directly
// from an in-memory pass-through queue, or k-way merging the heads of
// every spilled run. Which mode applies is decided once, at
// construction, by the Sorter that built it.
type MergeIterator[T Ordered[T]] struct {
	codec   Codec[T]
	scratch scratch.Handle
	logger  *zap.Logger
	stats   stats.Collector

	passThrough []T
	ptIndex     int

	runs []*runCursor[T]
	h    *heap.Heap[T]

	closed bool
}

func newMergeIterator[T Ordered[T]](h scratch.Handle, codec Codec[T], passThrough []T, runCount int, logger *zap.Logger, collector stats.Collector) (*MergeIterator[T], error) {
	it := &MergeIterator[T]{
		codec:   codec,
		scratch: h,
		logger:  logger,
		stats:   collector,
	}

	if passThrough != nil {
		it.passThrough = passThrough
		logger.Debug("merge iterator serving pass-through queue", zap.Int("items", len(passThrough)))
		return it, nil
	}

	it.runs = make([]*runCursor[T], runCount)
	it.h = heap.New[T](runCount)

	for i := 0; i < runCount; i++ {
		r, err := h.OpenRun(i)
		if err != nil {
			it.closeRuns()
			return nil, fmt.Errorf("extsort: opening run %d: %w", i, err)
		}
		br := bufReaderPool.Get().(*bufio.Reader)
		br.Reset(r)
		it.runs[i] = &runCursor[T]{r: r, br: br}
		collector.IncCounter(stats.MetricRunsMerged, 1)

		if item, ok := codec.Decode(br); ok {
			it.h.Push(item, i)
		}
	}

	logger.Debug("merge iterator built", zap.Int("runs", runCount))
	return it, nil
}

// Next returns the next item in ascending order, or false if the
// iterator is exhausted. Among equal-keyed items, no particular
// relationship to input order is guaranteed.
func (it *MergeIterator[T]) Next() (T, bool) {
	if it.passThrough != nil {
		if it.ptIndex >= len(it.passThrough) {
			var zero T
			return zero, false
		}
		v := it.passThrough[it.ptIndex]
		it.ptIndex++
		return v, true
	}

	value, run, ok := it.h.Pop()
	if !ok {
		var zero T
		return zero, false
	}
	it.refill(run)
	it.stats.ObserveHistogram(stats.MetricMergeHeapSize, float64(it.h.Len()))
	return value, true
}

func (it *MergeIterator[T]) refill(run int) {
	cur := it.runs[run]
	if item, ok := it.codec.Decode(cur.br); ok {
		it.h.Push(item, run)
	}
}

// All returns a range-over-func sequence that yields the same items as
// repeated calls to Next.
func (it *MergeIterator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Close releases every run reader and the scratch handle. An
// engine-owned scratch directory is removed; a caller-supplied one is
// left untouched. Close is idempotent.
func (it *MergeIterator[T]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true

	firstErr := it.closeRuns()
	if err := it.scratch.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("extsort: closing scratch space: %w", err)
	}
	return firstErr
}

func (it *MergeIterator[T]) closeRuns() error {
	var firstErr error
	for _, cur := range it.runs {
		if cur == nil {
			continue
		}
		cur.br.Reset(nil)
		bufReaderPool.Put(cur.br)
		if err := cur.r.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("extsort: closing run reader: %w", err)
		}
	}
	return firstErr
}
