package extsort_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/duskline/extsort"
	"github.com/duskline/extsort/codec/uint32codec"
	"github.com/duskline/extsort/internal/scratch/memscratch"
)

func collect[T any](it interface{ Next() (T, bool) }) []T {
	var out []T
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func send(t *testing.T, values []uint32) <-chan uint32codec.Value {
	t.Helper()
	ch := make(chan uint32codec.Value)
	go func() {
		defer close(ch)
		for _, v := range values {
			ch <- uint32codec.Value(v)
		}
	}()
	return ch
}

func assertAscending(t *testing.T, got []uint32codec.Value, wantLen int) {
	t.Helper()
	if len(got) != wantLen {
		t.Fatalf("got %d items, want %d", len(got), wantLen)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("output not ascending at index %d: %v then %v", i, got[i-1], got[i])
		}
	}
}

func TestSorter_PassThrough_NoScratchFilesWritten(t *testing.T) {
	dir := t.TempDir()
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(10),
		extsort.WithScratchDir(dir),
	)

	it, err := s.Sort(context.Background(), send(t, []uint32{5, 3, 1, 4, 2}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	got := collect[uint32codec.Value](it)
	assertAscending(t, got, 5)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("pass-through sort wrote %d files to scratch dir, want 0", len(entries))
	}
}

func TestSorter_PassThrough_ExactlyMaxBuffered(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(5),
		extsort.WithScratchHandle(memscratch.New()),
	)

	it, err := s.Sort(context.Background(), send(t, []uint32{5, 4, 3, 2, 1}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	assertAscending(t, collect[uint32codec.Value](it), 5)
}

func TestSorter_Merge_MultipleRuns(t *testing.T) {
	dir := t.TempDir()
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(2),
		extsort.WithScratchDir(dir),
	)

	values := []uint32{9, 1, 8, 2, 7, 3, 6, 4, 5}
	it, err := s.Sort(context.Background(), send(t, values))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}

	got := collect[uint32codec.Value](it)
	assertAscending(t, got, len(values))

	// 9 items, buffer of 2: every flush happens as soon as len(buffer) > 2,
	// i.e. at 3 items, so three runs of 3 items each and no residue.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected run files to be written, found none")
	}
	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(dir, e.Name())); err != nil {
			t.Errorf("run file %s missing: %v", e.Name(), err)
		}
	}

	if err := it.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Borrowed scratch dir must survive Close.
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("borrowed scratch dir removed after Close(): %v", err)
	}
}

func TestSorter_MaxBufferedZero_SpillsEveryItem(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(0),
		extsort.WithScratchHandle(memscratch.New()),
	)

	it, err := s.Sort(context.Background(), send(t, []uint32{3, 1, 2}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	assertAscending(t, collect[uint32codec.Value](it), 3)
}

func TestSorter_EmptyInput(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithScratchHandle(memscratch.New()),
	)

	ch := make(chan uint32codec.Value)
	close(ch)

	it, err := s.Sort(context.Background(), ch)
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	if _, ok := it.Next(); ok {
		t.Error("Next() on an empty sort returned ok = true")
	}
}

func TestSorter_ContextCancellation(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithScratchHandle(memscratch.New()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan uint32codec.Value)
	cancel()

	_, err := s.Sort(ctx, ch)
	if err == nil {
		t.Fatal("Sort() with a canceled context should return an error")
	}
}

func TestSorter_SortCalledTwice(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithScratchHandle(memscratch.New()),
	)

	ch1 := make(chan uint32codec.Value)
	close(ch1)
	it, err := s.Sort(context.Background(), ch1)
	if err != nil {
		t.Fatalf("first Sort() error = %v", err)
	}
	it.Close()

	ch2 := make(chan uint32codec.Value)
	close(ch2)
	if _, err := s.Sort(context.Background(), ch2); err == nil {
		t.Error("second Sort() on the same Sorter should error")
	}
}

func TestSorter_DefaultScratch_OwnedDirWorksEndToEnd(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{}, extsort.WithMaxBuffered(1))

	it, err := s.Sort(context.Background(), send(t, []uint32{3, 1, 2, 4}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	collect[uint32codec.Value](it)

	if err := it.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
