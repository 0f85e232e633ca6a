package extsort_test

import (
	"context"
	"testing"

	"github.com/duskline/extsort"
	"github.com/duskline/extsort/codec/uint32codec"
	"github.com/duskline/extsort/internal/scratch/memscratch"
)

func TestMergeIterator_CloseIsIdempotent(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(1),
		extsort.WithScratchHandle(memscratch.New()),
	)

	it, err := s.Sort(context.Background(), send(t, []uint32{2, 1, 3}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}

	if err := it.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMergeIterator_NextAfterExhaustionStaysFalse(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(1),
		extsort.WithScratchHandle(memscratch.New()),
	)

	it, err := s.Sort(context.Background(), send(t, []uint32{1}))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	if _, ok := it.Next(); !ok {
		t.Fatal("Next() on first call = false, want true")
	}
	for i := 0; i < 3; i++ {
		if _, ok := it.Next(); ok {
			t.Errorf("Next() call %d after exhaustion returned ok = true", i)
		}
	}
}

func TestMergeIterator_All_MatchesNext(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(2),
		extsort.WithScratchHandle(memscratch.New()),
	)

	values := []uint32{4, 2, 9, 1, 7, 3}
	it, err := s.Sort(context.Background(), send(t, values))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	var got []uint32codec.Value
	for v := range it.All() {
		got = append(got, v)
	}
	assertAscending(t, got, len(values))
}

func TestMergeIterator_DuplicateKeysAllSurvive(t *testing.T) {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{},
		extsort.WithMaxBuffered(1),
		extsort.WithScratchHandle(memscratch.New()),
	)

	values := []uint32{5, 5, 5, 1, 1}
	it, err := s.Sort(context.Background(), send(t, values))
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	defer it.Close()

	got := collect[uint32codec.Value](it)
	assertAscending(t, got, len(values))

	counts := map[uint32codec.Value]int{}
	for _, v := range got {
		counts[v]++
	}
	if counts[5] != 3 || counts[1] != 2 {
		t.Errorf("counts = %v, want {5:3, 1:2}", counts)
	}
}
