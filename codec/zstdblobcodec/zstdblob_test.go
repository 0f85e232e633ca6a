package zstdblobcodec

import (
	"bufio"
	"bytes"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	records := []Record{
		{ID: 3, Payload: []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")},
		{ID: 1, Payload: []byte{}},
		{ID: 2, Payload: bytes.Repeat([]byte("x"), 4096)},
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for _, r := range records {
		if err := c.Encode(w, r); err != nil {
			t.Fatalf("Encode(%d) error = %v", r.ID, err)
		}
	}
	w.Flush()

	br := bufio.NewReader(&buf)
	for _, want := range records {
		got, ok := c.Decode(br)
		if !ok {
			t.Fatalf("Decode() ok = false, want true for id %d", want.ID)
		}
		if got.ID != want.ID || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("Decode() = %+v, want %+v", got, want)
		}
	}

	if _, ok := c.Decode(br); ok {
		t.Error("Decode() at end-of-stream returned ok = true")
	}
}

func TestRecord_Less(t *testing.T) {
	if !(Record{ID: 1}).Less(Record{ID: 2}) {
		t.Error("Record{1}.Less(Record{2}) = false, want true")
	}
}
