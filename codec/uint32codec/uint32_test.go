package uint32codec

import (
	"bufio"
	"bytes"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	values := []Value{0, 1, 42, 1 << 31, ^Value(0)}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	c := Codec{}
	for _, v := range values {
		if err := c.Encode(w, v); err != nil {
			t.Fatalf("Encode(%d) error = %v", v, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	r := bufio.NewReader(&buf)
	for _, want := range values {
		got, ok := c.Decode(r)
		if !ok {
			t.Fatalf("Decode() ok = false, want true for %d", want)
		}
		if got != want {
			t.Errorf("Decode() = %d, want %d", got, want)
		}
	}

	if _, ok := c.Decode(r); ok {
		t.Error("Decode() at end-of-stream returned ok = true")
	}
}

func TestValue_Less(t *testing.T) {
	if !Value(1).Less(Value(2)) {
		t.Error("1.Less(2) = false, want true")
	}
	if Value(2).Less(Value(1)) {
		t.Error("2.Less(1) = true, want false")
	}
	if Value(1).Less(Value(1)) {
		t.Error("1.Less(1) = true, want false")
	}
}

func TestCodec_DecodeShortRead(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{1, 2}))
	c := Codec{}
	if _, ok := c.Decode(r); ok {
		t.Error("Decode() on a short buffer returned ok = true")
	}
}
