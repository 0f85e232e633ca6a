// Package uint32codec provides an Ordered/Codec pair for uint32 values,
// encoded as 4 little-endian bytes with no framing — the encoding used
// throughout this module's seed test scenarios.
package uint32codec

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Value is a uint32 with a natural ascending order.
type Value uint32

// Less reports whether v sorts before other.
func (v Value) Less(other Value) bool {
	return v < other
}

// Codec encodes and decodes Value as 4 little-endian bytes.
type Codec struct{}

// Encode writes item as 4 little-endian bytes.
func (Codec) Encode(w *bufio.Writer, item Value) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(item))
	_, err := w.Write(buf[:])
	return err
}

// Decode reads 4 little-endian bytes and returns the Value they encode.
// The second return is false at end-of-stream or on a short read.
func (Codec) Decode(r *bufio.Reader) (Value, bool) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, false
	}
	return Value(binary.LittleEndian.Uint32(buf[:])), true
}
