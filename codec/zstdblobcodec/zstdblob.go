// Package zstdblobcodec provides a Codec for records whose payload is
// zstd-compressed before it is framed onto the wire. This is a
// caller-chosen, per-item compression: the engine itself never
// compresses run files, it just writes whatever bytes Encode produces.
package zstdblobcodec

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Record pairs an ordering key with an opaque, independently
// compressed payload.
type Record struct {
	ID      uint64
	Payload []byte
}

// Less orders Records by ID.
func (r Record) Less(other Record) bool {
	return r.ID < other.ID
}

// Codec encodes a Record as a uvarint ID, a uvarint compressed-length,
// and the zstd-compressed payload.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a Codec with a shared zstd encoder/decoder pair. A Codec
// value must not be copied after first use.
func New() (*Codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Codec{encoder: enc, decoder: dec}, nil
}

// Encode writes item with its payload zstd-compressed.
func (c *Codec) Encode(w *bufio.Writer, item Record) error {
	compressed := c.encoder.EncodeAll(item.Payload, nil)

	var idBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(idBuf[:], item.ID)
	if _, err := w.Write(idBuf[:n]); err != nil {
		return err
	}

	var lenBuf [binary.MaxVarintLen64]byte
	n = binary.PutUvarint(lenBuf[:], uint64(len(compressed)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}

	_, err := w.Write(compressed)
	return err
}

// Decode reads one Record and decompresses its payload. The second
// return is false at end-of-stream or on a malformed record.
func (c *Codec) Decode(r *bufio.Reader) (Record, bool) {
	id, err := binary.ReadUvarint(r)
	if err != nil {
		return Record{}, false
	}

	length, err := binary.ReadUvarint(r)
	if err != nil {
		return Record{}, false
	}

	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return Record{}, false
	}

	payload, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Record{}, false
	}

	return Record{ID: id, Payload: payload}, true
}
