// Package linecodec provides an Ordered/Codec pair for newline-delimited
// strings.
package linecodec

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Item is a line of text, ordered lexicographically.
type Item string

// Less reports whether i sorts before other, byte-wise.
func (i Item) Less(other Item) bool {
	return i < other
}

// Codec encodes and decodes Item as a single newline-terminated line.
// Item values must not themselves contain '\n'.
type Codec struct{}

// Encode writes item followed by a newline.
func (Codec) Encode(w *bufio.Writer, item Item) error {
	if strings.ContainsRune(string(item), '\n') {
		return fmt.Errorf("linecodec: item contains a newline")
	}
	if _, err := w.WriteString(string(item)); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// Decode reads one newline-terminated line. The second return is false
// at end-of-stream.
func (Codec) Decode(r *bufio.Reader) (Item, bool) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return Item(line), true
		}
		return "", false
	}
	return Item(strings.TrimSuffix(line, "\n")), true
}
