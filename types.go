package extsort

import "bufio"

// Ordered is the capability a caller attaches to an item type to give it
// a total order. The engine never inspects T's fields; it only ever
// calls Less.
type Ordered[T any] interface {
	// Less reports whether the receiver sorts strictly before other.
	// Implementations must define a strict total order: exactly one of
	// a.Less(b), b.Less(a) holds for any a != b, and neither holds for
	// a == b under the type's own equality.
	Less(other T) bool
}

// Codec is the capability a caller attaches to an item type to
// (de)serialize it to a self-delimiting byte representation. The
// engine never adds its own framing around what Encode writes; Decode
// is responsible for knowing where one encoded item ends.
//
// Decode takes a *bufio.Reader, not a bare io.Reader, because the
// engine keeps exactly one buffered reader open per run and calls
// Decode repeatedly against it: an implementation that needs
// multi-call buffered reads (bufio.Reader.ReadString, for example) can
// rely on that reader's buffer surviving across calls.
type Codec[T any] interface {
	// Encode writes one item to w.
	Encode(w *bufio.Writer, item T) error

	// Decode reads one item from r. The second return is false at
	// end-of-stream or on a malformed record; the engine treats both
	// identically, since it has no way to tell them apart.
	Decode(r *bufio.Reader) (T, bool)
}
