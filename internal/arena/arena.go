// Package arena implements the bump allocator that backs interned string
// bytes for a single snapshot (spec §3.3, "A Snapshot exclusively owns a
// bump arena"). Every append copies into the arena's backing slice and
// returns a stable (offset, length) pair; because callers only ever receive
// offsets, not pointers, growing the backing slice never invalidates a
// previously returned handle the way a reallocated raw pointer would.
package arena

// Span identifies a byte range previously appended to an Arena.
type Span struct {
	Offset uint32
	Length uint32
}

// Arena is an append-only byte buffer. The zero value is ready to use.
type Arena struct {
	buf []byte
}

// New returns an Arena pre-sized to hold at least capacity bytes before its
// first reallocation.
func New(capacity int) *Arena {
	return &Arena{buf: make([]byte, 0, capacity)}
}

// Append copies b into the arena and returns the Span it now occupies.
func (a *Arena) Append(b []byte) Span {
	off := uint32(len(a.buf))
	a.buf = append(a.buf, b...)
	return Span{Offset: off, Length: uint32(len(b))}
}

// Bytes returns the slice previously appended at s. The returned slice
// aliases the arena's storage and must not be mutated or retained past the
// arena's lifetime.
func (a *Arena) Bytes(s Span) []byte {
	return a.buf[s.Offset : s.Offset+s.Length]
}

// Len returns the number of bytes currently stored in the arena.
func (a *Arena) Len() int { return len(a.buf) }

// Reset discards all stored bytes, freeing the arena in O(1) (spec §3.3,
// "Destruction frees the arena in O(1)"). Any Span handed out before Reset
// must not be used afterward.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
}
