// Package interner implements the UTF-8 string interner described in
// spec §4.1: content-equal byte slices dedup to the same StrId, and lookup
// is deterministic independent of insertion order. An Interner may be
// shared across snapshots (passed in by reference) or scoped to one; either
// usage is valid, see spec §3.3.
package interner

import (
	"errors"
	"unicode/utf8"

	"github.com/janus-lang/astdb/internal/arena"
	"github.com/janus-lang/astdb/internal/ids"
)

// ErrNonCanonicalString is returned by Intern in strict mode when the input
// is not well-formed UTF-8 (spec §4.1's NonCanonicalString failure mode).
// Full NFC normalization is not independently re-verified here — the
// interner assumes NFC input per spec §3.2 and only rejects input that is
// not even valid UTF-8, which is the one canonicalization defect it can
// detect without an external normalization table.
var ErrNonCanonicalString = errors.New("interner: input is not valid UTF-8")

// Option configures an Interner at construction time.
type Option func(*Interner)

// Strict enables NonCanonicalString rejection for malformed UTF-8 input.
func Strict(i *Interner) { i.strict = true }

// Interner deduplicates interned byte content against a shared arena.
type Interner struct {
	arena   *arena.Arena
	index   map[string]ids.StrId // keyed by the interned bytes, aliases arena storage
	entries []arena.Span
	strict  bool
}

// New creates an Interner backed by a fresh arena.
func New(opts ...Option) *Interner {
	i := &Interner{
		arena: arena.New(0),
		index: make(map[string]ids.StrId),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Intern returns the StrId for b, inserting it if no byte-equal entry
// exists yet. intern(a) == intern(b) iff a and b are byte-equal (spec
// §4.1's contract).
func (i *Interner) Intern(b []byte) (ids.StrId, error) {
	if i.strict && !utf8.Valid(b) {
		return ids.InvalidStrId, ErrNonCanonicalString
	}
	if id, ok := i.index[string(b)]; ok {
		return id, nil
	}
	span := i.arena.Append(b)
	id := ids.StrId(len(i.entries))
	i.entries = append(i.entries, span)
	// i.arena.Bytes(span) aliases the arena's own storage, so using it as
	// the map key (rather than the caller's b) keeps the key alive for the
	// interner's lifetime without a second copy.
	i.index[string(i.arena.Bytes(span))] = id
	return id, nil
}

// InternString is a convenience wrapper over Intern for string input.
func (i *Interner) InternString(s string) (ids.StrId, error) {
	return i.Intern([]byte(s))
}

// Get returns the bytes interned under id. The returned slice aliases the
// interner's arena and must not be mutated.
func (i *Interner) Get(id ids.StrId) ([]byte, bool) {
	if !id.IsValid() || int(id) >= len(i.entries) {
		return nil, false
	}
	return i.arena.Bytes(i.entries[id]), true
}

// Find performs a non-inserting lookup.
func (i *Interner) Find(b []byte) (ids.StrId, bool) {
	id, ok := i.index[string(b)]
	return id, ok
}

// Len reports the number of distinct interned strings.
func (i *Interner) Len() int { return len(i.entries) }
