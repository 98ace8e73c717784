package query

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// ArgKind tags a canonical query argument's payload shape (spec §4.6:
// "length-prefixed byte stream with a deterministic type-tag-then-payload
// form").
type ArgKind uint8

const (
	ArgCID ArgKind = iota
	ArgInt
	ArgString
)

// Arg is one canonical query argument. Exactly one of the fields is
// meaningful, selected by Kind.
type Arg struct {
	Kind ArgKind
	CID  [32]byte
	Int  int64
	Str  string
}

// CIDArg builds a CID-kind argument.
func CIDArg(c [32]byte) Arg { return Arg{Kind: ArgCID, CID: c} }

// IntArg builds an integer-kind argument.
func IntArg(v int64) Arg { return Arg{Kind: ArgInt, Int: v} }

// StringArg builds a string-kind argument.
func StringArg(s string) Arg { return Arg{Kind: ArgString, Str: s} }

// EncodeArgs renders args into the canonical byte stream of spec §4.6:
// CIDs as raw 32 bytes, integers as fixed-width little-endian int64,
// strings as `u32 length | UTF-8 bytes`. Returns ErrNonCanonicalArg
// (QE0005) if any string argument is not well-formed UTF-8.
func EncodeArgs(args []Arg) ([]byte, error) {
	var out []byte
	for i, a := range args {
		out = append(out, byte(a.Kind))
		switch a.Kind {
		case ArgCID:
			out = append(out, a.CID[:]...)
		case ArgInt:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(a.Int))
			out = append(out, buf[:]...)
		case ArgString:
			if !utf8.ValidString(a.Str) {
				return nil, fmt.Errorf("%w: argument %d is not valid UTF-8", ErrNonCanonicalArg, i)
			}
			var lenBuf [4]byte
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(a.Str)))
			out = append(out, lenBuf[:]...)
			out = append(out, a.Str...)
		default:
			return nil, fmt.Errorf("%w: argument %d has unknown kind %d", ErrNonCanonicalArg, i, a.Kind)
		}
	}
	return out, nil
}

// DecodeArgs parses the canonical byte stream EncodeArgs produces. Round-
// tripping encode→decode reproduces the original argument list bit-for-bit
// (spec §4.6 invariant).
func DecodeArgs(data []byte) ([]Arg, error) {
	var out []Arg
	for len(data) > 0 {
		kind := ArgKind(data[0])
		data = data[1:]
		switch kind {
		case ArgCID:
			if len(data) < 32 {
				return nil, fmt.Errorf("%w: truncated CID argument", ErrNonCanonicalArg)
			}
			var c [32]byte
			copy(c[:], data[:32])
			out = append(out, CIDArg(c))
			data = data[32:]
		case ArgInt:
			if len(data) < 8 {
				return nil, fmt.Errorf("%w: truncated int argument", ErrNonCanonicalArg)
			}
			v := int64(binary.LittleEndian.Uint64(data[:8]))
			out = append(out, IntArg(v))
			data = data[8:]
		case ArgString:
			if len(data) < 4 {
				return nil, fmt.Errorf("%w: truncated string length", ErrNonCanonicalArg)
			}
			n := int(binary.LittleEndian.Uint32(data[:4]))
			data = data[4:]
			if len(data) < n {
				return nil, fmt.Errorf("%w: truncated string payload", ErrNonCanonicalArg)
			}
			s := string(data[:n])
			if !utf8.ValidString(s) {
				return nil, fmt.Errorf("%w: string argument is not valid UTF-8", ErrNonCanonicalArg)
			}
			out = append(out, StringArg(s))
			data = data[n:]
		default:
			return nil, fmt.Errorf("%w: unknown argument kind %d", ErrNonCanonicalArg, kind)
		}
	}
	return out, nil
}
