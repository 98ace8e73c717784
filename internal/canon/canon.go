// Package canon implements the canonical byte serializer of spec §4.3:
// a deterministic encoding of a node, declaration, or module that is
// identical for any two subjects with the same semantic content regardless
// of source position, whitespace, comments, or incidental ID assignment.
//
// Children never serialize by value — only by their already-computed CID
// (the Merkle fold, spec §4.3/§4.4) — so this package never recurses on
// its own; internal/cid drives the post-order walk and supplies each
// child's CID.
package canon

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// Frame tags, spec §4.3.
const (
	tagNode   = 'N'
	tagDecl   = 'D'
	tagModule = 'M'
	tagString = 'S'
)

// Sentinel errors, spec §4.3's failure modes.
var (
	ErrInvalidNodeId      = errors.New("canon: invalid node id")
	ErrInvalidDeclId      = errors.New("canon: invalid decl id")
	ErrInvalidToken       = errors.New("canon: invalid token id")
	ErrInvalidIntLiteral  = errors.New("canon: token text is not a valid signed decimal integer")
	ErrInvalidFloatLiteral = errors.New("canon: token text is not a valid IEEE-754 double")
)

// canonicalQuietNaN is the single bit pattern every NaN float literal
// normalizes to (spec §4.3: "normalize NaNs to a single canonical quiet
// NaN").
var canonicalQuietNaN = math.Float64bits(math.NaN())

// putString appends an 'S'-tagged frame: uleb128(len) | bytes.
func putString(buf []byte, b []byte) []byte {
	buf = append(buf, tagString)
	buf = PutUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func tokenText(snap *snapshot.Snapshot, tok ids.TokenId) ([]byte, error) {
	t, ok := snap.GetToken(tok)
	if !ok {
		return nil, ErrInvalidToken
	}
	b, ok := snap.Interner().Get(t.Str)
	if !ok {
		return nil, ErrInvalidToken
	}
	return b, nil
}

// EncodeNode produces the canonical 'N' frame for node, given the
// already-computed CIDs of its children in order (spec §4.3: "children as
// ordered concatenation of their CIDs"). The caller (internal/cid) is
// responsible for the post-order walk that computes childCIDs.
func EncodeNode(snap *snapshot.Snapshot, id ids.NodeId, childCIDs [][32]byte) ([]byte, error) {
	n, ok := snap.GetNode(id)
	if !ok {
		return nil, ErrInvalidNodeId
	}

	buf := make([]byte, 0, 32+len(childCIDs)*32)
	buf = append(buf, tagNode)
	buf = PutUvarint(buf, uint64(n.Kind))
	buf = PutUvarint(buf, uint64(len(childCIDs)))

	payload, err := encodePayload(snap, id, n)
	if err != nil {
		return nil, err
	}
	buf = append(buf, payload...)

	for _, c := range childCIDs {
		buf = append(buf, c[:]...)
	}
	return buf, nil
}

// encodePayload implements the normalization table of spec §4.3 keyed on
// node kind.
func encodePayload(snap *snapshot.Snapshot, id ids.NodeId, n snapshot.Node) ([]byte, error) {
	switch n.Kind {
	case snapshot.NodeIntLiteral:
		text, err := tokenText(snap, n.FirstToken)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(string(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIntLiteral, text)
		}
		return PutVarint(nil, v), nil

	case snapshot.NodeFloatLiteral:
		text, err := tokenText(snap, n.FirstToken)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFloatLiteral, text)
		}
		bits := math.Float64bits(v)
		if math.IsNaN(v) {
			bits = canonicalQuietNaN
		} else if v == 0 && math.Signbit(v) {
			// normalize -0.0 to +0.0 (spec §4.3)
			bits = math.Float64bits(0)
		}
		out := make([]byte, 8)
		for i := 0; i < 8; i++ {
			out[i] = byte(bits >> (56 - 8*i))
		}
		return out, nil

	case snapshot.NodeStringLiteral:
		text, err := tokenText(snap, n.FirstToken)
		if err != nil {
			return nil, err
		}
		return putString(nil, text), nil

	case snapshot.NodeBoolLiteral:
		text, err := tokenText(snap, n.FirstToken)
		if err != nil {
			return nil, err
		}
		if string(text) == "true" {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case snapshot.NodeNullLiteral:
		return nil, nil

	case snapshot.NodeIdentifier:
		text, err := tokenText(snap, n.FirstToken)
		if err != nil {
			return nil, err
		}
		return putString(nil, text), nil

	case snapshot.NodeBinaryExpr:
		opTok, ok := operatorToken(snap, id, n)
		if !ok {
			return nil, ErrInvalidToken
		}
		t, _ := snap.GetToken(opTok)
		return PutUvarint(nil, uint64(t.SubKind)), nil

	case snapshot.NodeFuncDecl:
		return encodeFuncDeclPayload(snap, id, n)

	default:
		// Generic/other nodes: no payload beyond the frame header;
		// structure is fully captured by children (spec §4.3).
		return nil, nil
	}
}

// operatorToken implements the binary_expr operator-token heuristic of
// spec §4.5/§9 Open Question 1: left.last_token + 1. Preserved as
// specified; no explicit operator field was added (see DESIGN.md).
func operatorToken(snap *snapshot.Snapshot, id ids.NodeId, n snapshot.Node) (ids.TokenId, bool) {
	children := snap.Children(id)
	if len(children) == 0 {
		return ids.InvalidTokenId, false
	}
	lhs, ok := snap.GetNode(children[0])
	if !ok {
		return ids.InvalidTokenId, false
	}
	return lhs.LastToken + 1, true
}

// encodeFuncDeclPayload implements spec §4.3's function-declaration
// summary fields: name string, then parameter count, return-type presence
// flag, effect mask, profile mask. Parameter/body detail flows through
// child CIDs, not through this payload.
func encodeFuncDeclPayload(snap *snapshot.Snapshot, id ids.NodeId, n snapshot.Node) ([]byte, error) {
	nameText, err := tokenText(snap, n.FirstToken)
	if err != nil {
		return nil, err
	}
	children := snap.Children(id)
	// Children: [name, params, return_type?, body] (spec §4.5).
	hasReturnType := len(children) == 4
	paramCount := 0
	if len(children) >= 2 {
		paramCount = len(snap.Children(children[1]))
	}

	buf := putString(nil, nameText)
	buf = PutUvarint(buf, uint64(paramCount))
	if hasReturnType {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = PutUvarint(buf, n.EffectMask)
	buf = PutUvarint(buf, uint64(n.ProfileMask))
	return buf, nil
}

// EncodeDecl produces the canonical 'D' frame for a declaration, given the
// already-computed CID of its defining node.
func EncodeDecl(snap *snapshot.Snapshot, id ids.DeclId, nodeCID [32]byte) ([]byte, error) {
	d, ok := snap.GetDecl(id)
	if !ok {
		return nil, ErrInvalidDeclId
	}
	nameBytes, ok := snap.Interner().Get(d.Name)
	if !ok {
		return nil, ErrInvalidDeclId
	}

	buf := []byte{tagDecl}
	buf = PutUvarint(buf, uint64(d.Kind))
	buf = putString(buf, nameBytes)
	buf = PutUvarint(buf, uint64(d.Type))
	buf = append(buf, nodeCID[:]...)
	return buf, nil
}

// EncodeModule produces the canonical 'M' frame given the ordered item
// CIDs a host has already computed (spec §9 Open Question 3, resolved in
// DESIGN.md: declaration insertion order).
func EncodeModule(itemCIDs [][32]byte) []byte {
	buf := []byte{tagModule}
	buf = PutUvarint(buf, uint64(len(itemCIDs)))
	for _, c := range itemCIDs {
		buf = append(buf, c[:]...)
	}
	return buf
}
