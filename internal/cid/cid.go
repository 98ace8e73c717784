// Package cid implements spec §4.4's content-identifier computation:
// BLAKE3-256 over the canonical byte stream of a subject (internal/canon),
// domain-separated by a fixed-layout toolchain-knob block and target
// triple. It drives the post-order Merkle fold described in spec §4.3 —
// internal/canon never recurses on its own; this package supplies each
// child's already-computed CID.
package cid

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/janus-lang/astdb/internal/canon"
	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// CID is a 32-byte BLAKE3-256 output identifying a subject's canonical
// semantic content (spec §3.1).
type CID [32]byte

// SubjectKind tags which table a CIDSubject refers to (spec §3.1: "a
// CIDSubject is one of {Node(NodeId), Decl(DeclId), Module}"). Modeled as
// an exhaustive tagged variant rather than an interface, per spec §9's
// design note.
type SubjectKind uint8

const (
	SubjectNode SubjectKind = iota
	SubjectDecl
	SubjectModule
)

// Subject identifies what computeCID hashes.
type Subject struct {
	Kind SubjectKind
	Node ids.NodeId // valid iff Kind == SubjectNode
	Decl ids.DeclId // valid iff Kind == SubjectDecl
}

// NodeSubject builds a Subject for a node.
func NodeSubject(id ids.NodeId) Subject { return Subject{Kind: SubjectNode, Node: id} }

// DeclSubject builds a Subject for a declaration.
func DeclSubject(id ids.DeclId) Subject { return Subject{Kind: SubjectDecl, Decl: id} }

// ModuleSubject builds the Subject for the whole module.
func ModuleSubject() Subject { return Subject{Kind: SubjectModule} }

var (
	// ErrInvalidSubject is returned when Subject references an id absent
	// from the snapshot.
	ErrInvalidSubject = errors.New("cid: invalid subject")
)

// knobBlockLen is the fixed 20-byte layout of spec §4.4 step 3:
// u32 toolchain_version | u32 profile_mask | u64 effect_mask |
// u8 safety_level | u8 fastmath | u8 deterministic | u8 reserved=0.
const knobBlockLen = 4 + 4 + 8 + 1 + 1 + 1 + 1

func packKnobBlock(o Opts) []byte {
	buf := make([]byte, knobBlockLen)
	binary.LittleEndian.PutUint32(buf[0:4], o.ToolchainVersion)
	binary.LittleEndian.PutUint32(buf[4:8], o.ProfileMask)
	binary.LittleEndian.PutUint64(buf[8:16], o.EffectMask)
	buf[16] = o.SafetyLevel
	if o.Fastmath {
		buf[17] = 1
	}
	if o.Deterministic {
		buf[18] = 1
	}
	buf[19] = 0 // reserved
	return buf
}

func packTargetTriple(triple string) []byte {
	buf := make([]byte, 4, 4+len(triple))
	binary.LittleEndian.PutUint32(buf, uint32(len(triple)))
	return append(buf, triple...)
}

// Compute implements `computeCID(snapshot, subject, opts) -> CID` (spec
// §4.4 and §6's `cid_of`). It recursively computes and memoizes child
// node CIDs in the snapshot's CID cache (spec §3.2/§4.2) before folding
// the subject's own frame.
func Compute(snap *snapshot.Snapshot, subject Subject, opts Opts) (CID, error) {
	var subjectBytes []byte
	var err error

	switch subject.Kind {
	case SubjectNode:
		subjectBytes, err = computeNodeCanonical(snap, subject.Node, opts)
	case SubjectDecl:
		var nodeCID CID
		d, ok := snap.GetDecl(subject.Decl)
		if !ok {
			return CID{}, fmt.Errorf("%w: decl %v", ErrInvalidSubject, subject.Decl)
		}
		nodeCID, err = computeNodeCIDCached(snap, d.Node, opts)
		if err != nil {
			return CID{}, err
		}
		subjectBytes, err = canon.EncodeDecl(snap, subject.Decl, [32]byte(nodeCID))
	case SubjectModule:
		subjectBytes, err = computeModuleCanonical(snap, opts)
	default:
		return CID{}, fmt.Errorf("%w: unknown subject kind %d", ErrInvalidSubject, subject.Kind)
	}
	if err != nil {
		return CID{}, err
	}

	return finalize(subjectBytes, opts), nil
}

// finalize hashes subjectBytes with the knob block and target triple
// appended, per spec §4.4 steps 2-5.
func finalize(subjectBytes []byte, opts Opts) CID {
	h := blake3.New()
	h.Write(subjectBytes)
	h.Write(packKnobBlock(opts))
	h.Write(packTargetTriple(opts.TargetTriple))

	var out CID
	copy(out[:], h.Sum(nil))
	return out
}

// computeNodeCIDCached returns the memoized CID for id if the snapshot's
// CID cache already has one; otherwise it computes and caches it (spec
// §3.2's "CID cache entry" and §4.2's "Writes update in place").
func computeNodeCIDCached(snap *snapshot.Snapshot, id ids.NodeId, opts Opts) (CID, error) {
	if raw, ok := snap.CachedCID(id); ok {
		return CID(raw), nil
	}
	bytesOut, err := computeNodeCanonical(snap, id, opts)
	if err != nil {
		return CID{}, err
	}
	out := finalize(bytesOut, opts)
	snap.CacheCID(id, [32]byte(out))
	return out, nil
}

// computeNodeCanonical performs the post-order Merkle fold: compute every
// child's CID first, then serialize this node's own frame with those
// child CIDs appended (spec §4.3's "Merkle fold").
func computeNodeCanonical(snap *snapshot.Snapshot, id ids.NodeId, opts Opts) ([]byte, error) {
	if _, ok := snap.GetNode(id); !ok {
		return nil, fmt.Errorf("%w: node %v", canon.ErrInvalidNodeId, id)
	}
	children := snap.Children(id)
	childCIDs := make([][32]byte, len(children))
	for i, c := range children {
		cidOfChild, err := computeNodeCIDCached(snap, c, opts)
		if err != nil {
			return nil, err
		}
		childCIDs[i] = [32]byte(cidOfChild)
	}
	return canon.EncodeNode(snap, id, childCIDs)
}

// computeModuleCanonical folds every declaration's CID, in declaration
// insertion order, into the module frame (spec §9 Open Question 3,
// resolved in DESIGN.md).
func computeModuleCanonical(snap *snapshot.Snapshot, opts Opts) ([]byte, error) {
	declIds := snap.AllDeclIds()
	itemCIDs := make([][32]byte, len(declIds))
	for i, d := range declIds {
		c, err := Compute(snap, DeclSubject(d), opts)
		if err != nil {
			return nil, err
		}
		itemCIDs[i] = [32]byte(c)
	}
	return canon.EncodeModule(itemCIDs), nil
}

// Validate implements spec §4.4's `validate(snapshot, subject, expected,
// opts) -> bool`: recompute and compare byte-for-byte.
func Validate(snap *snapshot.Snapshot, subject Subject, expected CID, opts Opts) (bool, error) {
	got, err := Compute(snap, subject, opts)
	if err != nil {
		return false, err
	}
	return got == expected, nil
}

// Format renders a CID as 64 lowercase hex characters.
func Format(c CID) string { return hex.EncodeToString(c[:]) }

// Parse parses a 64-character hex string into a CID.
func Parse(s string) (CID, error) {
	if len(s) != 64 {
		return CID{}, fmt.Errorf("cid: hex string must be 64 characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return CID{}, fmt.Errorf("cid: %w", err)
	}
	var out CID
	copy(out[:], b)
	return out, nil
}

// Compare orders two CIDs lexicographically over their bytes, returning a
// negative number, zero, or a positive number.
func Compare(a, b CID) int { return bytes.Compare(a[:], b[:]) }
