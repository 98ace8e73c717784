package canon

import (
	"bytes"
	"testing"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/snapshot"
)

func TestUvarintRoundTripShape(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, c := range cases {
		got := PutUvarint(nil, c.v)
		if !bytes.Equal(got, c.want) {
			t.Errorf("PutUvarint(%d) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestVarintNegative(t *testing.T) {
	got := PutVarint(nil, -1)
	want := []byte{0x7f}
	if !bytes.Equal(got, want) {
		t.Errorf("PutVarint(-1) = %v, want %v", got, want)
	}
}

// intLiteralSnapshot builds a single int_literal node with the given text
// and the given span, returning the snapshot and the node id.
func intLiteralSnapshot(t *testing.T, text string, span snapshot.Span) (*snapshot.Snapshot, ids.NodeId) {
	t.Helper()
	b := snapshot.OpenSnapshot(interner.New(), snapshot.Limits{})
	str, err := b.Interner().InternString(text)
	if err != nil {
		t.Fatalf("InternString: %v", err)
	}
	tok, err := b.AddToken(snapshot.TokenIntLiteral, str, span, 0)
	if err != nil {
		t.Fatalf("AddToken: %v", err)
	}
	node, err := b.AddNode(snapshot.NodeIntLiteral, tok, tok, nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return b.Freeze(), node
}

func TestEncodeIntLiteral(t *testing.T) {
	snap, node := intLiteralSnapshot(t, "42", snapshot.Span{StartByte: 0, EndByte: 2})
	out, err := EncodeNode(snap, node, nil)
	if err != nil {
		t.Fatalf("EncodeNode: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("EncodeNode produced empty output")
	}
}

func TestWhitespaceInvariance(t *testing.T) {
	snap1, node1 := intLiteralSnapshot(t, "123", snapshot.Span{StartByte: 0, EndByte: 3, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4})
	snap2, node2 := intLiteralSnapshot(t, "123", snapshot.Span{StartByte: 10, EndByte: 13, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 8})

	out1, err := EncodeNode(snap1, node1, nil)
	if err != nil {
		t.Fatalf("EncodeNode(snap1): %v", err)
	}
	out2, err := EncodeNode(snap2, node2, nil)
	if err != nil {
		t.Fatalf("EncodeNode(snap2): %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("canonical bytes differ despite only span differing:\n%v\n%v", out1, out2)
	}
}

func TestInvalidIntLiteral(t *testing.T) {
	snap, node := intLiteralSnapshot(t, "not-a-number", snapshot.Span{})
	_, err := EncodeNode(snap, node, nil)
	if err == nil {
		t.Fatalf("EncodeNode should fail on non-numeric int literal text")
	}
}

func TestChildOrderSignificant(t *testing.T) {
	b := snapshot.OpenSnapshot(interner.New(), snapshot.Limits{})
	strA, _ := b.Interner().InternString("a")
	strB, _ := b.Interner().InternString("b")
	tokA, _ := b.AddToken(snapshot.TokenIdentifier, strA, snapshot.Span{}, 0)
	tokB, _ := b.AddToken(snapshot.TokenIdentifier, strB, snapshot.Span{}, 0)
	a, _ := b.AddNode(snapshot.NodeIdentifier, tokA, tokA, nil)
	c, _ := b.AddNode(snapshot.NodeIdentifier, tokB, tokB, nil)
	forward, _ := b.AddNode(snapshot.NodeBlockStmt, tokA, tokB, []ids.NodeId{a, c})
	backward, _ := b.AddNode(snapshot.NodeBlockStmt, tokA, tokB, []ids.NodeId{c, a})
	snap := b.Freeze()

	fwdOut, err := EncodeNode(snap, forward, [][32]byte{{1}, {2}})
	if err != nil {
		t.Fatalf("EncodeNode(forward): %v", err)
	}
	bwdOut, err := EncodeNode(snap, backward, [][32]byte{{2}, {1}})
	if err != nil {
		t.Fatalf("EncodeNode(backward): %v", err)
	}
	if bytes.Equal(fwdOut, bwdOut) {
		t.Fatalf("swapping children did not change canonical bytes")
	}
}
