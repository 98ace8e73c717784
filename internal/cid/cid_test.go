package cid

import (
	"testing"

	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/snapshot"
)

func buildIntLiteral(t *testing.T, text string, span snapshot.Span) *snapshot.Snapshot {
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
	if _, err := b.AddNode(snapshot.NodeIntLiteral, tok, tok, nil); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return b.Freeze()
}

// Scenario 1 — Integer literal canonical round-trip (spec §8).
func TestScenario1IntLiteralRoundTrip(t *testing.T) {
	snap := buildIntLiteral(t, "42", snapshot.Span{StartByte: 0, EndByte: 2, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 3})
	opts := DefaultOpts()

	c1, err := Compute(snap, NodeSubject(0), opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	c2, err := Compute(snap, NodeSubject(0), opts)
	if err != nil {
		t.Fatalf("Compute (second): %v", err)
	}
	if c1 != c2 {
		t.Fatalf("Compute is not deterministic: %v != %v", c1, c2)
	}

	ok, err := Validate(snap, NodeSubject(0), c1, opts)
	if err != nil || !ok {
		t.Fatalf("Validate(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = Validate(snap, NodeSubject(0), CID{}, opts)
	if err != nil || ok {
		t.Fatalf("Validate(zero) = %v, %v; want false, nil", ok, err)
	}
}

// Scenario 2 — Whitespace invariance (spec §8).
func TestScenario2WhitespaceInvariance(t *testing.T) {
	snap1 := buildIntLiteral(t, "123", snapshot.Span{StartByte: 0, EndByte: 3, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4})
	snap2 := buildIntLiteral(t, "123", snapshot.Span{StartByte: 10, EndByte: 13, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 8})

	opts := DefaultOpts()
	c1, err := Compute(snap1, NodeSubject(0), opts)
	if err != nil {
		t.Fatalf("Compute(snap1): %v", err)
	}
	c2, err := Compute(snap2, NodeSubject(0), opts)
	if err != nil {
		t.Fatalf("Compute(snap2): %v", err)
	}
	if c1 != c2 {
		t.Fatalf("CIDs differ despite only whitespace/position differing: %v != %v", c1, c2)
	}
}

// Scenario 3 — Knob separation (spec §8).
func TestScenario3KnobSeparation(t *testing.T) {
	snap := buildIntLiteral(t, "7", snapshot.Span{})
	o1 := DefaultOpts()
	o2 := DefaultOpts()
	o2.ToolchainVersion = 2

	c1, err := Compute(snap, NodeSubject(0), o1)
	if err != nil {
		t.Fatalf("Compute(o1): %v", err)
	}
	c2, err := Compute(snap, NodeSubject(0), o2)
	if err != nil {
		t.Fatalf("Compute(o2): %v", err)
	}
	if c1 == c2 {
		t.Fatalf("changing toolchain_version did not change the CID")
	}
}

func TestKnobSeparationAllFields(t *testing.T) {
	snap := buildIntLiteral(t, "7", snapshot.Span{})
	base := DefaultOpts()
	baseCID, err := Compute(snap, NodeSubject(0), base)
	if err != nil {
		t.Fatalf("Compute(base): %v", err)
	}

	variants := []Opts{base, base, base, base, base, base, base}
	variants[0].ProfileMask = 1
	variants[1].EffectMask = 1
	variants[2].SafetyLevel = 2
	variants[3].Fastmath = true
	variants[4].Deterministic = false
	variants[5].TargetTriple = "x86_64-unknown-linux-gnu"
	variants[6].ToolchainVersion = 99

	for i, v := range variants {
		got, err := Compute(snap, NodeSubject(0), v)
		if err != nil {
			t.Fatalf("variant %d: %v", i, err)
		}
		if got == baseCID {
			t.Errorf("variant %d: knob change did not change CID", i)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	snap := buildIntLiteral(t, "5", snapshot.Span{})
	c, err := Compute(snap, NodeSubject(0), DefaultOpts())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	s := Format(c)
	if len(s) != 64 {
		t.Fatalf("Format length = %d, want 64", len(s))
	}
	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != c {
		t.Fatalf("Parse(Format(c)) != c")
	}
}

func TestComputeIsMemoized(t *testing.T) {
	snap := buildIntLiteral(t, "5", snapshot.Span{})
	if _, ok := snap.CachedCID(0); ok {
		t.Fatalf("cache should start empty")
	}
	if _, err := Compute(snap, NodeSubject(0), DefaultOpts()); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// Compute(Subject=Node) itself does not populate the top-level cache
	// (only recursive child lookups do); exercise the cached path
	// directly to confirm cache-then-reuse semantics.
	if _, err := computeNodeCIDCached(snap, 0, DefaultOpts()); err != nil {
		t.Fatalf("computeNodeCIDCached: %v", err)
	}
	if _, ok := snap.CachedCID(0); !ok {
		t.Fatalf("expected node 0's CID to be cached after computeNodeCIDCached")
	}
}
