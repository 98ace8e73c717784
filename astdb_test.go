package astdb_test

import (
	"context"
	"testing"

	"github.com/janus-lang/astdb"
)

func buildIntLiteral(t *testing.T) (*astdb.Snapshot, astdb.NodeId) {
	t.Helper()
	in := astdb.NewInterner()
	b := astdb.OpenSnapshot(in, astdb.Limits{})

	str, err := b.Interner().InternString("42")
	if err != nil {
		t.Fatalf("InternString: %v", err)
	}
	tok, err := b.AddToken(astdb.TokenIntLiteral, str, astdb.Span{}, 0)
	if err != nil {
		t.Fatalf("AddToken: %v", err)
	}
	node, err := b.AddNode(astdb.NodeIntLiteral, tok, tok, nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return b.Freeze(), node
}

func TestPublicSurfaceBuildsAndComputesCID(t *testing.T) {
	snap, node := buildIntLiteral(t)

	c, err := astdb.Compute(snap, astdb.NodeSubject(node), astdb.DefaultOpts())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	ok, err := astdb.Validate(snap, astdb.NodeSubject(node), c, astdb.DefaultOpts())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatalf("Validate(c) = false, want true")
	}

	roundTrip, err := astdb.Parse(astdb.Format(c))
	if err != nil {
		t.Fatalf("Parse(Format(c)): %v", err)
	}
	if roundTrip != c {
		t.Fatalf("Parse(Format(c)) = %x, want %x", roundTrip, c)
	}
}

func TestPublicSurfaceEngineRunsNamedQuery(t *testing.T) {
	snap, node := buildIntLiteral(t)
	c, err := astdb.Compute(snap, astdb.NodeSubject(node), astdb.DefaultOpts())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	engine := astdb.NewEngine(snap, astdb.ModeProduction, astdb.DefaultOpts())
	result, err := engine.Query(context.Background(), "TypeOf", []astdb.Arg{astdb.CIDArg(c)})
	if err != nil {
		t.Fatalf("Query(TypeOf): %v", err)
	}
	info, ok := result.(astdb.TypeInfo)
	if !ok {
		t.Fatalf("Query(TypeOf) result type = %T, want TypeInfo", result)
	}
	// This node has no declaration, so TypeOf reports not found rather
	// than erroring.
	if info.Found {
		t.Fatalf("TypeOf(int literal with no decl).Found = true, want false")
	}
}
