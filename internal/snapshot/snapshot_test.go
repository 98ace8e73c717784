package snapshot

import (
	"testing"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	return OpenSnapshot(interner.New(), Limits{})
}

func TestAddTokenThenGet(t *testing.T) {
	b := newBuilder(t)
	str, _ := b.Interner().InternString("42")
	tok, err := b.AddToken(TokenIntLiteral, str, Span{StartByte: 0, EndByte: 2}, 0)
	if err != nil {
		t.Fatalf("AddToken: %v", err)
	}
	snap := b.Freeze()
	got, ok := snap.GetToken(tok)
	if !ok {
		t.Fatalf("GetToken(%v) not found", tok)
	}
	if got.Str != str {
		t.Fatalf("GetToken.Str = %v, want %v", got.Str, str)
	}
}

func TestAddNodeChildren(t *testing.T) {
	b := newBuilder(t)
	str, _ := b.Interner().InternString("x")
	tok, _ := b.AddToken(TokenIdentifier, str, Span{}, 0)
	leaf, err := b.AddNode(NodeIdentifier, tok, tok, nil)
	if err != nil {
		t.Fatalf("AddNode(leaf): %v", err)
	}
	parent, err := b.AddNode(NodeUnaryExpr, tok, tok, []ids.NodeId{leaf})
	if err != nil {
		t.Fatalf("AddNode(parent): %v", err)
	}
	snap := b.Freeze()
	kids := snap.Children(parent)
	if len(kids) != 1 || kids[0] != leaf {
		t.Fatalf("Children(parent) = %v, want [%v]", kids, leaf)
	}
}

func TestInvalidChildRejected(t *testing.T) {
	b := newBuilder(t)
	str, _ := b.Interner().InternString("x")
	tok, _ := b.AddToken(TokenIdentifier, str, Span{}, 0)
	_, err := b.AddNode(NodeUnaryExpr, tok, tok, []ids.NodeId{ids.NodeId(999)})
	if err != ErrInvalidChild {
		t.Fatalf("AddNode with bogus child = %v, want ErrInvalidChild", err)
	}
}

func TestCapacityExceeded(t *testing.T) {
	b := OpenSnapshot(interner.New(), Limits{MaxTokens: 1})
	str, _ := b.Interner().InternString("x")
	if _, err := b.AddToken(TokenIdentifier, str, Span{}, 0); err != nil {
		t.Fatalf("first AddToken: %v", err)
	}
	_, err := b.AddToken(TokenIdentifier, str, Span{}, 0)
	if err == nil {
		t.Fatalf("second AddToken should exceed capacity")
	}
}

func TestFrozenRejectsMutation(t *testing.T) {
	b := newBuilder(t)
	b.Freeze()
	str, _ := b.Interner().InternString("x")
	_, err := b.AddToken(TokenIdentifier, str, Span{}, 0)
	if err != ErrFrozen {
		t.Fatalf("AddToken after Freeze = %v, want ErrFrozen", err)
	}
}

func TestScopeDeclLookup(t *testing.T) {
	b := newBuilder(t)
	root, _ := b.AddScope(ids.InvalidScopeId)
	name, _ := b.Interner().InternString("foo")
	tok, _ := b.AddToken(TokenIdentifier, name, Span{}, 0)
	node, _ := b.AddNode(NodeIdentifier, tok, tok, nil)
	decl, err := b.AddDecl(node, name, root, DeclKind(0))
	if err != nil {
		t.Fatalf("AddDecl: %v", err)
	}
	snap := b.Freeze()
	declsInScope := snap.ScopeDecls(root)
	if len(declsInScope) != 1 {
		t.Fatalf("ScopeDecls(root) len = %d, want 1", len(declsInScope))
	}
	got, ok := snap.GetDecl(decl)
	if !ok || got.Name != name {
		t.Fatalf("GetDecl(%v) = %+v, ok=%v", decl, got, ok)
	}
}

func TestScopeParentMustBeLowerOrInvalid(t *testing.T) {
	b := newBuilder(t)
	_, err := b.AddScope(ids.ScopeId(5))
	if err != ErrInvalidChild {
		t.Fatalf("AddScope with unknown parent = %v, want ErrInvalidChild", err)
	}
}
