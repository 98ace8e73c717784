// Package snapshot implements the columnar store of spec §3–§4.2: the
// append-only token/node/edge/scope/decl/ref/diagnostic tables, the CID
// cache, and the node→scope map, all bound to one snapshot's lifetime.
//
// A Builder accumulates rows via Add*; calling Freeze hands back an
// immutable Snapshot safe for concurrent query reads (spec §5). There is no
// in-between state: once Freeze has been called, the Builder's add methods
// return ErrFrozen.
package snapshot

import (
	"fmt"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
)

// Limits caps each table's row count. The zero value means unbounded,
// matching the growable-tables resolution of spec §9 Open Question 4; a
// host that wants the reference design's hard-capacity behavior sets
// explicit limits and gets ErrCapacityExceeded at the same call sites the
// reference implementation would fail at.
type Limits struct {
	MaxTokens int
	MaxNodes  int
	MaxEdges  int
	MaxScopes int
	MaxDecls  int
	MaxRefs   int
	MaxDiags  int
}

// Builder is the single-writer construction half of a snapshot (spec §3.3,
// §5: "Single-writer per snapshot during construction").
type Builder struct {
	interner *interner.Interner
	limits   Limits
	frozen   bool

	tokens []Token
	nodes  []Node
	edges  []ids.NodeId
	scopes []Scope
	decls  []Decl
	refs   []Ref
	diags  []Diagnostic

	nodeScope map[ids.NodeId]ids.ScopeId
}

// OpenSnapshot creates a new Builder using the given interner (spec §6:
// `open_snapshot(interner) -> Snapshot`). The interner may be shared across
// snapshots or scoped to this one; the builder never assumes exclusive
// ownership of it.
func OpenSnapshot(in *interner.Interner, limits Limits) *Builder {
	return &Builder{
		interner:  in,
		limits:    limits,
		nodeScope: make(map[ids.NodeId]ids.ScopeId),
	}
}

// Interner returns the string interner this builder (and its frozen
// snapshot) reads and writes through.
func (b *Builder) Interner() *interner.Interner { return b.interner }

func capErr(kind string, have, max int) error {
	return fmt.Errorf("%s: %w (have %d, limit %d)", kind, ErrCapacityExceeded, have, max)
}

// AddToken appends a token row and returns its TokenId.
func (b *Builder) AddToken(kind TokenKind, str ids.StrId, span Span, unit ids.UnitId) (ids.TokenId, error) {
	if b.frozen {
		return ids.InvalidTokenId, ErrFrozen
	}
	if b.limits.MaxTokens > 0 && len(b.tokens) >= b.limits.MaxTokens {
		return ids.InvalidTokenId, capErr("tokens", len(b.tokens), b.limits.MaxTokens)
	}
	id := ids.TokenId(len(b.tokens))
	b.tokens = append(b.tokens, Token{Kind: kind, Str: str, Span: span, Unit: unit})
	return id, nil
}

// SetTokenSubKind records a token's fine-grained operator/keyword
// classification (see Token.SubKind), used by the canonical serializer's
// binary_expr payload.
func (b *Builder) SetTokenSubKind(id ids.TokenId, subKind uint32) error {
	if int(id) >= len(b.tokens) {
		return ErrInvalidToken
	}
	b.tokens[id].SubKind = subKind
	return nil
}

// AddNode appends a node row and its children, returning the new NodeId
// (spec §6: `add_node(kind, first_token, last_token, children) -> NodeId`).
func (b *Builder) AddNode(kind NodeKind, firstToken, lastToken ids.TokenId, children []ids.NodeId) (ids.NodeId, error) {
	if b.frozen {
		return ids.InvalidNodeId, ErrFrozen
	}
	if int(firstToken) >= len(b.tokens) || int(lastToken) >= len(b.tokens) {
		return ids.InvalidNodeId, ErrInvalidToken
	}
	if firstToken > lastToken {
		return ids.InvalidNodeId, ErrInvalidToken
	}
	if b.tokens[firstToken].Unit != b.tokens[lastToken].Unit {
		return ids.InvalidNodeId, ErrCrossUnitTokenRange
	}
	for _, c := range children {
		if !c.IsValid() || int(c) >= len(b.nodes) {
			return ids.InvalidNodeId, ErrInvalidChild
		}
	}
	if b.limits.MaxNodes > 0 && len(b.nodes) >= b.limits.MaxNodes {
		return ids.InvalidNodeId, capErr("nodes", len(b.nodes), b.limits.MaxNodes)
	}
	if b.limits.MaxEdges > 0 && len(b.edges)+len(children) > b.limits.MaxEdges {
		return ids.InvalidNodeId, capErr("edges", len(b.edges), b.limits.MaxEdges)
	}

	childStart := ids.EdgeId(len(b.edges))
	b.edges = append(b.edges, children...)

	id := ids.NodeId(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		Kind:       kind,
		FirstToken: firstToken,
		LastToken:  lastToken,
		ChildStart: childStart,
		ChildCount: uint32(len(children)),
	})
	return id, nil
}

// SetHasTypeAnnotation marks whether node carries an explicit type
// annotation, resolving the let_stmt/var_stmt child-count ambiguity from
// spec §4.5 (Open Question 2 in §9, see DESIGN.md).
func (b *Builder) SetHasTypeAnnotation(node ids.NodeId, has bool) error {
	if int(node) >= len(b.nodes) {
		return ErrInvalidChild
	}
	b.nodes[node].HasTypeAnnotation = has
	return nil
}

// SetEffects records a func_decl's effect/profile mask, folded into the
// canonical serializer's function-declaration payload (spec §4.3).
func (b *Builder) SetEffects(node ids.NodeId, effectMask uint64, profileMask uint32) error {
	if int(node) >= len(b.nodes) {
		return ErrInvalidChild
	}
	b.nodes[node].EffectMask = effectMask
	b.nodes[node].ProfileMask = profileMask
	return nil
}

// AddScope appends a scope row (spec §6: `add_scope(parent) -> ScopeId`).
func (b *Builder) AddScope(parent ids.ScopeId) (ids.ScopeId, error) {
	if b.frozen {
		return ids.InvalidScopeId, ErrFrozen
	}
	if parent.IsValid() && int(parent) >= len(b.scopes) {
		return ids.InvalidScopeId, ErrInvalidChild
	}
	if b.limits.MaxScopes > 0 && len(b.scopes) >= b.limits.MaxScopes {
		return ids.InvalidScopeId, capErr("scopes", len(b.scopes), b.limits.MaxScopes)
	}
	id := ids.ScopeId(len(b.scopes))
	// Invariant (spec §4.2): a scope's parent, if valid, refers to a scope
	// with a lower id, since parent must already exist to be referenced.
	b.scopes = append(b.scopes, Scope{Parent: parent})
	return id, nil
}

// AddDecl appends a declaration row under scope, updating the scope's
// decl_count/first_decl bookkeeping (spec §6: `add_decl(node, name, scope,
// kind) -> DeclId`).
func (b *Builder) AddDecl(node ids.NodeId, name ids.StrId, scope ids.ScopeId, kind DeclKind) (ids.DeclId, error) {
	if b.frozen {
		return ids.InvalidDeclId, ErrFrozen
	}
	if int(scope) >= len(b.scopes) {
		return ids.InvalidDeclId, ErrInvalidChild
	}
	if b.limits.MaxDecls > 0 && len(b.decls) >= b.limits.MaxDecls {
		return ids.InvalidDeclId, capErr("decls", len(b.decls), b.limits.MaxDecls)
	}
	id := ids.DeclId(len(b.decls))
	b.decls = append(b.decls, Decl{Node: node, Name: name, Scope: scope, Kind: kind})

	sc := &b.scopes[scope]
	if sc.DeclCount == 0 {
		sc.FirstDecl = id
	}
	sc.DeclCount++
	return id, nil
}

// AddRef appends a reference row linking a use to its target declaration
// (spec §6: `add_ref(at_node, name, target_decl) -> RefId`).
func (b *Builder) AddRef(atNode ids.NodeId, name ids.StrId, targetDecl ids.DeclId) (ids.RefId, error) {
	if b.frozen {
		return ids.InvalidRefId, ErrFrozen
	}
	if targetDecl.IsValid() && int(targetDecl) >= len(b.decls) {
		return ids.InvalidRefId, ErrInvalidChild
	}
	if b.limits.MaxRefs > 0 && len(b.refs) >= b.limits.MaxRefs {
		return ids.InvalidRefId, capErr("refs", len(b.refs), b.limits.MaxRefs)
	}
	id := ids.RefId(len(b.refs))
	b.refs = append(b.refs, Ref{AtNode: atNode, Name: name, TargetDecl: targetDecl})
	return id, nil
}

// AddDiag appends a diagnostic row (spec §6: `add_diag(code, severity,
// span, message) -> DiagId`).
func (b *Builder) AddDiag(code string, severity Severity, span Span, message ids.StrId) (ids.DiagId, error) {
	if b.frozen {
		return ids.InvalidDiagId, ErrFrozen
	}
	if b.limits.MaxDiags > 0 && len(b.diags) >= b.limits.MaxDiags {
		return ids.InvalidDiagId, capErr("diags", len(b.diags), b.limits.MaxDiags)
	}
	id := ids.DiagId(len(b.diags))
	b.diags = append(b.diags, Diagnostic{Code: code, Severity: severity, Span: span, Message: message})
	return id, nil
}

// SetNodeScope records the innermost scope enclosing node, populated by the
// binder (spec §4.2's Node→Scope map).
func (b *Builder) SetNodeScope(node ids.NodeId, scope ids.ScopeId) {
	b.nodeScope[node] = scope
}

// Freeze finalizes construction and returns an immutable Snapshot (spec
// §3.3, §6: `freeze(snapshot)`). The Builder itself must not be used again.
func (b *Builder) Freeze() *Snapshot {
	b.frozen = true
	return &Snapshot{
		interner:  b.interner,
		tokens:    b.tokens,
		nodes:     b.nodes,
		edges:     b.edges,
		scopes:    b.scopes,
		decls:     b.decls,
		refs:      b.refs,
		diags:     b.diags,
		nodeScope: b.nodeScope,
		cidCache:  make(map[ids.NodeId][32]byte),
	}
}
