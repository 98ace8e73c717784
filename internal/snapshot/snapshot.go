package snapshot

import (
	"sync"

	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
)

// Snapshot is the frozen, arena-owned columnar store (spec §3.3). It is
// safe for concurrent reads from multiple goroutines once returned from
// Builder.Freeze; its tables are never mutated afterward, and the CID
// cache is guarded by its own lock.
type Snapshot struct {
	interner *interner.Interner

	tokens []Token
	nodes  []Node
	edges  []ids.NodeId
	scopes []Scope
	decls  []Decl
	refs   []Ref
	diags  []Diagnostic

	nodeScope map[ids.NodeId]ids.ScopeId

	// cidCache memoizes NodeId -> CID across repeated queries within one
	// snapshot (spec §3.2's "CID cache entry"). Raw 32-byte arrays are
	// stored here rather than internal/cid.CID to avoid a dependency
	// cycle (internal/cid reads the Snapshot to serialize subjects).
	cidCache map[ids.NodeId][32]byte
	cidMu    sync.RWMutex
}

// Interner returns the string interner backing this snapshot's StrIds.
func (s *Snapshot) Interner() *interner.Interner { return s.interner }

// GetToken returns the token at id, or (zero, false) if id is invalid or
// out of range (spec §6: lookups return Option<Row>).
func (s *Snapshot) GetToken(id ids.TokenId) (Token, bool) {
	if !id.IsValid() || int(id) >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[id], true
}

// GetNode returns the node at id, or (zero, false) if absent.
func (s *Snapshot) GetNode(id ids.NodeId) (Node, bool) {
	if !id.IsValid() || int(id) >= len(s.nodes) {
		return Node{}, false
	}
	return s.nodes[id], true
}

// Children returns the ordered child NodeIds of node (spec §3.2: "children
// are stored contiguously"), or nil if node is absent or has no children.
func (s *Snapshot) Children(id ids.NodeId) []ids.NodeId {
	n, ok := s.GetNode(id)
	if !ok || n.ChildCount == 0 {
		return nil
	}
	start := int(n.ChildStart)
	return s.edges[start : start+int(n.ChildCount)]
}

// GetScope returns the scope at id, or (zero, false) if absent.
func (s *Snapshot) GetScope(id ids.ScopeId) (Scope, bool) {
	if !id.IsValid() || int(id) >= len(s.scopes) {
		return Scope{}, false
	}
	return s.scopes[id], true
}

// GetDecl returns the declaration at id, or (zero, false) if absent.
func (s *Snapshot) GetDecl(id ids.DeclId) (Decl, bool) {
	if !id.IsValid() || int(id) >= len(s.decls) {
		return Decl{}, false
	}
	return s.decls[id], true
}

// ScopeDecls returns the declarations belonging directly to scope, in
// insertion order.
func (s *Snapshot) ScopeDecls(id ids.ScopeId) []Decl {
	sc, ok := s.GetScope(id)
	if !ok || sc.DeclCount == 0 {
		return nil
	}
	start := int(sc.FirstDecl)
	end := start + int(sc.DeclCount)
	if end > len(s.decls) {
		end = len(s.decls)
	}
	return s.decls[start:end]
}

// GetRef returns the reference at id, or (zero, false) if absent.
func (s *Snapshot) GetRef(id ids.RefId) (Ref, bool) {
	if !id.IsValid() || int(id) >= len(s.refs) {
		return Ref{}, false
	}
	return s.refs[id], true
}

// GetDiag returns the diagnostic at id, or (zero, false) if absent.
func (s *Snapshot) GetDiag(id ids.DiagId) (Diagnostic, bool) {
	if !id.IsValid() || int(id) >= len(s.diags) {
		return Diagnostic{}, false
	}
	return s.diags[id], true
}

// Diagnostics returns every diagnostic recorded so far, in insertion order.
func (s *Snapshot) Diagnostics() []Diagnostic { return s.diags }

// NodeScope returns the innermost scope enclosing node, as recorded by the
// binder via Builder.SetNodeScope.
func (s *Snapshot) NodeScope(id ids.NodeId) (ids.ScopeId, bool) {
	sc, ok := s.nodeScope[id]
	return sc, ok
}

// NodeCount, DeclCount, TokenCount report table sizes, chiefly useful for
// a query to walk "every top-level item" when folding a module CID (spec
// §9 Open Question 3).
func (s *Snapshot) NodeCount() int  { return len(s.nodes) }
func (s *Snapshot) DeclCount() int  { return len(s.decls) }
func (s *Snapshot) TokenCount() int { return len(s.tokens) }

// AllDeclIds returns every DeclId in insertion order, the total order this
// store uses to fold a module's CID (spec §9 Open Question 3, resolved in
// DESIGN.md: declaration insertion order).
func (s *Snapshot) AllDeclIds() []ids.DeclId {
	out := make([]ids.DeclId, len(s.decls))
	for i := range out {
		out[i] = ids.DeclId(i)
	}
	return out
}

// CachedCID returns a previously memoized CID for node, if any.
func (s *Snapshot) CachedCID(id ids.NodeId) ([32]byte, bool) {
	s.cidMu.RLock()
	defer s.cidMu.RUnlock()
	v, ok := s.cidCache[id]
	return v, ok
}

// CacheCID memoizes the CID computed for node, updating in place if an
// entry already exists (spec §4.2: "Writes update in place if the entry
// exists").
func (s *Snapshot) CacheCID(id ids.NodeId, value [32]byte) {
	s.cidMu.Lock()
	defer s.cidMu.Unlock()
	s.cidCache[id] = value
}

// InvalidateCID drops a memoized CID, so the next computation for node
// recomputes it rather than reusing the cached value. Nothing else in
// this repository calls it.
func (s *Snapshot) InvalidateCID(id ids.NodeId) {
	s.cidMu.Lock()
	defer s.cidMu.Unlock()
	delete(s.cidCache, id)
}
