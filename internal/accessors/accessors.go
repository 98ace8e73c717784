// Package accessors implements the kind-validated schema views of spec
// §4.5 — the only contract between a parser and every downstream
// consumer. Every accessor validates the node's kind first and returns the
// zero value / ids.Invalid* / an empty slice on mismatch; none of them
// panic on a malformed tree.
package accessors

import (
	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// Left returns binary_expr's left operand, or InvalidNodeId if n is not a
// binary_expr.
func Left(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := requireKind(snap, n, snapshot.NodeBinaryExpr)
	if !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	_ = node
	return c[0]
}

// Right returns binary_expr's right operand, or InvalidNodeId.
func Right(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeBinaryExpr); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[1]
}

// OperatorToken returns binary_expr's operator token, computed as
// left.last_token + 1 (the reference heuristic of spec §4.5/§9 Open
// Question 1 — preserved as specified, see DESIGN.md).
func OperatorToken(snap *snapshot.Snapshot, n ids.NodeId) ids.TokenId {
	if _, ok := requireKind(snap, n, snapshot.NodeBinaryExpr); !ok {
		return ids.InvalidTokenId
	}
	lhs := Left(snap, n)
	lhsNode, ok := snap.GetNode(lhs)
	if !ok {
		return ids.InvalidTokenId
	}
	return lhsNode.LastToken + 1
}

// UnaryOperand returns unary_expr's operand, or InvalidNodeId.
func UnaryOperand(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeUnaryExpr); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	return c[0]
}

// UnaryOperatorToken returns unary_expr's operator token: the node's own
// first token (spec §4.5).
func UnaryOperatorToken(snap *snapshot.Snapshot, n ids.NodeId) ids.TokenId {
	node, ok := requireKind(snap, n, snapshot.NodeUnaryExpr)
	if !ok {
		return ids.InvalidTokenId
	}
	return node.FirstToken
}

// Callee returns call_expr's callee, or InvalidNodeId.
func Callee(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeCallExpr); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	return c[0]
}

// Arguments returns call_expr's argument list (children[1:]).
func Arguments(snap *snapshot.Snapshot, n ids.NodeId) []ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeCallExpr); !ok {
		return nil
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Object returns index_expr's or field_expr's object operand, or
// InvalidNodeId.
func Object(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := snap.GetNode(n)
	if !ok || (node.Kind != snapshot.NodeIndexExpr && node.Kind != snapshot.NodeFieldExpr) {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	return c[0]
}

// Index returns index_expr's index operand, or InvalidNodeId.
func Index(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeIndexExpr); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[1]
}

// FieldNameToken returns field_expr's field-name token: the node's own
// last token (spec §4.5).
func FieldNameToken(snap *snapshot.Snapshot, n ids.NodeId) ids.TokenId {
	node, ok := requireKind(snap, n, snapshot.NodeFieldExpr)
	if !ok {
		return ids.InvalidTokenId
	}
	return node.LastToken
}

// Elements returns array_lit's element list.
func Elements(snap *snapshot.Snapshot, n ids.NodeId) []ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeArrayLit); !ok {
		return nil
	}
	return snap.Children(n)
}

// Name returns let_stmt/var_stmt/func_decl/param_decl/struct_decl/
// enum_decl's name child, or InvalidNodeId.
func Name(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := snap.GetNode(n)
	if !ok || !isNamedConstruct(node.Kind) {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	return c[0]
}

func isNamedConstruct(k snapshot.NodeKind) bool {
	switch k {
	case snapshot.NodeLetStmt, snapshot.NodeVarStmt, snapshot.NodeFuncDecl,
		snapshot.NodeParamDecl, snapshot.NodeStructDecl, snapshot.NodeEnumDecl:
		return true
	}
	return false
}

// TypeAnnotation returns let_stmt/var_stmt's type-annotation child when
// present (node.HasTypeAnnotation is true, resolving the child-count
// ambiguity noted in spec §4.5/§9 Open Question 2 — see DESIGN.md), or
// param_decl's mandatory type-annotation child.
func TypeAnnotation(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := snap.GetNode(n)
	if !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	switch node.Kind {
	case snapshot.NodeLetStmt, snapshot.NodeVarStmt:
		if !node.HasTypeAnnotation || len(c) < 2 {
			return ids.InvalidNodeId
		}
		return c[1]
	case snapshot.NodeParamDecl:
		if len(c) < 2 {
			return ids.InvalidNodeId
		}
		return c[1]
	default:
		return ids.InvalidNodeId
	}
}

// Initializer returns let_stmt/var_stmt's initializer child (the last of
// 2 or 3 children), or InvalidNodeId.
func Initializer(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := snap.GetNode(n)
	if !ok || (node.Kind != snapshot.NodeLetStmt && node.Kind != snapshot.NodeVarStmt) {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[len(c)-1]
}

// Parameters returns func_decl's parameter-list child, or InvalidNodeId.
func Parameters(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeFuncDecl); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[1]
}

// ReturnType returns func_decl's return-type child when present (the
// node has exactly 4 children), or InvalidNodeId. node.HasTypeAnnotation
// is not consulted.
func ReturnType(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := requireKind(snap, n, snapshot.NodeFuncDecl)
	if !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) != 4 {
		return ids.InvalidNodeId
	}
	_ = node
	return c[2]
}

// Body returns func_decl's body child (the last child), or InvalidNodeId.
func Body(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeFuncDecl); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) == 0 {
		return ids.InvalidNodeId
	}
	return c[len(c)-1]
}

// Expression returns return_stmt's expression child when present, or
// InvalidNodeId.
func Expression(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeReturnStmt); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) == 0 {
		return ids.InvalidNodeId
	}
	return c[0]
}

// LHS returns assign_stmt's left-hand side, or InvalidNodeId.
func LHS(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeAssignStmt); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 1 {
		return ids.InvalidNodeId
	}
	return c[0]
}

// RHS returns assign_stmt's right-hand side, or InvalidNodeId.
func RHS(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeAssignStmt); !ok {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[1]
}

// Statements returns block_stmt's statement list.
func Statements(snap *snapshot.Snapshot, n ids.NodeId) []ids.NodeId {
	if _, ok := requireKind(snap, n, snapshot.NodeBlockStmt); !ok {
		return nil
	}
	return snap.Children(n)
}

// DeclBody returns struct_decl/enum_decl's body child, or InvalidNodeId.
func DeclBody(snap *snapshot.Snapshot, n ids.NodeId) ids.NodeId {
	node, ok := snap.GetNode(n)
	if !ok || (node.Kind != snapshot.NodeStructDecl && node.Kind != snapshot.NodeEnumDecl) {
		return ids.InvalidNodeId
	}
	c := snap.Children(n)
	if len(c) < 2 {
		return ids.InvalidNodeId
	}
	return c[1]
}

func requireKind(snap *snapshot.Snapshot, n ids.NodeId, want snapshot.NodeKind) (snapshot.Node, bool) {
	node, ok := snap.GetNode(n)
	if !ok || node.Kind != want {
		return snapshot.Node{}, false
	}
	return node, true
}
