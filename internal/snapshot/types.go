package snapshot

import "github.com/janus-lang/astdb/internal/ids"

// TokenKind classifies a lexical token. The concrete set is owned by the
// tokenizer that feeds this store; only the kinds the canonical serializer
// and accessors need to recognize by name are enumerated here.
type TokenKind uint16

const (
	TokenUnknown TokenKind = iota
	TokenIntLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenBoolLiteral
	TokenNullLiteral
	TokenIdentifier
	TokenOperator
	TokenKeyword
	TokenPunct
	TokenEOF
)

// Span locates a token or node in its source unit: a byte range plus
// line/column for diagnostics. Spans are never part of canonical encoding
// (spec §4.3 invariant 1: whitespace/position invariance).
type Span struct {
	StartByte, EndByte uint32
	StartLine, StartCol uint32
	EndLine, EndCol     uint32
}

// Token is one immutable lexical row (spec §3.2).
type Token struct {
	Kind TokenKind
	Str  ids.StrId
	Span Span
	Unit ids.UnitId
	// Trivia, if non-nil, marks an associated whitespace/comment byte
	// range that the parser chose to keep (e.g. a doc comment); it never
	// participates in canonical encoding.
	Trivia *Span
	// SubKind carries the tokenizer's fine-grained classification within
	// Kind (e.g. which operator an operator-kind token spells). The
	// canonical serializer's binary_expr payload is `uleb128(operator
	// token kind)` (spec §4.3); SubKind is that value.
	SubKind uint32
}

// NodeKind classifies an AST node. The set matches the accessor schema in
// spec §4.5.
type NodeKind uint16

const (
	NodeUnknown NodeKind = iota
	NodeIntLiteral
	NodeFloatLiteral
	NodeStringLiteral
	NodeBoolLiteral
	NodeNullLiteral
	NodeIdentifier
	NodeBinaryExpr
	NodeUnaryExpr
	NodeCallExpr
	NodeIndexExpr
	NodeFieldExpr
	NodeArrayLit
	NodeLetStmt
	NodeVarStmt
	NodeFuncDecl
	NodeParamDecl
	NodeReturnStmt
	NodeAssignStmt
	NodeBlockStmt
	NodeStructDecl
	NodeEnumDecl
	NodeModule
)

// Node is one row in the node table (spec §3.2). Children live in the edge
// table at edges[ChildStart : ChildStart+ChildCount].
type Node struct {
	Kind       NodeKind
	FirstToken ids.TokenId
	LastToken  ids.TokenId
	ChildStart ids.EdgeId
	ChildCount uint32

	// HasTypeAnnotation resolves the let_stmt/var_stmt two-child ambiguity
	// from spec §4.5/§9 open question 2: set explicitly by the builder
	// rather than inferred from child count. func_decl's optional return
	// type is decided by child count alone and does not read this flag.
	HasTypeAnnotation bool

	// EffectMask and ProfileMask summarize a func_decl's declared effects
	// and compiler profile flags; both flow into the canonical payload for
	// function declarations (spec §4.3). They are separate from the knob
	// block's cid.Opts masks.
	EffectMask  uint64
	ProfileMask uint32
}

// Scope is one row in the scope table (spec §3.2). Scopes form a tree
// rooted at a module scope; Parent is InvalidScopeId at the root.
type Scope struct {
	Parent    ids.ScopeId
	FirstDecl ids.DeclId
	DeclCount uint32
}

// DeclKind classifies a declaration (variable, function, type, ...). The
// concrete enumeration belongs to the binder; the store only stores and
// compares it.
type DeclKind uint16

// Decl is one row in the declaration table (spec §3.2).
type Decl struct {
	Node  ids.NodeId
	Name  ids.StrId
	Scope ids.ScopeId
	Kind  DeclKind
	Type  ids.TypeId
}

// Ref is one row in the reference table (spec §3.2): a use linked to its
// definition.
type Ref struct {
	AtNode     ids.NodeId
	Name       ids.StrId
	TargetDecl ids.DeclId
}

// Severity is a diagnostic's severity level (spec §3.2: 0=error,
// 1=warning, 2=info).
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// Diagnostic is one row in the diagnostic table (spec §3.2).
type Diagnostic struct {
	Code     string
	Severity Severity
	Span     Span
	Message  ids.StrId
}
