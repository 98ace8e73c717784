// Package astdb is the public re-export surface of the AST database: a
// columnar, content-addressed, append-only store for ASTs with a
// content-identity (CID) scheme and a memoizing, purity-checked query
// engine over it.
//
// Most of the real work lives in internal/*; this package mirrors the
// teacher's beads.go pattern of a thin façade — type aliases and
// constructor functions only, no logic duplicated.
package astdb

import (
	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// ID types. Conversion between kinds is intentionally not provided:
// mixing them is a compile-time error, not a runtime one.
type (
	StrId   = ids.StrId
	TokenId = ids.TokenId
	NodeId  = ids.NodeId
	EdgeId  = ids.EdgeId
	ScopeId = ids.ScopeId
	DeclId  = ids.DeclId
	RefId   = ids.RefId
	DiagId  = ids.DiagId
	TypeId  = ids.TypeId
	UnitId  = ids.UnitId
)

// Interner deduplicates source strings into StrIds.
type Interner = interner.Interner

// NewInterner returns an empty Interner. Pass Strict to reject strings
// that are not well-formed UTF-8.
func NewInterner(opts ...interner.Option) *Interner { return interner.New(opts...) }

// Strict is an Interner constructor option rejecting input that is not
// well-formed UTF-8. It does not check for NFC normalization.
var Strict = interner.Strict

// Builder accumulates token/node/edge/scope/decl/ref/diagnostic rows.
// Freeze hands back an immutable Snapshot; the Builder must not be used
// again afterward.
type Builder = snapshot.Builder

// Limits caps each table's row count; the zero value is unbounded.
type Limits = snapshot.Limits

// OpenSnapshot creates a Builder over in, an Interner that may be shared
// across snapshots or scoped to this one.
func OpenSnapshot(in *Interner, limits Limits) *Builder {
	return snapshot.OpenSnapshot(in, limits)
}

// Snapshot is the frozen, concurrent-read-safe half of the store.
type Snapshot = snapshot.Snapshot

// Node/token/scope/decl/ref/diagnostic row types and their field enums.
type (
	Token      = snapshot.Token
	TokenKind  = snapshot.TokenKind
	Node       = snapshot.Node
	NodeKind   = snapshot.NodeKind
	Span       = snapshot.Span
	Scope      = snapshot.Scope
	Decl       = snapshot.Decl
	DeclKind   = snapshot.DeclKind
	Ref        = snapshot.Ref
	Diagnostic = snapshot.Diagnostic
	Severity   = snapshot.Severity
)

// Token kind constants.
const (
	TokenUnknown       = snapshot.TokenUnknown
	TokenIntLiteral    = snapshot.TokenIntLiteral
	TokenFloatLiteral  = snapshot.TokenFloatLiteral
	TokenStringLiteral = snapshot.TokenStringLiteral
	TokenBoolLiteral   = snapshot.TokenBoolLiteral
	TokenNullLiteral   = snapshot.TokenNullLiteral
	TokenIdentifier    = snapshot.TokenIdentifier
	TokenOperator      = snapshot.TokenOperator
	TokenKeyword       = snapshot.TokenKeyword
	TokenPunct         = snapshot.TokenPunct
	TokenEOF           = snapshot.TokenEOF
)

// Node kind constants.
const (
	NodeUnknown      = snapshot.NodeUnknown
	NodeIntLiteral   = snapshot.NodeIntLiteral
	NodeFloatLiteral = snapshot.NodeFloatLiteral
	NodeStringLiteral = snapshot.NodeStringLiteral
	NodeBoolLiteral  = snapshot.NodeBoolLiteral
	NodeNullLiteral  = snapshot.NodeNullLiteral
	NodeIdentifier   = snapshot.NodeIdentifier
	NodeBinaryExpr   = snapshot.NodeBinaryExpr
	NodeUnaryExpr    = snapshot.NodeUnaryExpr
	NodeCallExpr     = snapshot.NodeCallExpr
	NodeIndexExpr    = snapshot.NodeIndexExpr
	NodeFieldExpr    = snapshot.NodeFieldExpr
	NodeArrayLit     = snapshot.NodeArrayLit
	NodeLetStmt      = snapshot.NodeLetStmt
	NodeVarStmt      = snapshot.NodeVarStmt
	NodeFuncDecl     = snapshot.NodeFuncDecl
	NodeParamDecl    = snapshot.NodeParamDecl
	NodeReturnStmt   = snapshot.NodeReturnStmt
	NodeAssignStmt   = snapshot.NodeAssignStmt
	NodeBlockStmt    = snapshot.NodeBlockStmt
	NodeStructDecl   = snapshot.NodeStructDecl
	NodeEnumDecl     = snapshot.NodeEnumDecl
	NodeModule       = snapshot.NodeModule
)

// Store-level sentinel errors.
var (
	ErrFrozen              = snapshot.ErrFrozen
	ErrCapacityExceeded    = snapshot.ErrCapacityExceeded
	ErrInvalidToken        = snapshot.ErrInvalidToken
	ErrInvalidChild        = snapshot.ErrInvalidChild
	ErrCrossUnitTokenRange = snapshot.ErrCrossUnitTokenRange
)

// CID is a content identity: a BLAKE3-256 hash folded over a node's (or
// the whole module's) canonical encoding plus a toolchain knob block.
type CID = cid.CID

// Subject selects what Compute hashes: a single node, a declaration, or
// the whole module.
type Subject = cid.Subject

// Opts are the toolchain knobs folded into every CID (spec's "knob
// block"): changing any of them changes every CID computed with them,
// deliberately, since they change what "the same code" means.
type Opts = cid.Opts

// DefaultOpts returns the zero-impact knob set: toolchain version 1, no
// profile/effect masks, safety level 1, fastmath off, deterministic on.
func DefaultOpts() Opts { return cid.DefaultOpts() }

// NodeSubject, DeclSubject, and ModuleSubject build the three kinds of
// CID subject.
var (
	NodeSubject   = cid.NodeSubject
	DeclSubject   = cid.DeclSubject
	ModuleSubject = cid.ModuleSubject
)

// Compute hashes subject's canonical encoding within snap, folding opts'
// knob block into the result.
func Compute(snap *Snapshot, subject Subject, opts Opts) (CID, error) {
	return cid.Compute(snap, subject, opts)
}

// Validate reports whether subject's current content still hashes to
// expected under opts.
func Validate(snap *Snapshot, subject Subject, expected CID, opts Opts) (bool, error) {
	return cid.Validate(snap, subject, expected, opts)
}

// Format and Parse convert a CID to and from its lowercase-hex string
// form.
func Format(c CID) string    { return cid.Format(c) }
func Parse(s string) (CID, error) { return cid.Parse(s) }

// Engine runs memoized, purity-checked, cycle-detected queries over a
// frozen Snapshot.
type Engine = query.Engine

// Mode selects the purity guard's enforcement policy: ModeDebug fails a
// query outright on its first impure access; ModeProduction records a
// diagnostic and lets the query continue.
type Mode = query.Mode

const (
	ModeDebug      = query.ModeDebug
	ModeProduction = query.ModeProduction
)

// NewEngine returns an Engine over snap with the seven default named
// queries (ResolveName, TypeOf, Effects, Dispatch, Hover, Definition,
// References) already registered.
func NewEngine(snap *Snapshot, mode Mode, cidOpts Opts) *Engine {
	e := query.NewEngine(snap, mode, cidOpts)
	query.RegisterDefaults(e)
	return e
}

// Arg is one canonical query argument (exactly one of CID/Int/Str).
type Arg = query.Arg

// CIDArg, IntArg, and StringArg build the three kinds of Arg.
var (
	CIDArg    = query.CIDArg
	IntArg    = query.IntArg
	StringArg = query.StringArg
)

// Named query result types.
type (
	SymbolInfo     = query.SymbolInfo
	TypeInfo       = query.TypeInfo
	EffectsInfo    = query.EffectsInfo
	DispatchInfo   = query.DispatchInfo
	HoverInfo      = query.HoverInfo
	DefinitionInfo = query.DefinitionInfo
)

// Query engine sentinel errors and diagnostic codes.
var (
	ErrCycle             = query.ErrCycle
	ErrUnknownQuery      = query.ErrUnknownQuery
	ErrNonCanonicalArg   = query.ErrNonCanonicalArg
	ErrImpureFileSystem  = query.ErrImpureFileSystem
	ErrImpureNetwork     = query.ErrImpureNetwork
	ErrImpureEnvironment = query.ErrImpureEnvironment
)
