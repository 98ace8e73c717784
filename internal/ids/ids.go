// Package ids defines the strongly typed, mutually incompatible row
// identifiers used throughout the AST database. Every table in
// internal/snapshot is addressed by one of these types; converting between
// two different ID kinds is not provided, so mixing them is a compile-time
// error rather than a runtime one (see spec §9, "strongly typed opaque IDs").
package ids

// invalidRaw is the sentinel value reserved by every ID kind. IDs are dense
// row indices assigned at insertion, so this must sit outside the range any
// real table can reach.
const invalidRaw = 0xFFFF_FFFF

// StrId identifies an interned string.
type StrId uint32

// TokenId identifies a row in the token table.
type TokenId uint32

// NodeId identifies a row in the node table.
type NodeId uint32

// EdgeId identifies a row in the edge (child reference) table.
type EdgeId uint32

// ScopeId identifies a row in the scope table.
type ScopeId uint32

// DeclId identifies a row in the declaration table.
type DeclId uint32

// RefId identifies a row in the reference table.
type RefId uint32

// DiagId identifies a row in the diagnostic table.
type DiagId uint32

// TypeId identifies a resolved type, as produced by the type checker that
// consumes this store. The core only ever stores and compares TypeIds; it
// never interprets them.
type TypeId uint32

// UnitId identifies a compilation unit (one parsed source file/fragment).
type UnitId uint32

// InvalidStrId is the sentinel StrId.
const InvalidStrId StrId = invalidRaw

// InvalidTokenId is the sentinel TokenId.
const InvalidTokenId TokenId = invalidRaw

// InvalidNodeId is the sentinel NodeId.
const InvalidNodeId NodeId = invalidRaw

// InvalidEdgeId is the sentinel EdgeId.
const InvalidEdgeId EdgeId = invalidRaw

// InvalidScopeId is the sentinel ScopeId.
const InvalidScopeId ScopeId = invalidRaw

// InvalidDeclId is the sentinel DeclId.
const InvalidDeclId DeclId = invalidRaw

// InvalidRefId is the sentinel RefId.
const InvalidRefId RefId = invalidRaw

// InvalidDiagId is the sentinel DiagId.
const InvalidDiagId DiagId = invalidRaw

// InvalidTypeId is the sentinel TypeId.
const InvalidTypeId TypeId = invalidRaw

// InvalidUnitId is the sentinel UnitId.
const InvalidUnitId UnitId = invalidRaw

// IsValid reports whether id is not the sentinel.
func (id StrId) IsValid() bool { return id != InvalidStrId }

// IsValid reports whether id is not the sentinel.
func (id TokenId) IsValid() bool { return id != InvalidTokenId }

// IsValid reports whether id is not the sentinel.
func (id NodeId) IsValid() bool { return id != InvalidNodeId }

// IsValid reports whether id is not the sentinel.
func (id EdgeId) IsValid() bool { return id != InvalidEdgeId }

// IsValid reports whether id is not the sentinel.
func (id ScopeId) IsValid() bool { return id != InvalidScopeId }

// IsValid reports whether id is not the sentinel.
func (id DeclId) IsValid() bool { return id != InvalidDeclId }

// IsValid reports whether id is not the sentinel.
func (id RefId) IsValid() bool { return id != InvalidRefId }

// IsValid reports whether id is not the sentinel.
func (id DiagId) IsValid() bool { return id != InvalidDiagId }

// IsValid reports whether id is not the sentinel.
func (id TypeId) IsValid() bool { return id != InvalidTypeId }

// IsValid reports whether id is not the sentinel.
func (id UnitId) IsValid() bool { return id != InvalidUnitId }
