package query

import (
	"context"
	"fmt"

	"github.com/janus-lang/astdb/internal/accessors"
	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// SymbolInfo is ResolveName's result.
type SymbolInfo struct {
	Found bool
	Decl  ids.DeclId
	Kind  snapshot.DeclKind
}

// TypeInfo is TypeOf's result. The store carries no type-inference engine
// of its own (spec §1 non-goal: "Type checking/inference"); this reports
// the TypeId already recorded on the node's declaration, if any.
type TypeInfo struct {
	Found bool
	Type  ids.TypeId
}

// EffectsInfo is Effects' result: the effect/profile masks recorded on a
// func_decl node (spec §4.3's func_decl payload fields).
type EffectsInfo struct {
	Found       bool
	EffectMask  uint64
	ProfileMask uint32
}

// DispatchInfo is Dispatch's result. Overload resolution itself is a
// consumer concern (spec §1 non-goal); this surfaces the callee node the
// store can see so a consumer's resolver has something to dispatch on.
type DispatchInfo struct {
	Found  bool
	Callee ids.NodeId
	Args   []ids.NodeId
}

// HoverInfo is Hover's result: a short, consumer-displayable summary of a
// node (its kind and source span).
type HoverInfo struct {
	Found bool
	Kind  snapshot.NodeKind
	Span  snapshot.Span
}

// DefinitionInfo is Definition's result: the declaration a reference
// resolves to.
type DefinitionInfo struct {
	Found bool
	Decl  ids.DeclId
	Node  ids.NodeId
}

// RegisterDefaults registers the seven named queries of spec §4.6's
// initial surface (ResolveName, TypeOf, Effects, Dispatch, Hover,
// Definition, References) against e.
func RegisterDefaults(e *Engine) {
	e.RegisterQuery("ResolveName", resolveName)
	e.RegisterQuery("TypeOf", typeOf)
	e.RegisterQuery("Effects", effects)
	e.RegisterQuery("Dispatch", dispatch)
	e.RegisterQuery("Hover", hover)
	e.RegisterQuery("Definition", definition)
	e.RegisterQuery("References", references)
}

func wantString(args []Arg, i int) (string, error) {
	if i >= len(args) || args[i].Kind != ArgString {
		return "", fmt.Errorf("%w: argument %d must be a string", ErrNonCanonicalArg, i)
	}
	return args[i].Str, nil
}

func wantCID(args []Arg, i int) ([32]byte, error) {
	if i >= len(args) || args[i].Kind != ArgCID {
		return [32]byte{}, fmt.Errorf("%w: argument %d must be a CID", ErrNonCanonicalArg, i)
	}
	return args[i].CID, nil
}

// ResolveName(name: String, scope: CID) -> SymbolInfo
func resolveName(ctx context.Context, ro *RO, args []Arg) (any, error) {
	name, err := wantString(args, 0)
	if err != nil {
		return nil, err
	}
	scopeCID, err := wantCID(args, 1)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(scopeCID)

	scopeNode, ok := ro.engine.nodeForCID(scopeCID)
	if !ok {
		return SymbolInfo{}, nil
	}
	scopeId, ok := ro.snap.NodeScope(scopeNode)
	if !ok {
		return SymbolInfo{}, nil
	}

	str, ok := ro.interner.Find([]byte(name))
	if !ok {
		return SymbolInfo{}, nil
	}

	for cur := scopeId; ; {
		for _, d := range ro.snap.ScopeDecls(cur) {
			if d.Name == str {
				declId := declIdOf(ro.snap, cur, d)
				return SymbolInfo{Found: true, Decl: declId, Kind: d.Kind}, nil
			}
		}
		sc, ok := ro.snap.GetScope(cur)
		if !ok || !sc.Parent.IsValid() {
			break
		}
		cur = sc.Parent
	}
	return SymbolInfo{}, nil
}

// declIdOf finds the DeclId of decl within scope's decl range. ScopeDecls
// returns rows, not ids, so the id is recovered from scope bookkeeping
// rather than threaded through an extra return value everywhere.
func declIdOf(snap *snapshot.Snapshot, scopeId ids.ScopeId, target snapshot.Decl) ids.DeclId {
	sc, ok := snap.GetScope(scopeId)
	if !ok {
		return ids.InvalidDeclId
	}
	start := int(sc.FirstDecl)
	for i := 0; i < int(sc.DeclCount); i++ {
		id := ids.DeclId(start + i)
		d, ok := snap.GetDecl(id)
		if ok && d == target {
			return id
		}
	}
	return ids.InvalidDeclId
}

// TypeOf(node: CID) -> TypeInfo
func typeOf(ctx context.Context, ro *RO, args []Arg) (any, error) {
	nodeCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(nodeCID)

	nodeId, ok := ro.engine.nodeForCID(nodeCID)
	if !ok {
		return TypeInfo{}, nil
	}
	declId := declForNode(ro.snap, nodeId)
	if !declId.IsValid() {
		return TypeInfo{}, nil
	}
	d, ok := ro.snap.GetDecl(declId)
	if !ok {
		return TypeInfo{}, nil
	}
	return TypeInfo{Found: true, Type: d.Type}, nil
}

// declForNode finds a DeclId whose Node field is id, scanning insertion
// order. The store keeps no reverse Node->Decl index (spec §3.2 only
// requires the forward Decl->Node link), so this is a linear scan over
// AllDeclIds.
func declForNode(snap *snapshot.Snapshot, id ids.NodeId) ids.DeclId {
	for _, declId := range snap.AllDeclIds() {
		d, ok := snap.GetDecl(declId)
		if ok && d.Node == id {
			return declId
		}
	}
	return ids.InvalidDeclId
}

// Effects(node: CID) -> EffectsInfo
func effects(ctx context.Context, ro *RO, args []Arg) (any, error) {
	nodeCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(nodeCID)

	nodeId, ok := ro.engine.nodeForCID(nodeCID)
	if !ok {
		return EffectsInfo{}, nil
	}
	n, ok := ro.snap.GetNode(nodeId)
	if !ok || n.Kind != snapshot.NodeFuncDecl {
		return EffectsInfo{}, nil
	}
	return EffectsInfo{Found: true, EffectMask: n.EffectMask, ProfileMask: n.ProfileMask}, nil
}

// Dispatch(callsite: CID, arg_types: [TypeId]) -> DispatchInfo
func dispatch(ctx context.Context, ro *RO, args []Arg) (any, error) {
	siteCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(siteCID)

	nodeId, ok := ro.engine.nodeForCID(siteCID)
	if !ok {
		return DispatchInfo{}, nil
	}
	callee := accessors.Callee(ro.snap, nodeId)
	if callee == ids.InvalidNodeId {
		return DispatchInfo{}, nil
	}
	return DispatchInfo{Found: true, Callee: callee, Args: accessors.Arguments(ro.snap, nodeId)}, nil
}

// Hover(node: CID) -> HoverInfo
func hover(ctx context.Context, ro *RO, args []Arg) (any, error) {
	nodeCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(nodeCID)

	nodeId, ok := ro.engine.nodeForCID(nodeCID)
	if !ok {
		return HoverInfo{}, nil
	}
	n, ok := ro.snap.GetNode(nodeId)
	if !ok {
		return HoverInfo{}, nil
	}
	firstTok, ok := ro.snap.GetToken(n.FirstToken)
	if !ok {
		return HoverInfo{Found: true, Kind: n.Kind}, nil
	}
	lastTok, ok := ro.snap.GetToken(n.LastToken)
	if !ok {
		return HoverInfo{Found: true, Kind: n.Kind, Span: firstTok.Span}, nil
	}
	span := snapshot.Span{
		StartByte: firstTok.Span.StartByte, EndByte: lastTok.Span.EndByte,
		StartLine: firstTok.Span.StartLine, StartCol: firstTok.Span.StartCol,
		EndLine: lastTok.Span.EndLine, EndCol: lastTok.Span.EndCol,
	}
	return HoverInfo{Found: true, Kind: n.Kind, Span: span}, nil
}

// Definition(ref: CID) -> DefinitionInfo
func definition(ctx context.Context, ro *RO, args []Arg) (any, error) {
	refCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(refCID)

	nodeId, ok := ro.engine.nodeForCID(refCID)
	if !ok {
		return DefinitionInfo{}, nil
	}
	refId, ok := refAt(ro.snap, nodeId)
	if !ok {
		return DefinitionInfo{}, nil
	}
	r, ok := ro.snap.GetRef(refId)
	if !ok || !r.TargetDecl.IsValid() {
		return DefinitionInfo{}, nil
	}
	d, ok := ro.snap.GetDecl(r.TargetDecl)
	if !ok {
		return DefinitionInfo{}, nil
	}
	return DefinitionInfo{Found: true, Decl: r.TargetDecl, Node: d.Node}, nil
}

// References(decl: CID) -> [CID]
func references(ctx context.Context, ro *RO, args []Arg) (any, error) {
	declCID, err := wantCID(args, 0)
	if err != nil {
		return nil, err
	}
	ro.RecordDependency(declCID)

	declNode, ok := ro.engine.nodeForCID(declCID)
	if !ok {
		return []cid.CID(nil), nil
	}
	declId := declForNode(ro.snap, declNode)
	if !declId.IsValid() {
		return []cid.CID(nil), nil
	}

	var out []cid.CID
	for i := 0; ; i++ {
		refId := ids.RefId(i)
		r, ok := ro.snap.GetRef(refId)
		if !ok {
			break
		}
		if r.TargetDecl != declId {
			continue
		}
		c, err := cid.Compute(ro.snap, cid.NodeSubject(r.AtNode), ro.engine.cidOpts)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// refAt finds the RefId recorded at node, if any.
func refAt(snap *snapshot.Snapshot, node ids.NodeId) (ids.RefId, bool) {
	for i := 0; ; i++ {
		id := ids.RefId(i)
		r, ok := snap.GetRef(id)
		if !ok {
			return ids.InvalidRefId, false
		}
		if r.AtNode == node {
			return id, true
		}
	}
}
