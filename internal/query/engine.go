// Package query implements spec §4.6's query engine: canonical argument
// encoding, a sharded memo table keyed on (query name, args hash),
// CID-keyed dependency tracking and invalidation, per-call-chain cycle
// detection, and a purity guard that separates pure query logic from the
// explicitly impure escape hatches an extension query (internal/wasmquery,
// the CLI's `hover --ai`) needs.
package query

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/ids"
	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// Handler is the body of a named query. It receives a capability-curtained
// RO rather than the raw snapshot; RO's only I/O facilities are its guarded
// escape hatches. The engine does not stop a handler from calling os or
// net directly (the CLI's HoverAI handler reads an environment variable
// and calls the network itself after its NetworkDial checkpoint).
type Handler func(ctx context.Context, ro *RO, args []Arg) (any, error)

// Engine owns the registered handlers, the memo table, and the purity
// guard's diagnostic sink (spec §4.6).
type Engine struct {
	snap     *snapshot.Snapshot
	handlers map[string]Handler
	memo     *memoTable
	guard    *guard
	cidOpts  cid.Opts

	cidIndexOnce sync.Once
	cidIndex     map[[32]byte]ids.NodeId

	stats stats
}

// stats tracks the counters spec §8 scenario 6 asks for
// (total_queries/cache_hits/cache_misses), atomically since parallel reads
// against a frozen snapshot are the query engine's whole point.
type stats struct {
	total, hits, misses int64
}

func (s *stats) recordHit()  { atomic.AddInt64(&s.total, 1); atomic.AddInt64(&s.hits, 1) }
func (s *stats) recordMiss() { atomic.AddInt64(&s.total, 1); atomic.AddInt64(&s.misses, 1) }

// Stats is a point-in-time snapshot of the engine's memoization counters.
type Stats struct {
	TotalQueries, CacheHits, CacheMisses int64
}

// Stats returns the engine's current memoization counters (spec §8
// scenario 6).
func (e *Engine) Stats() Stats {
	return Stats{
		TotalQueries: atomic.LoadInt64(&e.stats.total),
		CacheHits:    atomic.LoadInt64(&e.stats.hits),
		CacheMisses:  atomic.LoadInt64(&e.stats.misses),
	}
}

// NewEngine constructs a query engine bound to a frozen snapshot. mode
// fixes the purity guard's enforcement policy for this engine's lifetime;
// cidOpts fixes the knob block used to resolve a CID-valued argument back
// to the node it names (spec §4.6's named queries all take a CID).
func NewEngine(snap *snapshot.Snapshot, mode Mode, cidOpts cid.Opts) *Engine {
	return &Engine{
		snap:     snap,
		handlers: make(map[string]Handler),
		memo:     newMemoTable(),
		guard:    &guard{mode: mode, sink: &diagSink{}},
		cidOpts:  cidOpts,
	}
}

// nodeForCID resolves a CID argument to the node it identifies, building a
// one-time full-snapshot CID index on first use. Returns false if no node
// in the snapshot has that CID under this engine's knob settings.
func (e *Engine) nodeForCID(c [32]byte) (ids.NodeId, bool) {
	e.cidIndexOnce.Do(func() {
		e.cidIndex = make(map[[32]byte]ids.NodeId, e.snap.NodeCount())
		for i := 0; i < e.snap.NodeCount(); i++ {
			id := ids.NodeId(i)
			computed, err := cid.Compute(e.snap, cid.NodeSubject(id), e.cidOpts)
			if err != nil {
				continue
			}
			e.cidIndex[[32]byte(computed)] = id
		}
	})
	id, ok := e.cidIndex[c]
	return id, ok
}

// RegisterQuery binds name to fn. Re-registering a name replaces the
// previous handler; it does not evict cached results already keyed on that
// name (callers that redefine a query's semantics should Invalidate the
// CIDs that matter, or construct a fresh Engine).
func (e *Engine) RegisterQuery(name string, fn Handler) {
	e.handlers[name] = fn
}

// Diagnostics returns every purity-guard diagnostic recorded so far.
func (e *Engine) Diagnostics() []Diagnostic { return e.guard.sink.all() }

// Invalidate evicts every memoized result that depended on c's content
// (spec §4.6's dependency-tracking invalidation rule).
func (e *Engine) Invalidate(c [32]byte) { e.memo.invalidate(c) }

type frameKeyType struct{}

var frameKey frameKeyType

// frame is one entry of the per-call-chain active-query stack (spec §4.6:
// "a per-thread active-query stack keyed by MemoKey"). Since a query may
// recurse across goroutines invoked synchronously from within a handler,
// the stack is carried on context.Context as an immutable linked list
// rather than real thread-local storage, which Go does not have.
type frame struct {
	key    MemoKey
	parent *frame
	deps   map[[32]byte]struct{}
}

func activeFrame(ctx context.Context) *frame {
	f, _ := ctx.Value(frameKey).(*frame)
	return f
}

func onStack(f *frame, key MemoKey) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.key == key {
			return true
		}
	}
	return false
}

// Query runs (or returns the memoized result of) the named query with the
// given arguments (spec §4.6/§6: `query(name, args) -> Result`).
func (e *Engine) Query(ctx context.Context, name string, args []Arg) (any, error) {
	handler, ok := e.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}

	encoded, err := EncodeArgs(args)
	if err != nil {
		return nil, err
	}
	key := MemoKey{Name: name, ArgsHash: argsHash(encoded)}

	parent := activeFrame(ctx)
	if onStack(parent, key) {
		return nil, fmt.Errorf("%w: %q (%s)", ErrCycle, name, CodeCycle)
	}

	if entry, hit := e.memo.get(key); hit {
		e.stats.recordHit()
		if parent != nil {
			for d := range entry.deps {
				parent.deps[d] = struct{}{}
			}
		}
		return entry.value, nil
	}
	e.stats.recordMiss()

	// startQuery: push this key onto the active stack for the duration of
	// the call. Every exit path below runs through this single return,
	// which is the "endQuery on every exit path" guarantee spec §4.6 asks
	// for — there is no separate pop step to forget.
	self := &frame{key: key, parent: parent, deps: make(map[[32]byte]struct{})}
	childCtx := context.WithValue(ctx, frameKey, self)

	ro := &RO{
		snap:     e.snap,
		interner: e.snap.Interner(),
		engine:   e,
		guard:    e.guard,
		frame:    self,
	}

	value, err := handler(childCtx, ro, args)
	if err != nil {
		return nil, err
	}

	e.memo.put(key, memoEntry{value: value, deps: self.deps})
	if parent != nil {
		for d := range self.deps {
			parent.deps[d] = struct{}{}
		}
	}
	return value, nil
}

// RO ("read-only") is the sole capability a query handler receives. It
// exposes the pure facilities — snapshot lookup, interner reads, recording
// a CID dependency — plus guarded escape hatches that an explicitly impure
// extension query may call; every escape hatch passes through the purity
// guard first (spec §4.6).
type RO struct {
	snap     *snapshot.Snapshot
	interner *interner.Interner
	engine   *Engine
	guard    *guard
	frame    *frame
}

// Snapshot returns the frozen snapshot this query reads.
func (ro *RO) Snapshot() *snapshot.Snapshot { return ro.snap }

// Interner returns the read-only string interner view.
func (ro *RO) Interner() *interner.Interner { return ro.interner }

// RecordDependency marks c's content as having contributed to this
// query's result, so a later Invalidate(c) evicts it (and every ancestor
// query that read through it).
func (ro *RO) RecordDependency(c [32]byte) { ro.frame.deps[c] = struct{}{} }

// Recurse runs a nested named query under the same cycle-detection and
// dependency-propagation machinery as the top-level call.
func (ro *RO) Recurse(ctx context.Context, name string, args []Arg) (any, error) {
	return ro.engine.Query(ctx, name, args)
}

// FileRead is the guarded escape hatch for file-system access (spec §8
// scenario 5). Debug mode fails with ErrImpureFileSystem/Q1001;
// production mode records the Q1001 diagnostic and returns a nil read so
// the query can still produce a result.
func (ro *RO) FileRead(path string) ([]byte, error) {
	if err := ro.guard.checkFileSystem(path); err != nil {
		return nil, err
	}
	return nil, nil
}

// NetworkDial is the guarded escape hatch for network access (Q1003),
// used by extension queries such as the CLI's `hover --ai`.
func (ro *RO) NetworkDial(addr string) (io.Closer, error) {
	if err := ro.guard.checkNetwork(addr); err != nil {
		return nil, err
	}
	return nil, nil
}

// EnvLookup is the guarded escape hatch for environment access (Q1005).
func (ro *RO) EnvLookup(key string) (string, error) {
	if err := ro.guard.checkEnvironment(key); err != nil {
		return "", err
	}
	return "", nil
}
