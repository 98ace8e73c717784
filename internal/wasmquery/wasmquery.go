// Package wasmquery loads extension queries compiled to WebAssembly and
// runs them inside a wazero sandbox (spec §4.6's "extension query"
// surface). Where internal/query's purity guard enforces purity by
// interception — the handler only ever holds an RO capability — a WASM
// guest enforces it by construction: it has no imported host function that
// reaches the file system, network, or environment unless this loader
// explicitly wires one up, and it does not.
package wasmquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"

	"github.com/janus-lang/astdb/internal/query"
)

// ErrNoMemory is returned when a guest module does not export linear
// memory, which every extension query needs to exchange argument/result
// bytes with the host.
var ErrNoMemory = errors.New("wasmquery: guest module exports no memory")

// ErrMissingExport is returned when a guest module does not export the
// required `run` function.
var ErrMissingExport = errors.New("wasmquery: guest module does not export \"run\"")

// Loader compiles and instantiates guest WASM modules, registering each as
// a named query on a query.Engine. One Loader may back several guests; all
// share the same wazero runtime.
type Loader struct {
	runtime wazero.Runtime
}

// NewLoader creates a Loader with a fresh wazero runtime. No host modules
// are instantiated beyond the runtime's own compiler internals — in
// particular, no WASI is wired in, so a guest that imports
// wasi_snapshot_preview1 fails to instantiate rather than silently gaining
// file/network/clock access.
func NewLoader(ctx context.Context) *Loader {
	return &Loader{runtime: wazero.NewRuntime(ctx)}
}

// Close releases the loader's wazero runtime and every module compiled
// through it.
func (l *Loader) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}

// RegisterExtension compiles wasmBytes and registers it on engine under
// name. The guest must export a `memory` and a function `run(argsPtr,
// argsLen i32) (resultPtr, resultLen i32)`; the host writes the canonical
// query.EncodeArgs bytes into guest memory, calls run, and reads back a
// result byte stream the guest itself defines (the query engine only
// records it as an opaque successful value — an extension query's result
// shape is a contract between the guest and whatever consumer invokes it,
// not something internal/query interprets).
func (l *Loader) RegisterExtension(ctx context.Context, engine *query.Engine, name string, wasmBytes []byte) error {
	compiled, err := l.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("wasmquery: compile %q: %w", name, err)
	}

	mod, err := l.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return fmt.Errorf("wasmquery: instantiate %q: %w", name, err)
	}

	mem := mod.Memory()
	if mem == nil {
		return fmt.Errorf("%w: %q", ErrNoMemory, name)
	}
	run := mod.ExportedFunction("run")
	if run == nil {
		return fmt.Errorf("%w: %q", ErrMissingExport, name)
	}
	allocate := mod.ExportedFunction("allocate")

	engine.RegisterQuery(name, func(ctx context.Context, ro *query.RO, args []query.Arg) (any, error) {
		encoded, err := query.EncodeArgs(args)
		if err != nil {
			return nil, err
		}

		var argsPtr uint64
		if allocate != nil {
			res, err := allocate.Call(ctx, uint64(len(encoded)))
			if err != nil {
				return nil, fmt.Errorf("wasmquery: %q allocate: %w", name, err)
			}
			argsPtr = res[0]
		}
		if !mem.Write(uint32(argsPtr), encoded) {
			return nil, fmt.Errorf("wasmquery: %q: failed writing %d argument bytes at 0x%x", name, len(encoded), argsPtr)
		}

		results, err := run.Call(ctx, argsPtr, uint64(len(encoded)))
		if err != nil {
			return nil, fmt.Errorf("wasmquery: %q run: %w", name, err)
		}
		if len(results) != 2 {
			return nil, fmt.Errorf("wasmquery: %q run returned %d values, want 2 (ptr, len)", name, len(results))
		}

		resultPtr, resultLen := uint32(results[0]), uint32(results[1])
		out, ok := mem.Read(resultPtr, resultLen)
		if !ok {
			return nil, fmt.Errorf("wasmquery: %q: failed reading %d result bytes at 0x%x", name, resultLen, resultPtr)
		}
		resultCopy := make([]byte, len(out))
		copy(resultCopy, out)
		return resultCopy, nil
	})
	return nil
}
