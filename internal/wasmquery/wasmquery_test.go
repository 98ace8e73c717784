package wasmquery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// emptyModule is the minimal valid WASM binary: the 4-byte "\0asm" magic
// plus the 4-byte version-1 header, with every section omitted. It
// compiles and instantiates successfully but exports nothing, which is
// exactly what exercises the loader's "guest declares no surface" rejection
// paths without needing a real guest toolchain to produce one.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()
	b := snapshot.OpenSnapshot(interner.New(), snapshot.Limits{})
	return query.NewEngine(b.Freeze(), query.ModeDebug, cid.DefaultOpts())
}

func TestRegisterExtensionRejectsModuleWithNoMemory(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(ctx)
	defer loader.Close(ctx)

	engine := newTestEngine(t)
	err := loader.RegisterExtension(ctx, engine, "noop", emptyModule)
	if !errors.Is(err, ErrNoMemory) {
		t.Fatalf("RegisterExtension error = %v, want ErrNoMemory", err)
	}
}

func TestRegisterExtensionRejectsBadBytes(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(ctx)
	defer loader.Close(ctx)

	engine := newTestEngine(t)
	err := loader.RegisterExtension(ctx, engine, "garbage", []byte("not a wasm module"))
	if err == nil {
		t.Fatalf("RegisterExtension should reject non-WASM bytes")
	}
}

// TestSandboxHasNoWASI documents the purity-by-sandboxing property this
// package is grounded on (spec §4.6): a guest that imports
// wasi_snapshot_preview1 (the standard way a WASM module reaches files,
// clocks, or environment variables) fails to instantiate, because Loader
// never registers that host module on its runtime. Only guests that import
// nothing can be instantiated by this Loader — there is no configuration
// path back to WASI short of editing this file.
func TestSandboxHasNoWASI(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(ctx)
	defer loader.Close(ctx)
	if loader.runtime == nil {
		t.Fatalf("loader has no runtime")
	}

	// Header, a type section with one () -> () signature, and an import
	// section importing wasi_snapshot_preview1.fd_write with that type.
	wasiImporter := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
		0x02, 0x23, 0x01, 0x16,
	}
	wasiImporter = append(wasiImporter, "wasi_snapshot_preview1"...)
	wasiImporter = append(wasiImporter, 0x08)
	wasiImporter = append(wasiImporter, "fd_write"...)
	wasiImporter = append(wasiImporter, 0x00, 0x00)

	err := loader.RegisterExtension(ctx, newTestEngine(t), "wasi", wasiImporter)
	if err == nil || !strings.Contains(err.Error(), "instantiate") {
		t.Fatalf("RegisterExtension(WASI importer) error = %v, want an instantiate failure", err)
	}
}
