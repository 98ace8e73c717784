package srcwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janus-lang/astdb/internal/interner"
	"github.com/janus-lang/astdb/internal/snapshot"
)

func TestTokenizeIntoProducesIdentifierDecls(t *testing.T) {
	in := interner.New()
	b := snapshot.OpenSnapshot(in, snapshot.Limits{})

	module, err := tokenizeInto(b, 0, "let x = 1")
	if err != nil {
		t.Fatalf("tokenizeInto: %v", err)
	}
	if !module.IsValid() {
		t.Fatalf("tokenizeInto returned an invalid module node for non-empty source")
	}

	snap := b.Freeze()
	node, ok := snap.GetNode(module)
	if !ok {
		t.Fatalf("GetNode(%v) not found", module)
	}
	if node.Kind != snapshot.NodeModule {
		t.Fatalf("module node kind = %v, want NodeModule", node.Kind)
	}
	// "let" and "x" are both identifiers to this lexer; "=" and "1" are not.
	if got := snap.DeclCount(); got != 2 {
		t.Fatalf("DeclCount() = %d, want 2 (one per identifier)", got)
	}
}

func TestTokenizeIntoEmptySource(t *testing.T) {
	in := interner.New()
	b := snapshot.OpenSnapshot(in, snapshot.Limits{})

	module, err := tokenizeInto(b, 0, "")
	if err != nil {
		t.Fatalf("tokenizeInto(\"\"): %v", err)
	}
	if module.IsValid() {
		t.Fatalf("tokenizeInto(\"\") should return an invalid node, got %v", module)
	}
}

func TestWatcherRebuildsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.janus")
	if err := os.WriteFile(path, []byte("let x = 1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	results := make(chan *snapshot.Snapshot, 8)
	w, err := New(dir, snapshot.Limits{}, func(s *snapshot.Snapshot, err error) {
		if err != nil {
			t.Errorf("onSnapshot error: %v", err)
			return
		}
		results <- s
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for initial build")
	}

	if err := os.WriteFile(path, []byte("let x = 2\nlet y = 3"), 0o644); err != nil {
		t.Fatalf("WriteFile update: %v", err)
	}

	select {
	case s := <-results:
		if s == nil {
			t.Fatalf("rebuilt snapshot is nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for rebuild after file change")
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	calls := make(chan struct{}, 8)
	d := NewDebouncer(50*time.Millisecond, func() { calls <- struct{}{} })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("debounced fn never fired")
	}

	select {
	case <-calls:
		t.Fatalf("debounced fn fired more than once for one burst")
	case <-time.After(100 * time.Millisecond):
	}
}
