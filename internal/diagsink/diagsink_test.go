package diagsink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/janus-lang/astdb/internal/query"
	"github.com/janus-lang/astdb/internal/snapshot"
)

func TestRecordAndAll(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "diags.db")

	sink, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sink.Close()

	diags := []query.Diagnostic{
		{Code: "Q1001", Severity: snapshot.SeverityError, Message: "file system access attempted inside a pure query", Suggestion: "Move I/O to dependent query boundary"},
		{Code: "QE0007", Severity: snapshot.SeverityError, Message: "cycle detected"},
	}
	if err := sink.RecordAll(ctx, diags); err != nil {
		t.Fatalf("RecordAll: %v", err)
	}

	got, err := sink.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(got))
	}
	if got[0].Code != "Q1001" || got[1].Code != "QE0007" {
		t.Fatalf("rows out of order: %+v", got)
	}
	if got[0].Severity != snapshot.SeverityError {
		t.Errorf("Severity = %v, want SeverityError", got[0].Severity)
	}
}

func TestOpenCreatesSchemaIdempotently(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "diags.db")

	sink1, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open #1: %v", err)
	}
	sink1.Close()

	sink2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open #2: %v", err)
	}
	defer sink2.Close()

	if _, err := sink2.All(ctx); err != nil {
		t.Fatalf("All after reopen: %v", err)
	}
}
