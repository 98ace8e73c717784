package query

import (
	"fmt"
	"sync"

	"github.com/janus-lang/astdb/internal/snapshot"
)

// Mode selects the purity guard's enforcement policy (spec §4.6 /
// §8 scenario 5): Debug fails the query outright; Production records a
// diagnostic and lets the query continue.
type Mode uint8

const (
	ModeDebug Mode = iota
	ModeProduction
)

// Diagnostic mirrors the fixed field set of spec §6's wire format, scoped
// to query-engine failures rather than parser/binder ones.
type Diagnostic struct {
	Code         string
	Severity     snapshot.Severity
	Message      string
	LocationHint string
	Suggestion   string
}

// diagSink accumulates query-engine diagnostics. Safe for concurrent use
// across parallel query reads (spec §5).
type diagSink struct {
	mu   sync.Mutex
	rows []Diagnostic
}

func (d *diagSink) record(diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = append(d.rows, diag)
}

func (d *diagSink) all() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.rows))
	copy(out, d.rows)
	return out
}

// guard enforces the purity contract (spec §4.6) for the guarded escape
// hatches on RO: every FileRead, NetworkDial, or EnvLookup call passes
// through here first. I/O a handler performs without going through RO is
// not seen by the guard.
type guard struct {
	mode Mode
	sink *diagSink
}

func (g *guard) checkFileSystem(hint string) error {
	return g.check(CodeImpureFileSystem, ErrImpureFileSystem, "file system access", hint,
		"Move I/O to dependent query boundary")
}

func (g *guard) checkNetwork(hint string) error {
	return g.check(CodeImpureNetworkAccess, ErrImpureNetwork, "network access", hint,
		"Move network I/O to dependent query boundary")
}

func (g *guard) checkEnvironment(hint string) error {
	return g.check(CodeImpureEnvironment, ErrImpureEnvironment, "environment access", hint,
		"Move environment reads to dependent query boundary")
}

func (g *guard) check(code string, sentinel error, kind, hint, suggestion string) error {
	msg := fmt.Sprintf("%s attempted inside a pure query", kind)
	g.sink.record(Diagnostic{
		Code:         code,
		Severity:     snapshot.SeverityError,
		Message:      msg,
		LocationHint: hint,
		Suggestion:   suggestion,
	})
	if g.mode == ModeDebug {
		return sentinel
	}
	return nil
}
