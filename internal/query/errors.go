package query

import "errors"

// Diagnostic codes, spec §6/§8: the stable set a host can pattern-match on.
const (
	CodeNonCanonicalArg     = "QE0005"
	CodeCycle               = "QE0007"
	CodeImpureFileSystem    = "Q1001"
	CodeImpureNetworkAccess = "Q1003"
	CodeImpureEnvironment   = "Q1005"
)

var (
	// ErrNonCanonicalArg is returned when an argument fails canonical
	// encoding (invalid UTF-8 string, wrong-width CID) — spec §4.6, code
	// QE0005.
	ErrNonCanonicalArg = errors.New("query: argument is not canonically encodable")

	// ErrCycle is returned when a query transitively calls itself with the
	// same canonical arguments — spec §4.6, code QE0007.
	ErrCycle = errors.New("query: cycle detected")

	// ErrImpureFileSystem is returned (debug mode only) when a query
	// attempts file-system access — spec §4.6, code Q1001.
	ErrImpureFileSystem = errors.New("query: file system access is not permitted inside a pure query")

	// ErrImpureNetwork is returned (debug mode only) when a query attempts
	// network access — spec §4.6, code Q1003.
	ErrImpureNetwork = errors.New("query: network access is not permitted inside a pure query")

	// ErrImpureEnvironment is returned (debug mode only) when a query
	// attempts environment-variable access — spec §4.6, code Q1005.
	ErrImpureEnvironment = errors.New("query: environment access is not permitted inside a pure query")

	// ErrUnknownQuery is returned by Query when no handler is registered
	// under the given name.
	ErrUnknownQuery = errors.New("query: no handler registered under this name")
)
