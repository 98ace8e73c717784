package main

import (
	"context"
	"os"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// astdbctlTestHelperEnv triggers main() to run in-process when this test
// binary re-execs itself as "astdbctl" under a script. The same self-exec
// trick rogpeppe/go-internal/testscript uses for CLI-level script tests.
const astdbctlTestHelperEnv = "ASTDBCTL_SCRIPT_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(astdbctlTestHelperEnv) == "1" {
		main()
		return
	}
	os.Exit(m.Run())
}

// TestScripts drives cmd/astdbctl/testdata/*.txtar end to end: each
// script sets up a tiny source directory, runs one astdbctl subcommand
// against it, and checks the printed output. Grounded on rsc.io/script's own
// scripttest.Test harness (the teacher declares this dependency for
// CLI-level script tests but ships no retrievable call site in the
// retrieved pack).
func TestScripts(t *testing.T) {
	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	engine.Cmds["astdbctl"] = script.Program(os.Args[0], nil, 0)

	env := []string{
		"PATH=" + os.Getenv("PATH"),
		astdbctlTestHelperEnv + "=1",
	}
	scripttest.Test(t, context.Background(), engine, env, "testdata/*.txtar")
}
