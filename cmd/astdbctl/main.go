// Command astdbctl is a demo CLI / query console over the astdb module.
// It is a consumer of the store, not part of the core: it builds
// snapshots through internal/srcwatch, hashes them with internal/cid, and
// runs queries through internal/query's Engine, the same kind of boundary
// the teacher draws between cmd/bd and internal/storage.
package main

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janus-lang/astdb/internal/applog"
	"github.com/janus-lang/astdb/internal/hostconfig"
)

var (
	flagDir        string
	flagConfigPath string
	flagLogPath    string
)

var log *stdlog.Logger

var rootCmd = &cobra.Command{
	Use:   "astdbctl",
	Short: "Build, watch, and query an AST database",
	Long: `astdbctl is a demo console for the astdb module: it tokenizes a
directory of source fragments into a snapshot, freezes it, and runs named
queries (ResolveName, TypeOf, Effects, Dispatch, Hover, Definition,
References) against the result.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = applog.New(applog.Options{Path: flagLogPath})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "source directory to build/watch/query")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to astdb.yaml (defaults to upward discovery)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "log file path (stderr if unset)")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "astdbctl: "+format+"\n", args...)
	os.Exit(1)
}

func loadHostConfig() hostconfig.Config {
	cfg, err := hostconfig.Load(flagConfigPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
