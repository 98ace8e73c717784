package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/srcwatch"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Tokenize --dir into a snapshot and print each file's root CID",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadHostConfig()

		snap, roots, err := srcwatch.BuildOnce(flagDir, cfg.Limits)
		if err != nil {
			fatalf("build: %v", err)
		}
		log.Printf("built snapshot from %s: %d tokens, %d nodes", flagDir, snap.TokenCount(), snap.NodeCount())

		for i, root := range roots {
			c, err := cid.Compute(snap, cid.NodeSubject(root), cfg.CIDOpts)
			if err != nil {
				fatalf("computing cid for root %d: %v", i, err)
			}
			fmt.Printf("%s\n", cid.Format(c))
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
