package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/janus-lang/astdb/internal/buildlock"
	"github.com/janus-lang/astdb/internal/snapshot"
	"github.com/janus-lang/astdb/internal/srcwatch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch --dir and rebuild the snapshot on every change",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadHostConfig()

		lock := buildlock.New(flagDir)
		if err := lock.TryAcquire(); err != nil {
			fatalf("watch: %v", err)
		}
		defer lock.Release()

		w, err := srcwatch.New(flagDir, cfg.Limits, func(snap *snapshot.Snapshot, err error) {
			if err != nil {
				log.Printf("rebuild failed: %v", err)
				return
			}
			log.Printf("rebuilt snapshot: %d nodes", snap.NodeCount())
		})
		if err != nil {
			fatalf("watch: %v", err)
		}
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Println("watch: shutting down")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
