// Package applog provides the host-facing logger every astdbctl
// subcommand writes through: a stdlib *log.Logger backed by a
// lumberjack.Logger for size/age-based rotation, matching the teacher's
// plain stdlib `log` usage (internal/snapshot and internal/query never log
// on their own — the core stays silent and pure; only the host layer
// logs).
package applog

import (
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures rotation. Zero values fall back to lumberjack's own
// defaults (100MB max size, no age limit, no backup limit, no compression).
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a *log.Logger writing to opts.Path with rotation, or to
// stderr if opts.Path is empty (the common case for a one-shot CLI
// invocation that doesn't want a log file at all).
func New(opts Options) *log.Logger {
	if opts.Path == "" {
		return log.New(os.Stderr, "astdb: ", log.LstdFlags)
	}
	writer := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	return log.New(writer, "astdb: ", log.LstdFlags)
}
