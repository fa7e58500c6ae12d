// Package main is the entry point for the docedit terminal editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/docedit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, ok := parseFlags(os.Args[1:])
	if !ok {
		return code
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags returns the options, or ok false with the exit code when
// the program should stop.
func parseFlags(args []string) (opts app.Options, code int, ok bool) {
	fs := flag.NewFlagSet("docedit", flag.ContinueOnError)
	var showVersion bool

	fs.StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "Path to configuration file (TOML or YAML)")
	fs.StringVar(&opts.ConfigPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	fs.BoolVar(&opts.Watch, "watch", true, "Reload the configuration file when it changes")
	fs.StringVar(&opts.Replay, "replay", "", "Apply the operations in a journal or JSON array file before editing")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "docedit - collaborative-ready text document editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: docedit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  docedit                     Edit an empty document\n")
		fmt.Fprintf(os.Stderr, "  docedit notes.txt           Edit the text of notes.txt\n")
		fmt.Fprintf(os.Stderr, "  docedit -c keys.yaml        Use another configuration\n")
		fmt.Fprintf(os.Stderr, "  docedit -replay ops.jsonl   Replay a recorded operation journal\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showVersion {
		fmt.Printf("docedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, 0, false
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		return opts, 1, false
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: at most one file may be given\n")
		return opts, 1, false
	}
	return opts, 0, true
}
