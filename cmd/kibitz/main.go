// Package main is the entry point for the kibitz completion pad, a
// terminal scratch buffer wired to the completion engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kibitz/internal/backend"
	"github.com/dshills/kibitz/internal/config"
	"github.com/dshills/kibitz/internal/engine"
	"github.com/dshills/kibitz/internal/host"
	"github.com/dshills/kibitz/internal/logger"
	"github.com/dshills/kibitz/internal/trigger"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const scratchHeader = "// kibitz scratch pad: type obj. to complete, Tab accepts\n"

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	logLevel   string
	logFile    string
	useStub    bool
	writeInit  bool
}

func run() int {
	opts := parseFlags()

	if opts.writeInit {
		if err := config.WriteDefault(opts.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s\n", opts.configPath)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The terminal belongs to tcell, so logs go to a file or nowhere.
	var logW io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logW = f
	}
	lg := logger.New(logW, "kibitz")

	be, err := buildBackend(cfg, opts.useStub, logW)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start backend: %v\n", err)
		return 1
	}
	if c, ok := be.(io.Closer); ok {
		defer c.Close()
	}

	policy, cleanup, err := buildPolicy(cfg.Trigger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	var buf scratchBuffer = host.NewTextBuffer(scratchHeader)
	if cfg.Completion.Snippets {
		buf = host.NewSnippetBuffer(scratchHeader)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	sess := engine.NewSession(buf, be,
		engine.WithPolicy(policy),
		engine.WithLogger(logger.New(logW, "engine")),
		engine.WithOnCommit(func(engine.Commit) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; event queue may be full
		}),
	)
	defer sess.Close()

	u := newUI(screen, buf, sess, lg, cfg.Completion.MaxVisible)

	if _, err := os.Stat(opts.configPath); err == nil {
		w, err := config.Watch(opts.configPath, func(next config.Config) {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				lg.Warn("reloaded log level rejected", "err", err)
			}
			u.setMaxVisible(next.Completion.MaxVisible)
			lg.Info("config reloaded; backend and trigger changes take effect on restart")
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; event queue may be full
		}, config.WithLogger(logger.New(logW, "config")))
		if err != nil {
			lg.Warn("config watch unavailable", "err", err)
		} else {
			defer w.Close()
		}
	}

	u.loop()
	return 0
}

// buildBackend starts the configured subprocess, or the canned stub
// when none is configured or -stub is set.
func buildBackend(cfg config.Config, useStub bool, logW io.Writer) (backend.Backend, error) {
	if useStub || cfg.Backend.Command == "" {
		return backend.NewStub(
			backend.WithScript(demoScript),
			backend.WithDelay(120*time.Millisecond),
		), nil
	}
	return backend.NewProcess(cfg.Backend.Command, cfg.Backend.Args,
		backend.WithLogger(logger.New(logW, "backend")),
		backend.WithDir(cfg.Backend.Dir),
	)
}

// buildPolicy assembles the trigger policy, loading the Lua predicate
// when one is configured. The cleanup releases the predicate.
func buildPolicy(tc config.TriggerConfig) (*trigger.Policy, func(), error) {
	opts := tc.PolicyOptions()
	cleanup := func() {}
	if tc.Script != "" {
		src, err := os.ReadFile(tc.Script)
		if err != nil {
			return nil, nil, fmt.Errorf("reading trigger script %s: %w", tc.Script, err)
		}
		pred, err := trigger.NewLuaPredicate(string(src))
		if err != nil {
			return nil, nil, fmt.Errorf("loading trigger script %s: %w", tc.Script, err)
		}
		opts = append(opts, trigger.WithPredicate(pred.Func()))
		cleanup = pred.Close
	}
	return trigger.NewPolicy(opts...), cleanup, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	flag.BoolVar(&opts.useStub, "stub", false, "Use the built-in stub backend even when one is configured")
	flag.BoolVar(&opts.writeInit, "init", false, "Write a starter configuration file and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "kibitz - completion engine scratch pad\n\n")
		fmt.Fprintf(os.Stderr, "Usage: kibitz [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  kibitz                      Run with the built-in stub backend\n")
		fmt.Fprintf(os.Stderr, "  kibitz -init                Write a starter config\n")
		fmt.Fprintf(os.Stderr, "  kibitz -log-file kibitz.log Run with debug logs on disk\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("kibitz %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kibitz.toml"
	}
	return filepath.Join(dir, "kibitz", "kibitz.toml")
}
