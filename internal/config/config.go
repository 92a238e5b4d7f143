// Package config loads, validates, and watches the kibitz
// configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/kibitz/internal/trigger"
)

// Config is the top-level configuration. Absent keys keep their
// defaults; see Default.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Trigger    TriggerConfig    `toml:"trigger"`
	Completion CompletionConfig `toml:"completion"`
	Log        LogConfig        `toml:"log"`
}

// BackendConfig describes the completion backend subprocess. An empty
// Command means no subprocess; hosts fall back to their own backend.
type BackendConfig struct {
	// Command is the backend executable.
	Command string `toml:"command"`

	// Args are passed to the executable.
	Args []string `toml:"args"`

	// Dir is the working directory for the subprocess.
	Dir string `toml:"dir"`
}

// TriggerConfig describes when completion may trigger.
type TriggerConfig struct {
	// Commands is the exact-match command allow-list.
	Commands []string `toml:"commands"`

	// Prefixes lists command-name prefixes that also trigger.
	Prefixes []string `toml:"prefixes"`

	// Operators are the member-access operators a context must follow.
	Operators []string `toml:"operators"`

	// Script is the path to a Lua predicate consulted for commands the
	// allow-list and prefixes do not cover.
	Script string `toml:"script"`
}

// CompletionConfig describes completion presentation.
type CompletionConfig struct {
	// MaxVisible caps the candidate rows a host shows at once.
	MaxVisible int `toml:"max_visible"`

	// Snippets enables tab-stop snippet insertion on accept.
	Snippets bool `toml:"snippets"`
}

// LogConfig describes logging.
type LogConfig struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	Level string `toml:"level"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Trigger: TriggerConfig{
			Commands:  []string{"self-insert"},
			Prefixes:  []string{"electric-"},
			Operators: []string{".", "->", "::"},
		},
		Completion: CompletionConfig{
			MaxVisible: 8,
			Snippets:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path over the defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no component can use.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidValue, c.Log.Level)
	}
	if c.Completion.MaxVisible <= 0 {
		return fmt.Errorf("%w: completion.max_visible must be positive, got %d", ErrInvalidValue, c.Completion.MaxVisible)
	}
	for _, op := range c.Trigger.Operators {
		if op == "" {
			return fmt.Errorf("%w: trigger.operators must not contain empty strings", ErrInvalidValue)
		}
	}
	if c.Backend.Command == "" && len(c.Backend.Args) > 0 {
		return fmt.Errorf("%w: backend.args set without backend.command", ErrInvalidValue)
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault writes a starter configuration file, creating parent
// directories as needed and refusing to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err := Default().Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return f.Close()
}

// PolicyOptions returns the trigger options the section describes. The
// Lua predicate named by Script is not included; the caller wires it
// separately because it owns the predicate's lifecycle.
func (t TriggerConfig) PolicyOptions() []trigger.Option {
	return []trigger.Option{
		trigger.WithCommands(t.Commands...),
		trigger.WithPrefixes(t.Prefixes...),
		trigger.WithOperators(t.Operators...),
	}
}
