// Package logger builds the loggers kibitz subsystems share.
//
// Subsystems take a *log.Logger and never construct their own, so hosts
// embedding the engine can route or silence everything from one place.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Default returns a stderr logger for the named subsystem at the global
// level. Stderr keeps log output away from stdio-based backend protocols
// and terminal UIs.
func Default(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// New returns a logger for the named subsystem writing to w.
func New(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Discard returns a logger that drops everything. Tests use it to keep
// output clean.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// SetLevel parses a level name ("debug", "info", "warn", "error") and
// applies it to the global level new loggers inherit.
func SetLevel(level string) error {
	lv, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	log.SetLevel(lv)
	return nil
}
