package main

import (
	"log/slog"
	"os"

	"github.com/elysium-os/chariot/internal/chariot"
	"github.com/elysium-os/chariot/internal/cli"
	"github.com/elysium-os/chariot/internal/loghandler"
)

// Builds an operating system from source recipes inside a reproducible
// container.
//
// Parses flags and the entry DSL config, resolves the recipe graph, and
// runs the requested recipes one at a time. A failed forced recipe does not
// stop the others; the process exits nonzero if any of them failed.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", chariot.VersionString())

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Creates a logger seeded from build-time linker flags. The
// logger is reconfigured after flag parsing, once the final verbosity
// flags are known, by cli.Execute.
func logger() *slog.Logger {
	handler := loghandler.New()
	handler.SetLevel(logLevel())
	return slog.New(handler)
}

// Returns the log level derived from build-time linker flags.
func logLevel() slog.Level {
	if chariot.IsDebug() {
		return slog.LevelDebug
	}
	if chariot.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
