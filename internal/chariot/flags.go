// Package chariot holds ambient, process-wide state: build metadata and the
// quiet/verbose/debug presentation flags. It deliberately does not hold any
// recipe-engine domain state — that flows through an explicit
// [github.com/elysium-os/chariot/internal/executor.RunContext] instead.
package chariot

import "sync/atomic"

var (
	quietMode   atomic.Bool
	debugMode   atomic.Bool
	verboseMode atomic.Bool
)

// SetQuiet enables or disables quiet mode.
func SetQuiet(enabled bool) { quietMode.Store(enabled) }

// IsQuiet reports whether quiet mode is enabled.
func IsQuiet() bool { return quietMode.Load() }

// SetDebug enables or disables debug mode.
func SetDebug(enabled bool) { debugMode.Store(enabled) }

// IsDebug reports whether debug mode is enabled.
func IsDebug() bool { return debugMode.Load() }

// SetVerbose enables or disables verbose logging.
func SetVerbose(enabled bool) { verboseMode.Store(enabled) }

// IsVerbose reports whether verbose logging is enabled.
func IsVerbose() bool { return verboseMode.Load() }
