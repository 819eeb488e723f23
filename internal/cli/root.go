// Package cli implements chariot's command-line surface (spec §6): a set
// of global flags plus subcommands built on github.com/alecthomas/kong,
// following the teacher's kong.Parse / kong.Vars / kong.BindTo pattern.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/elysium-os/chariot/internal/chariot"
	"github.com/elysium-os/chariot/internal/loghandler"
)

// RootCmd is chariot's command line: global flags plus subcommands.
var RootCmd struct {
	Config        string   `help:"Path to the entry DSL config file." default:"chariot.conf" placeholder:"PATH"`
	Cache         string   `help:"Path to the cache root." default:".chariot-cache" placeholder:"PATH"`
	Verbose       bool     `short:"v" help:"Enable verbose output."`
	Quiet         bool     `help:"Suppress informational output."`
	Debug         bool     `help:"Enable debug output."`
	HideConflicts bool     `help:"Suppress dependency-copy conflict warnings."`
	Var           []string `short:"o" name:"var" help:"Set a user variable KEY=VAL." placeholder:"KEY=VAL"`
	CleanCache    bool     `help:"Also wipe each recipe's persistent build cache."`
	ThreadCount   int      `help:"Value exposed as the thread_count variable." default:"8"`
	NoLockfile    bool     `help:"Skip acquiring the cache lockfile."`
	RootfsImage   string   `help:"OCI reference of the pinned distribution bootstrap image." default:"docker.io/library/archlinux:base"`

	Build       BuildCmd       `cmd:"" default:"withargs" help:"Build one or more recipes (default command)."`
	Exec        ExecCmd        `cmd:"" help:"Run a shell command in the base rootfs layer."`
	Purge       PurgeCmd       `cmd:"" help:"Remove a recipe's on-disk cache directory."`
	List        ListCmd        `cmd:"" help:"Print the resolved recipe graph."`
	Wipe        WipeCmd        `cmd:"" help:"Wipe the entire cache root."`
	Path        PathCmd        `cmd:"" help:"Print a recipe's on-disk directory."`
	Hash        HashCmd        `cmd:"" help:"Print the image-set layer path for a package set."`
	Logs        LogsCmd        `cmd:"" help:"Print a recipe's build directory (stage output is not stored)."`
	Completions CompletionsCmd `cmd:"" help:"Generate shell completion scripts."`
}

// Execute parses arguments, configures logging, and runs the selected
// subcommand. SIGINT/SIGTERM cancel the context passed to every subcommand,
// which the executor propagates into the current container child.
func Execute() error {
	ctx := signalContext()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(chariot.Name),
		kong.Description("Bootstraps an operating system from source inside a reproducible container."),
		kong.UsageOnError(),
		kong.Vars{"version": chariot.VersionString()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

func configureLogger() {
	handler, ok := slog.Default().Handler().(*loghandler.Handler)
	if !ok {
		return
	}

	debug := RootCmd.Debug || chariot.IsDebug()
	quiet := RootCmd.Quiet || chariot.IsQuiet()
	verbose := RootCmd.Verbose || chariot.IsVerbose()

	formatter := loghandler.NewPrettyFormatter(isatty(os.Stderr))
	formatter.SetVerbose(verbose)

	switch {
	case debug:
		handler.SetLevel(slog.LevelDebug)
	case quiet:
		handler.SetLevel(slog.LevelWarn)
	default:
		handler.SetLevel(slog.LevelInfo)
	}

	handler.SetFormatter(formatter)
	handler.SetStream(os.Stderr)
	handler.Flush()
}

func isatty(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func userVars(pairs []string) (map[string]string, error) {
	vars := map[string]string{}
	for _, pair := range pairs {
		key, val, ok := splitKV(pair)
		if !ok {
			return nil, fmt.Errorf("invalid --var %q, expected KEY=VAL", pair)
		}
		vars[key] = val
	}
	return vars, nil
}

func splitKV(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
