package cli

import (
	"context"
	"fmt"
)

// BuildCmd builds one or more recipes. It is kong's default command, so a
// bare `chariot source/foo host/bar` invocation routes here (spec §6's
// core flag-based contract, expressed as the default subcommand per the
// "later revisions add subcommands... core contract unchanged" note).
type BuildCmd struct {
	Recipes []string `arg:"" optional:"" help:"Recipes to build, as <namespace>/<name>."`
}

// Run builds the requested recipes, returning a non-nil error if any
// failed (the process then exits nonzero, per spec §6).
func (c *BuildCmd) Run(ctx context.Context) error {
	exec, cfg, err := newExecutor()
	if err != nil {
		return err
	}
	defer exec.Close()

	ids := parseRecipeIDs(cfg, c.Recipes)
	if len(ids) == 0 {
		return fmt.Errorf("no recipes to build")
	}

	return exec.Build(ctx, ids)
}
