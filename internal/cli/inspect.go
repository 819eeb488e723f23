package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/elysium-os/chariot/internal/layerset"
	"github.com/elysium-os/chariot/internal/paths"
)

// PurgeCmd removes a single recipe's on-disk cache directory.
type PurgeCmd struct {
	Recipe string `arg:"" help:"Recipe to purge, as <namespace>/<name>."`
}

func (c *PurgeCmd) Run(ctx context.Context) error {
	ns, name, ok := splitRecipeRef(c.Recipe)
	if !ok {
		return fmt.Errorf("invalid recipe reference %q", c.Recipe)
	}
	dir := paths.NewRoot(RootCmd.Cache).RecipeDir(ns, name)
	return os.RemoveAll(dir)
}

// ListCmd prints the resolved recipe graph.
type ListCmd struct{}

func (c *ListCmd) Run(ctx context.Context) error {
	_, cfg, err := newExecutor()
	if err != nil {
		return err
	}
	for _, r := range cfg.Recipes {
		fmt.Println(r.ID.String())
	}
	return nil
}

// WipeCmd wipes the entire cache root.
type WipeCmd struct{}

func (c *WipeCmd) Run(ctx context.Context) error {
	return os.RemoveAll(RootCmd.Cache)
}

// PathCmd prints a recipe's on-disk directory (whether or not it exists).
type PathCmd struct {
	Recipe string `arg:"" help:"Recipe to print the path of, as <namespace>/<name>."`
}

func (c *PathCmd) Run(ctx context.Context) error {
	ns, name, ok := splitRecipeRef(c.Recipe)
	if !ok {
		return fmt.Errorf("invalid recipe reference %q", c.Recipe)
	}
	fmt.Println(paths.NewRoot(RootCmd.Cache).RecipeDir(ns, name))
	return nil
}

// HashCmd prints the image-set layer path for a given package set (spec
// §4.4's layer canonicalization, exposed as a cosmetic CLI surface per
// spec §1's "pretty-print of list/path/hash are external").
type HashCmd struct {
	Packages []string `arg:"" help:"Distribution package names."`
}

func (c *HashCmd) Run(ctx context.Context) error {
	root := paths.NewRoot(RootCmd.Cache)
	sorted := layerset.Canonicalize(c.Packages)
	fmt.Println(layerset.LayerDir(root, sorted))
	return nil
}

// LogsCmd prints a recipe's build directory. Stage output is not written to
// disk: it streams to the terminal (or, in quiet mode, is held in memory
// only for the failing stage's error message), so there is no stored log to
// print.
type LogsCmd struct {
	Recipe string `arg:"" help:"Recipe to print logs for, as <namespace>/<name>."`
}

func (c *LogsCmd) Run(ctx context.Context) error {
	ns, name, ok := splitRecipeRef(c.Recipe)
	if !ok {
		return fmt.Errorf("invalid recipe reference %q", c.Recipe)
	}
	dir := paths.NewRoot(RootCmd.Cache).BuildDir(ns, name)
	fmt.Printf("stage output for %s is not persisted separately from the container's stdio; build directory: %s\n", c.Recipe, dir)
	return nil
}

// CompletionsCmd stands in for shell completion generation. Cosmetic,
// external to the core per spec §1; no completion script is bundled, it
// prints a one-line note saying so.
type CompletionsCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell to generate completions for."`
}

func (c *CompletionsCmd) Run(ctx context.Context) error {
	fmt.Printf("# %s completions for chariot are not bundled; see your shell's kong completion plugin.\n", c.Shell)
	return nil
}
