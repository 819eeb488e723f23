package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/elysium-os/chariot/internal/dsl"
	"github.com/elysium-os/chariot/internal/executor"
	"github.com/elysium-os/chariot/internal/graph"
	"github.com/elysium-os/chariot/internal/interpolate"
	"github.com/elysium-os/chariot/internal/overrides"
	"github.com/elysium-os/chariot/internal/paths"
	"github.com/elysium-os/chariot/internal/recipe"
)

// rootfsPackageManifest is the fixed bootstrap package set installed once
// onto the base rootfs layer (spec §4.4: "an opaque manifest").
var rootfsPackageManifest = []string{
	"bison", "diffutils", "gettext", "libtool", "m4", "make",
	"patch", "perl", "python", "texinfo", "git", "curl",
}

// loadConfig parses the entry DSL file and all its @imports, builds the
// recipe list, resolves dependency edges, and applies .chariot-overrides.
func loadConfig() (*recipe.Config, error) {
	decls, err := dsl.Parse(RootCmd.Config, func(path string) (string, error) {
		data, err := os.ReadFile(path)
		return string(data), err
	})
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	recipes, err := dsl.BuildRecipes(decls)
	if err != nil {
		return nil, fmt.Errorf("build config: %w", err)
	}

	cfg, err := recipe.NewConfig(recipes)
	if err != nil {
		return nil, err
	}

	if err := graph.Resolve(cfg); err != nil {
		return nil, fmt.Errorf("resolve config: %w", err)
	}

	overridesPath := filepath.Join(filepath.Dir(RootCmd.Config), ".chariot-overrides")
	ov, err := overrides.Load(overridesPath)
	if err != nil {
		return nil, err
	}
	overrides.Apply(ov, cfg.Recipes)

	return cfg, nil
}

// newExecutor builds an *executor.Executor from the global flags and a
// freshly loaded config.
func newExecutor() (*executor.Executor, *recipe.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	vars, err := userVars(RootCmd.Var)
	if err != nil {
		return nil, nil, err
	}

	rc := &executor.RunContext{
		Config:                cfg,
		Root:                  paths.NewRoot(RootCmd.Cache),
		UserVars:              interpolate.Variables(vars),
		ThreadCount:           RootCmd.ThreadCount,
		HideConflicts:         RootCmd.HideConflicts,
		CleanCache:            RootCmd.CleanCache,
		Quiet:                 RootCmd.Quiet,
		RootfsImageRef:        RootCmd.RootfsImage,
		RootfsPackageManifest: rootfsPackageManifest,
	}

	exec, err := executor.New(rc, RootCmd.NoLockfile)
	if err != nil {
		return nil, nil, err
	}
	return exec, cfg, nil
}

// parseRecipeIDs parses CLI recipe arguments of the form
// "<source|host|target>/<name>" (spec §6). Unknown recipes are skipped
// with a warning rather than failing the whole invocation.
func parseRecipeIDs(cfg *recipe.Config, args []string) []recipe.ID {
	var ids []recipe.ID
	for _, arg := range args {
		ns, name, ok := splitRecipeRef(arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: %q is not a <namespace>/<name> recipe reference, skipping\n", arg)
			continue
		}
		id := recipe.ID{Namespace: recipe.Namespace(ns), Name: name}
		if cfg.Lookup(id) == nil {
			fmt.Fprintf(os.Stderr, "warning: unknown recipe %s, skipping\n", id)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// splitRecipeRef splits "namespace/name" on the first '/'.
func splitRecipeRef(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
