// Package executor is the stage executor (spec §4.5): the top-level
// driver that walks the dependency graph post-order, lays out each
// recipe's cache directories, composes container mounts, interpolates and
// runs each stage's scripts, and cleans up on failure.
//
// All domain state for one run lives on [RunContext], which is threaded
// through by parameter rather than held in package-level storage (spec §9
// design note: Status is the only per-run mutable state that belongs on
// the recipe itself).
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/elysium-os/chariot/internal/cachelock"
	"github.com/elysium-os/chariot/internal/cherr"
	"github.com/elysium-os/chariot/internal/graph"
	"github.com/elysium-os/chariot/internal/interpolate"
	"github.com/elysium-os/chariot/internal/layerset"
	"github.com/elysium-os/chariot/internal/paths"
	"github.com/elysium-os/chariot/internal/recipe"
)

// ErrBuild is wrapped around any recipe pipeline failure.
var ErrBuild = errors.New("recipe build failed")

// ErrConfig is wrapped around any configuration error (spec §7): fatal,
// surfaced before any side effect.
var ErrConfig = errors.New("configuration error")

// RunContext carries every piece of state one chariot invocation needs.
type RunContext struct {
	Config *recipe.Config
	Root   paths.Root

	UserVars      interpolate.Variables
	ThreadCount   int
	HideConflicts bool
	CleanCache    bool
	Quiet         bool

	RootfsImageRef        string
	RootfsPackageManifest []string
}

// Executor drives recipe builds against a RunContext.
type Executor struct {
	rc   *RunContext
	lock *cachelock.Lock
}

// New validates user variables and acquires the cache lock (spec §5).
// noLockfile bypasses lock acquisition (the --no-lockfile escape hatch).
func New(rc *RunContext, noLockfile bool) (*Executor, error) {
	if err := interpolate.ValidateUserVariables(rc.UserVars); err != nil {
		return nil, cherr.Wrap(ErrConfig, err)
	}

	e := &Executor{rc: rc}
	if !noLockfile {
		lock, err := cachelock.Acquire(rc.Root.Lockfile())
		if err != nil {
			return nil, cherr.Wrap(ErrConfig, err)
		}
		e.lock = lock
	}
	return e, nil
}

// Close releases the cache lock.
func (e *Executor) Close() error {
	if e.lock == nil {
		return nil
	}
	return e.lock.Release()
}

// Build ensures the base rootfs exists, marks every forced recipe
// invalidated, then processes each forced recipe's dependency subgraph in
// post-order. A failure within one forced recipe's subgraph aborts that
// recipe only; other forced recipes are still attempted (spec §4.5/§7).
// Build returns a non-nil error if any forced recipe failed.
func (e *Executor) Build(ctx context.Context, forced []recipe.ID) error {
	if err := e.ensureRootfs(); err != nil {
		return cherr.Wrap(ErrConfig, err)
	}

	for _, id := range forced {
		r, err := e.rc.Config.MustLookup(id)
		if err != nil {
			return cherr.Wrap(ErrConfig, err)
		}
		r.Status.Invalidated = true
	}

	var failures []error
	for _, id := range forced {
		order, err := graph.PostOrder(e.rc.Config, []recipe.ID{id})
		if err != nil {
			return cherr.Wrap(ErrConfig, err)
		}

		if err := e.runOrder(ctx, order); err != nil {
			slog.Error("recipe failed", "recipe", id.String(), "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", id, err))
		}
	}

	return errors.Join(failures...)
}

func (e *Executor) ensureRootfs() error {
	installer := func(rootfsDir string, pkgs []string) error {
		return e.installPackages(rootfsDir, pkgs)
	}
	return layerset.BootstrapRootfs(e.rc.Root, e.rc.RootfsImageRef, e.rc.RootfsPackageManifest, installer)
}

// runOrder processes recipes in post-order, skipping any already built or
// failed, stopping at the first failure (the "current forced recipe" is
// aborted; the caller moves on to the next forced id).
func (e *Executor) runOrder(ctx context.Context, order []*recipe.Recipe) error {
	for _, r := range order {
		if e.shouldSkip(r) {
			continue
		}

		slog.Info("building recipe", "recipe", r.ID.String())

		if err := e.processRecipe(ctx, r); err != nil {
			r.Status.Failed = true
			e.cleanupRecipeDir(r)
			return cherr.Wrapf(ErrBuild, "%s: %w", r.ID, err)
		}

		r.Status.Built = true
	}
	return nil
}

// shouldSkip implements the skip rule of spec §4.5: already built/failed
// this run, or an on-disk directory exists and the recipe was not
// invalidated.
func (e *Executor) shouldSkip(r *recipe.Recipe) bool {
	if r.Status.Built || r.Status.Failed {
		return true
	}
	if r.Status.Invalidated {
		return false
	}
	_, err := os.Stat(e.rc.Root.RecipeDir(string(r.ID.Namespace), r.ID.Name))
	return err == nil
}

func (e *Executor) cleanupRecipeDir(r *recipe.Recipe) {
	dir := e.rc.Root.RecipeDir(string(r.ID.Namespace), r.ID.Name)
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("failed to clean up recipe directory after failure", "recipe", r.ID.String(), "dir", dir, "error", err)
	}
}
