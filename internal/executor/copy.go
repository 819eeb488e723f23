package executor

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/elysium-os/chariot/internal/graph"
	"github.com/elysium-os/chariot/internal/recipe"
)

// cleanDepsScratch implements spec §4.5.a: wipe and recreate the three
// scratch staging directories before every recipe pipeline.
func (e *Executor) cleanDepsScratch() error {
	for _, ns := range []string{"source", "host", "target"} {
		dir := e.rc.Root.DepsScratch(ns)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clean %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// stageDependencies implements spec §4.5.b: for every direct dependency,
// copy the runtime closure of its published artifacts into the scratch
// directories, deduplicated via an idempotent "installed" set. Each direct
// dependency's closure is walked in its own goroutine, but every check of
// the installed set and every copy is made under the shared mutex below,
// so overlapping paths are conflict-checked and written one at a time.
func (e *Executor) stageDependencies(r *recipe.Recipe) error {
	var mu sync.Mutex
	installed := map[recipe.ID]bool{}

	g := errgroup.Group{}
	for _, dep := range r.Dependencies {
		dep := dep
		g.Go(func() error {
			closure := graph.RuntimeClosure(dep.Target)
			for _, d := range closure {
				mu.Lock()
				already := installed[d.ID]
				installed[d.ID] = true
				if already {
					mu.Unlock()
					continue
				}
				err := e.copyArtifact(d)
				mu.Unlock()
				if err != nil {
					return fmt.Errorf("staging %s for %s: %w", d.ID, r.ID, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// copyArtifact copies a single dependency's published artifact into the
// appropriate scratch directory (spec §4.5.b).
func (e *Executor) copyArtifact(d *recipe.Recipe) error {
	root := e.rc.Root
	switch d.ID.Namespace {
	case recipe.Source:
		dst := filepath.Join(root.DepsScratch("source"), d.ID.Name)
		return copyTree(root.SourceDir(d.ID.Name), dst, e.rc.HideConflicts)
	case recipe.Host:
		src := filepath.Join(root.InstallDir("host", d.ID.Name), "usr", "local")
		return copyTree(src, root.DepsScratch("host"), e.rc.HideConflicts)
	case recipe.Target:
		src := root.InstallDir("target", d.ID.Name)
		return copyTree(src, root.DepsScratch("target"), e.rc.HideConflicts)
	default:
		return fmt.Errorf("unknown namespace %q", d.ID.Namespace)
	}
}

// copyTree overlay-copies src onto dst, creating dst if needed. A path
// that already exists under dst is overwritten; this is logged as a
// warning (conflict) unless hideConflicts is set, and copying proceeds
// regardless (spec §4.5.b, §7: "warning only, suppressible").
func copyTree(src, dst string, hideConflicts bool) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if !hideConflicts {
			if _, err := os.Stat(target); err == nil {
				slog.Warn("dependency artifact overlaps an existing path", "path", target)
			}
		}

		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return nil
}

// imageSet implements spec §4.5.c: accumulate image dependencies with the
// same runtime-closure filter, deduplicated and sorted.
func (e *Executor) imageSet(r *recipe.Recipe) []string {
	set := map[string]bool{}
	for _, img := range r.Images {
		set[img.Package] = true
	}
	for _, dep := range r.Dependencies {
		for _, d := range graph.RuntimeClosure(dep.Target) {
			for _, img := range d.Images {
				set[img.Package] = true
			}
		}
	}

	pkgs := make([]string, 0, len(set))
	for pkg := range set {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}
