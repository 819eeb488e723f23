package executor

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/elysium-os/chariot/internal/container"
	"github.com/elysium-os/chariot/internal/graph"
	"github.com/elysium-os/chariot/internal/interpolate"
	"github.com/elysium-os/chariot/internal/layerset"
	"github.com/elysium-os/chariot/internal/recipe"
)

const (
	mountSources = "/chariot/sources"
	mountHost    = "/usr/local"
	mountSysroot = "/chariot/sysroot"
	mountSource  = "/chariot/source"
	mountBuild   = "/chariot/build"
	mountCache   = "/chariot/cache"
	mountInstall = "/chariot/install"
	mountPatches = "/chariot/patches"
)

// processRecipe runs the full per-recipe pipeline of spec §4.5 steps a-e;
// the caller (runOrder) is responsible for step f (status + cleanup).
func (e *Executor) processRecipe(ctx context.Context, r *recipe.Recipe) error {
	if err := e.cleanDepsScratch(); err != nil {
		return err
	}
	if err := e.stageDependencies(r); err != nil {
		return err
	}

	pkgs := e.imageSet(r)
	rootfs, err := layerset.Ensure(e.rc.Root, pkgs, func(dir, pkg string) error {
		return e.installPackages(dir, []string{pkg})
	})
	if err != nil {
		return err
	}

	mounts := e.baseMounts(r)

	switch r.ID.Namespace {
	case recipe.Source:
		return e.runSource(ctx, r, rootfs, mounts)
	case recipe.Host, recipe.Target:
		return e.runHostTarget(ctx, r, rootfs, mounts)
	default:
		return fmt.Errorf("unknown namespace %q", r.ID.Namespace)
	}
}

// baseMounts composes the fixed mount table of spec §4.5.d.
func (e *Executor) baseMounts(r *recipe.Recipe) []container.Mount {
	root := e.rc.Root
	ns := string(r.ID.Namespace)

	mounts := []container.Mount{
		{Destination: mountSources, Source: root.DepsScratch("source")},
		{Destination: mountHost, Source: root.DepsScratch("host")},
		{Destination: mountSysroot, Source: root.DepsScratch("target")},
		{Destination: mountBuild, Source: root.BuildDir(ns, r.ID.Name)},
		{Destination: mountCache, Source: root.CacheDir(ns, r.ID.Name)},
		{Destination: mountInstall, Source: root.InstallDir(ns, r.ID.Name)},
	}

	if src := graph.SourceOf(e.rc.Config, r); src != nil {
		mounts = append(mounts, container.Mount{Destination: mountSource, Source: root.SourceDir(src.ID.Name)})
	}

	return mounts
}

// reservedVars builds the stage-specific reserved variable table of spec
// §4.5's table (configure/build/install/strap).
func (e *Executor) reservedVars(r *recipe.Recipe, stage string) interpolate.Variables {
	vars := interpolate.Variables{}

	switch stage {
	case "configure", "build", "install":
		vars["prefix"] = r.Prefix()
		vars["sysroot_dir"] = mountSysroot
		vars["sources_dir"] = mountSources
		vars["cache_dir"] = mountCache
		vars["build_dir"] = mountBuild
		if stage == "build" {
			vars["thread_count"] = strconv.Itoa(e.rc.ThreadCount)
		}
		if stage == "install" {
			vars["install_dir"] = mountInstall
		}
		if graph.SourceOf(e.rc.Config, r) != nil {
			vars["source_dir"] = mountSource
		}
	case "strap":
		vars["sources_dir"] = mountSources
	}

	return vars
}

func (e *Executor) runShell(ctx context.Context, rootfs, workdir, script string, mounts []container.Mount, vars interpolate.Variables) error {
	if script == "" {
		return nil
	}

	expanded, err := interpolate.Expand(script, vars, e.rc.UserVars)
	if err != nil {
		return fmt.Errorf("interpolate: %w", err)
	}

	result, err := container.Run(ctx, container.Spec{
		Rootfs:  rootfs,
		Mounts:  mounts,
		Shell:   expanded,
		Workdir: workdir,
		Env:     optionEnv(e.rc.UserVars),
	}, e.rc.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("command exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// optionEnv exposes user options as OPTION_<name>=<value> (spec §6).
func optionEnv(user interpolate.Variables) []string {
	env := make([]string, 0, len(user))
	for k, v := range user {
		env = append(env, "OPTION_"+k+"="+v)
	}
	return env
}

// installPackages installs pkgs into rootfsDir via the distribution
// package manager, run inside a throwaway container rooted at rootfsDir
// itself (spec §4.4: "install package P into rootfs R").
func (e *Executor) installPackages(rootfsDir string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"pacman", "--noconfirm", "-S"}, pkgs...)
	result, err := container.Run(context.Background(), container.Spec{
		Rootfs: rootfsDir,
		Argv:   args,
	}, e.rc.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("package install exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// runSource implements the source-recipe dispatch of spec §4.5.e.
func (e *Executor) runSource(ctx context.Context, r *recipe.Recipe, rootfs string, mounts []container.Mount) error {
	dir := e.rc.Root.RecipeDir("source", r.ID.Name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clean %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	payload := r.Source
	switch payload.Type {
	case recipe.TarGz, recipe.TarXz:
		if err := e.fetchTarball(ctx, r, rootfs, mounts); err != nil {
			return err
		}
	case recipe.Git:
		if err := e.fetchGit(ctx, r, rootfs, mounts); err != nil {
			return err
		}
	case recipe.Local:
		if err := copyTree(payload.URL, e.rc.Root.SourceDir(r.ID.Name), e.rc.HideConflicts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source type %q", payload.Type)
	}

	srcMounts := append(append([]container.Mount{}, mounts...),
		container.Mount{Destination: mountSource, Source: e.rc.Root.SourceDir(r.ID.Name)},
	)

	if payload.Patch != "" {
		if err := e.applyPatch(ctx, r, rootfs, srcMounts); err != nil {
			return err
		}
	}

	if payload.Strap != "" {
		vars := e.reservedVars(r, "strap")
		if err := e.runShell(ctx, rootfs, mountSource, payload.Strap, srcMounts, vars); err != nil {
			return err
		}
	}

	return nil
}

func (e *Executor) fetchTarball(ctx context.Context, r *recipe.Recipe, rootfs string, mounts []container.Mount) error {
	payload := r.Source
	root := e.rc.Root

	line := fmt.Sprintf("%s  %s/archive", payload.B2Sum, mountSource)
	if err := os.WriteFile(root.SourceB2Sums(r.ID.Name), []byte(line+"\n"), 0o644); err != nil {
		return err
	}

	fetchMounts := append(append([]container.Mount{}, mounts...),
		container.Mount{Destination: mountSource, Source: root.RecipeDir("source", r.ID.Name)},
	)

	script := fmt.Sprintf(
		"set -e\nwget -O %[1]s/archive %[2]q\nb2sum --check %[1]s/b2sums.txt\nmkdir -p %[1]s/src\ntar -xf %[1]s/archive -C %[1]s/src --strip-components 1\n",
		mountSource, payload.URL,
	)

	result, err := container.Run(ctx, container.Spec{Rootfs: rootfs, Mounts: fetchMounts, Shell: script, Workdir: mountSource}, e.rc.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("fetch exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

func (e *Executor) fetchGit(ctx context.Context, r *recipe.Recipe, rootfs string, mounts []container.Mount) error {
	payload := r.Source
	root := e.rc.Root

	fetchMounts := append(append([]container.Mount{}, mounts...),
		container.Mount{Destination: mountSource, Source: root.RecipeDir("source", r.ID.Name)},
	)

	// The commit is always checked out by explicit hash after fetch, to
	// support both branch and commit identifiers (spec §4.5.e).
	script := fmt.Sprintf(
		"set -e\ngit clone --depth=1 %[1]q %[2]s/src\ncd %[2]s/src\ngit fetch --depth=1 origin %[3]q\ngit checkout %[3]q\n",
		payload.URL, mountSource, payload.Commit,
	)

	result, err := container.Run(ctx, container.Spec{Rootfs: rootfs, Mounts: fetchMounts, Shell: script, Workdir: mountSource}, e.rc.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("fetch exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// applyPatch assumes mounts already includes the /chariot/source mount.
func (e *Executor) applyPatch(ctx context.Context, r *recipe.Recipe, rootfs string, mounts []container.Mount) error {
	root := e.rc.Root
	patchMounts := append(append([]container.Mount{}, mounts...),
		container.Mount{Destination: mountPatches, Source: root.Patches(), ReadOnly: true},
	)

	script := fmt.Sprintf("patch -p1 -i %s/%s", mountPatches, r.Source.Patch)
	result, err := container.Run(ctx, container.Spec{Rootfs: rootfs, Mounts: patchMounts, Shell: script, Workdir: mountSource}, e.rc.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("patch exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// runHostTarget implements the host/target-recipe dispatch of spec §4.5.e:
// clean build/install (and cache if --clean-cache), then run configure,
// build, install in order.
func (e *Executor) runHostTarget(ctx context.Context, r *recipe.Recipe, rootfs string, mounts []container.Mount) error {
	root := e.rc.Root
	ns := string(r.ID.Namespace)

	for _, dir := range []string{root.BuildDir(ns, r.ID.Name), root.InstallDir(ns, r.ID.Name)} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	cacheDir := root.CacheDir(ns, r.ID.Name)
	if e.rc.CleanCache {
		if err := os.RemoveAll(cacheDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}

	payload := r.HostTarget
	stages := []struct {
		name   string
		script string
	}{
		{"configure", payload.Configure},
		{"build", payload.Build},
		{"install", payload.Install},
	}

	for _, stage := range stages {
		vars := e.reservedVars(r, stage.name)
		if err := e.runShell(ctx, rootfs, mountBuild, stage.script, mounts, vars); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}

	return nil
}
