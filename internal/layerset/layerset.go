// Package layerset implements the image-set layer cache (spec §4.4): a
// tree of rootfs directories rooted at <cache>/sets/rootfs/, one layer per
// distinct sorted set of image-package dependencies, each hardlink-cloned
// from its parent and then mutated by installing exactly one new package.
package layerset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/elysium-os/chariot/internal/cherr"
	"github.com/elysium-os/chariot/internal/paths"
)

// ErrLayerInstall is wrapped around any failure while materializing a layer.
var ErrLayerInstall = fmt.Errorf("layer install failed")

// Installer installs a single distribution package into an already
// hardlink-cloned rootfs directory (e.g. by running the container harness
// with `pacman --noconfirm -S <pkg>`). It is supplied by the stage
// executor, which owns the container primitive.
type Installer func(rootfsDir, pkg string) error

// Canonicalize sorts pkgs lexicographically, the canonicalization rule
// that makes two recipes with the same effective image-dependency
// multiset resolve to the same leaf layer path (spec §8).
func Canonicalize(pkgs []string) []string {
	out := append([]string(nil), pkgs...)
	sort.Strings(out)
	return out
}

// LayerDir returns the directory of the leaf layer for a canonicalized,
// deduplicated package list, without creating anything.
func LayerDir(root paths.Root, sortedPkgs []string) string {
	dir := root.SetsRoot()
	for _, pkg := range sortedPkgs {
		dir = filepath.Join(dir, pkg)
	}
	return dir
}

// Ensure walks the layer tree from the root, following one directory per
// sorted package name, creating and installing any layer that doesn't yet
// exist. It returns the final layer's rootfs directory, the recipe's
// build-time root filesystem.
//
// A layer-install failure deletes the partially-created layer directory
// before returning, so a re-run sees a clean miss and retries (spec §4.4).
func Ensure(root paths.Root, pkgs []string, install Installer) (string, error) {
	sorted := Canonicalize(pkgs)

	parentRootfs := root.RootfsLayer()
	if _, err := os.Stat(parentRootfs); err != nil {
		return "", fmt.Errorf("base rootfs layer missing at %s, run bootstrap first: %w", parentRootfs, err)
	}

	layerDir := root.SetsRoot()
	for _, pkg := range sorted {
		nextDir := filepath.Join(layerDir, pkg)
		nextRootfs := filepath.Join(nextDir, "rootfs")

		if _, err := os.Stat(nextRootfs); err == nil {
			layerDir = nextDir
			parentRootfs = nextRootfs
			continue
		}

		if err := paths.EnsureDir(nextDir); err != nil {
			return "", cherr.Wrap(ErrLayerInstall, err)
		}

		if err := hardlinkClone(parentRootfs, nextRootfs); err != nil {
			os.RemoveAll(nextDir)
			return "", cherr.Wrap(ErrLayerInstall, err)
		}

		if err := install(nextRootfs, pkg); err != nil {
			os.RemoveAll(nextDir)
			return "", cherr.Wrap(ErrLayerInstall, err)
		}

		layerDir = nextDir
		parentRootfs = nextRootfs
	}

	return parentRootfs, nil
}

// hardlinkClone recreates src's directory tree at dst, hardlinking regular
// files (sharing inodes, since a layer typically differs from its parent
// by only a handful of files) and recreating symlinks and directories.
func hardlinkClone(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return os.Link(path, target)
		}
	})
}
