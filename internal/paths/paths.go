// Package paths centralizes the on-disk cache layout described in spec §3:
//
//	<cache>/source/<name>/{b2sums.txt, archive, src/}
//	<cache>/host/<name>/{build/, cache/, install/}
//	<cache>/target/<name>/{build/, cache/, install/}
//	<cache>/deps/{source,host,target}/
//	<cache>/sets/rootfs/
//	<cache>/sets/<pkg1>/{rootfs/, <pkg2>/...}
//	<cache>/patches/
package paths

import (
	"os"
	"path/filepath"
)

const (
	// DefaultDirMode is the permission mode used for created directories.
	DefaultDirMode os.FileMode = 0o755

	// DefaultFileMode is the permission mode used for created files.
	DefaultFileMode os.FileMode = 0o644

	// DefaultCacheRoot is the cache root used when --cache is not given.
	DefaultCacheRoot = ".chariot-cache"
)

// Root describes the on-disk cache layout rooted at a single directory.
type Root struct {
	dir string
}

// NewRoot returns a Root rooted at dir.
func NewRoot(dir string) Root { return Root{dir: dir} }

// Dir returns the cache root directory itself.
func (r Root) Dir() string { return r.dir }

// Lockfile returns the path to the cache-wide advisory lockfile (§5).
func (r Root) Lockfile() string { return filepath.Join(r.dir, ".chariot-lock") }

// Patches returns the directory user-supplied patchfiles are read from.
func (r Root) Patches() string { return filepath.Join(r.dir, "patches") }

// Patch returns the path to a single named patchfile.
func (r Root) Patch(name string) string { return filepath.Join(r.Patches(), name) }

// SetsRoot returns the root of the image-set layer tree (§4.4).
func (r Root) SetsRoot() string { return filepath.Join(r.dir, "sets") }

// RootfsLayer returns the base layer's rootfs directory (L0).
func (r Root) RootfsLayer() string { return filepath.Join(r.SetsRoot(), "rootfs") }

// DepsScratch returns one of the three scratch staging directories
// (<cache>/deps/{source,host,target}).
func (r Root) DepsScratch(namespace string) string {
	return filepath.Join(r.dir, "deps", namespace)
}

// RecipeDir returns a recipe's own cache directory.
func (r Root) RecipeDir(namespace, name string) string {
	return filepath.Join(r.dir, namespace, name)
}

// SourceDir returns a source recipe's fetched/extracted tree.
func (r Root) SourceDir(name string) string { return filepath.Join(r.RecipeDir("source", name), "src") }

// SourceArchive returns the path a fetched tarball is downloaded to.
func (r Root) SourceArchive(name string) string {
	return filepath.Join(r.RecipeDir("source", name), "archive")
}

// SourceB2Sums returns the path of the checksum manifest written before fetch.
func (r Root) SourceB2Sums(name string) string {
	return filepath.Join(r.RecipeDir("source", name), "b2sums.txt")
}

// BuildDir returns a host/target recipe's scratch build directory.
func (r Root) BuildDir(namespace, name string) string {
	return filepath.Join(r.RecipeDir(namespace, name), "build")
}

// CacheDir returns a host/target recipe's persistent incremental-build cache.
func (r Root) CacheDir(namespace, name string) string {
	return filepath.Join(r.RecipeDir(namespace, name), "cache")
}

// InstallDir returns a host/target recipe's install destination (DESTDIR).
func (r Root) InstallDir(namespace, name string) string {
	return filepath.Join(r.RecipeDir(namespace, name), "install")
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, DefaultDirMode)
}
