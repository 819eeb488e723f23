package layerset

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/go-containerregistry/pkg/crane"
	v1 "github.com/google/go-containerregistry/pkg/v1"

	"github.com/elysium-os/chariot/internal/cherr"
	"github.com/elysium-os/chariot/internal/paths"
)

// ErrBootstrap is wrapped around any failure while bootstrapping the base
// rootfs layer.
var ErrBootstrap = fmt.Errorf("rootfs bootstrap failed")

// BootstrapRootfs is the one-time side effect of spec §4.4: rather than
// downloading a raw distribution tarball, it pulls the pinned distribution
// base image (the "rootfs version tag", an opaque external manifest) from
// an OCI registry and flattens its layers into <cache>/sets/rootfs/, then
// runs install against the fixed bootstrap package manifest. A no-op if
// the base layer already exists.
func BootstrapRootfs(root paths.Root, ref string, manifest []string, install func(rootfsDir string, pkgs []string) error) error {
	dest := root.RootfsLayer()
	if _, err := os.Stat(dest); err == nil {
		return nil // already bootstrapped
	}

	img, err := crane.Pull(ref)
	if err != nil {
		return cherr.Wrap(ErrBootstrap, fmt.Errorf("pull %s: %w", ref, err))
	}

	if err := paths.EnsureDir(dest); err != nil {
		return cherr.Wrap(ErrBootstrap, err)
	}

	if err := extractImage(img, dest); err != nil {
		os.RemoveAll(dest)
		return cherr.Wrap(ErrBootstrap, err)
	}

	if err := install(dest, manifest); err != nil {
		os.RemoveAll(dest)
		return cherr.Wrap(ErrBootstrap, err)
	}

	return nil
}

// extractImage flattens img's layers (in order) onto disk at dest via
// crane's single merged tar export.
func extractImage(img v1.Image, dest string) error {
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(crane.Export(img, pw))
	}()

	tr := tar.NewReader(pr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read image layer stream: %w", err)
		}

		target := filepath.Join(dest, hdr.Name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)&0o777); err != nil {
				return err
			}
		case tar.TypeSymlink:
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeLink:
			os.Remove(target)
			if err := os.Link(filepath.Join(dest, hdr.Linkname), target); err != nil {
				return err
			}
		default:
			if err := paths.EnsureDir(filepath.Dir(target)); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}
