package cli

import (
	"context"
	"fmt"

	"github.com/elysium-os/chariot/internal/container"
	"github.com/elysium-os/chariot/internal/layerset"
	"github.com/elysium-os/chariot/internal/paths"
)

// ExecCmd runs a shell command in the base rootfs layer and exits (spec
// §6: "--exec <cmd> runs a shell command in the base rootfs layer").
type ExecCmd struct {
	Command string `arg:"" help:"Shell command to run in the base rootfs."`
}

// Run ensures the base rootfs exists, then executes Command inside it.
func (c *ExecCmd) Run(ctx context.Context) error {
	root := paths.NewRoot(RootCmd.Cache)

	installer := func(dir string, pkgs []string) error {
		_, err := container.Run(ctx, container.Spec{
			Rootfs: dir,
			Argv:   append([]string{"pacman", "--noconfirm", "-S"}, pkgs...),
		}, RootCmd.Quiet)
		return err
	}
	if err := layerset.BootstrapRootfs(root, RootCmd.RootfsImage, rootfsPackageManifest, installer); err != nil {
		return err
	}

	result, err := container.Run(ctx, container.Spec{
		Rootfs: root.RootfsLayer(),
		Shell:  c.Command,
	}, RootCmd.Quiet)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("command exited %d", result.ExitCode)
	}
	return nil
}
