// Package container is chariot's container harness (spec §2 item 2): given
// a rootfs path and a working directory, it configures a list of bind
// mounts and executes either an argv vector or a shell command inside it,
// surfacing an exit code and optionally captured stdout/stderr.
//
// It is built around an OCI runtime-spec bundle (github.com/opencontainers/
// runtime-spec) executed with runc, rather than a full containerd client:
// containerd requires a long-running daemon and gRPC socket, which does
// not fit chariot's single synchronous process (spec §5). See DESIGN.md.
package container

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	digest "github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Mount is a single bind mount composed into the container (spec §4.5.d's
// fixed mount table).
type Mount struct {
	Destination string // path inside the container
	Source      string // path on the host
	ReadOnly    bool
}

// Spec is the full description of one container invocation.
type Spec struct {
	Rootfs  string
	Mounts  []Mount
	Argv    []string // mutually exclusive with Shell
	Shell   string   // shell command, run via /bin/sh -c
	Workdir string
	Env     []string
}

// bundleID derives a short, stable identifier for the bundle directory and
// container ID from the spec's content, so repeated identical invocations
// are traceable to the same name (content-addressed in the same spirit as
// the image-set layer cache, spec §4.4).
func bundleID(s Spec) string {
	blob, _ := json.Marshal(s)
	return digest.FromBytes(blob).Encoded()[:16]
}

// writeBundle materializes an OCI runtime bundle (config.json + rootfs
// reference) for s under os.TempDir()/chariot-<id>, where id is derived
// from s by bundleID, and returns its path and container ID.
func writeBundle(s Spec) (bundleDir, id string, err error) {
	id = bundleID(s)
	bundleDir = filepath.Join(os.TempDir(), "chariot-"+id)

	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create bundle dir: %w", err)
	}

	spec := toRuntimeSpec(s)
	blob, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		os.RemoveAll(bundleDir)
		return "", "", fmt.Errorf("marshal OCI config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(bundleDir, "config.json"), blob, 0o644); err != nil {
		os.RemoveAll(bundleDir)
		return "", "", fmt.Errorf("write OCI config: %w", err)
	}

	return bundleDir, id, nil
}

func toRuntimeSpec(s Spec) *specs.Spec {
	args := s.Argv
	if len(args) == 0 {
		args = []string{"/bin/sh", "-c", s.Shell}
	}

	cwd := s.Workdir
	if cwd == "" {
		cwd = "/"
	}

	mounts := make([]specs.Mount, 0, len(s.Mounts))
	for _, m := range s.Mounts {
		options := []string{"bind", "rw"}
		if m.ReadOnly {
			options = []string{"bind", "ro"}
		}
		mounts = append(mounts, specs.Mount{
			Destination: m.Destination,
			Source:      m.Source,
			Type:        "bind",
			Options:     options,
		})
	}

	return &specs.Spec{
		Version: specs.Version,
		Root: &specs.Root{
			Path: s.Rootfs,
		},
		Process: &specs.Process{
			Terminal: false,
			Args:     args,
			Cwd:      cwd,
			Env:      s.Env,
		},
		Mounts: mounts,
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.PIDNamespace},
				{Type: specs.MountNamespace},
				{Type: specs.UTSNamespace},
				{Type: specs.IPCNamespace},
				{Type: specs.NetworkNamespace},
			},
		},
	}
}
