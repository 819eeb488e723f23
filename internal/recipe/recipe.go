// Package recipe defines chariot's core data model (spec §3): recipes,
// their dependency edges, image dependencies, per-run status, and the
// resolved Config that holds them all.
package recipe

import "fmt"

// Namespace is one of the three recipe flavours.
type Namespace string

const (
	Source Namespace = "source"
	Host   Namespace = "host"
	Target Namespace = "target"
)

// Valid reports whether n is one of the three defined namespaces.
func (n Namespace) Valid() bool {
	switch n {
	case Source, Host, Target:
		return true
	}
	return false
}

// SourceType is the fetch mechanism of a source recipe.
type SourceType string

const (
	TarGz SourceType = "tar.gz"
	TarXz SourceType = "tar.xz"
	Git   SourceType = "git"
	Local SourceType = "local"
)

// ID identifies a recipe by (namespace, name), the only thing that needs to
// uniquely identify it within a Config (spec §3 invariant).
type ID struct {
	Namespace Namespace
	Name      string
}

func (id ID) String() string { return fmt.Sprintf("%s/%s", id.Namespace, id.Name) }

// Dependency is a recipe dependency edge: a reference plus a runtime flag.
// Target is filled in by the resolver (internal/graph); it is nil until then.
type Dependency struct {
	ID      ID
	Runtime bool // true when the edge was written with the "*" modifier
	Target  *Recipe
}

// ImageDependency is a distribution-package name installed into the
// container rootfs, never resolved against the recipe graph.
type ImageDependency struct {
	Package string
	Runtime bool
}

// SourcePayload is the namespace-specific payload of a `source` recipe.
type SourcePayload struct {
	Type   SourceType
	URL    string
	Patch  string // optional patchfile name, relative to <cache>/patches/
	B2Sum  string // required iff Type is a tarball
	Commit string // required iff Type == Git
	Strap  string // optional shell script body
}

// HostTargetPayload is the namespace-specific payload of a `host` or
// `target` recipe.
type HostTargetPayload struct {
	Source    *ID // optional reference to a `source` recipe, resolved by internal/graph
	Configure string
	Build     string
	Install   string
}

// Status is the only mutable state attached to a recipe; everything else
// about a chariot run flows through an explicit run context (spec §9).
type Status struct {
	Invalidated bool
	Built       bool
	Failed      bool
}

// Recipe is a declarative unit describing how to produce one artifact.
// Exactly one of Source/HostTarget is set, discriminated by Namespace.
type Recipe struct {
	ID ID

	Dependencies []Dependency
	Images       []ImageDependency

	Source     *SourcePayload
	HostTarget *HostTargetPayload

	Status Status
}

// Prefix returns the installation prefix for a host or target recipe
// (spec §4.5.e): "/usr/local" for host, "/usr" for target.
func (r *Recipe) Prefix() string {
	switch r.ID.Namespace {
	case Host:
		return "/usr/local"
	case Target:
		return "/usr"
	default:
		return ""
	}
}
