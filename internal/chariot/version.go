package chariot

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	defaultUndefined   = "(undefined)"
	defaultLocalBuild  = "(local)"
	mainBranch         = "main"
)

// Name is the binary name, used as the program name of the command line.
const Name = "chariot"

var (
	version   = "" // set via -ldflags
	stage     = "" // set via -ldflags
	gitCommit = "" // set via -ldflags

	rawQuiet   = "false"
	rawDebug   = "false"
	rawVerbose = "false"
)

func init() {
	applyLDFlagBool(rawQuiet, SetQuiet)
	applyLDFlagBool(rawDebug, SetDebug)
	applyLDFlagBool(rawVerbose, SetVerbose)
}

func applyLDFlagBool(raw string, set func(bool)) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		set(true)
	case "false", "0", "":
		set(false)
	}
}

// Version returns the current version, stripped of any "v"/"V" prefix.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return defaultUndefined
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Stage returns the development stage (git branch used for the build).
func Stage() string {
	s := strings.TrimSpace(stage)
	if s == "" {
		return defaultUndefined
	}
	return strings.ToLower(s)
}

// GitCommit returns the git commit hash the binary was built from.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return defaultUndefined
	}
	return c
}

// Arch returns the build architecture.
func Arch() string { return runtime.GOARCH }

// IsLocal reports whether this is a local (non-pipeline) build.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
}

// VersionString returns a detailed version string, or "(local)" for a local build.
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}

	s := Stage()
	if s == mainBranch {
		s = ""
	} else {
		s = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), s, GitCommit(), Arch())
}
