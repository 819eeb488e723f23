package executor

import (
	"testing"

	"github.com/elysium-os/chariot/internal/paths"
	"github.com/elysium-os/chariot/internal/recipe"
)

func TestImageSetDedupsAndSorts(t *testing.T) {
	libc := &recipe.Recipe{
		ID:     recipe.ID{Namespace: recipe.Target, Name: "libc"},
		Images: []recipe.ImageDependency{{Package: "zlib1g"}},
	}
	zlib := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Target, Name: "zlib"},
		Dependencies: []recipe.Dependency{{ID: libc.ID, Runtime: true, Target: libc}},
		Images:       []recipe.ImageDependency{{Package: "perl"}},
	}
	app := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Target, Name: "app"},
		Dependencies: []recipe.Dependency{{ID: zlib.ID, Target: zlib}},
		Images:       []recipe.ImageDependency{{Package: "perl"}, {Package: "gcc"}},
	}

	e := &Executor{rc: &RunContext{Root: paths.NewRoot(t.TempDir())}}
	got := e.imageSet(app)

	want := []string{"gcc", "perl", "zlib1g"}
	if len(got) != len(want) {
		t.Fatalf("imageSet() = %v, want %v", got, want)
	}
	for i, pkg := range want {
		if got[i] != pkg {
			t.Errorf("imageSet()[%d] = %q, want %q", i, got[i], pkg)
		}
	}
}

func TestReservedVarsBuildStage(t *testing.T) {
	e := &Executor{rc: &RunContext{ThreadCount: 4}}
	r := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Host, Name: "make"}, HostTarget: &recipe.HostTargetPayload{}}

	vars := e.reservedVars(r, "build")
	if vars["prefix"] != "/usr/local" {
		t.Errorf("prefix = %q, want /usr/local", vars["prefix"])
	}
	if vars["thread_count"] != "4" {
		t.Errorf("thread_count = %q, want 4", vars["thread_count"])
	}
	if _, ok := vars["source_dir"]; ok {
		t.Errorf("source_dir should be absent when recipe has no source reference")
	}
}

func TestReservedVarsStrapStage(t *testing.T) {
	e := &Executor{rc: &RunContext{}}
	r := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Source, Name: "zlib"}}

	vars := e.reservedVars(r, "strap")
	if _, ok := vars["sources_dir"]; !ok {
		t.Error("sources_dir should be set for the strap stage")
	}
	if _, ok := vars["prefix"]; ok {
		t.Error("prefix should not be set for the strap stage")
	}
}
