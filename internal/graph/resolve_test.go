package graph

import (
	"testing"

	"github.com/elysium-os/chariot/internal/recipe"
)

func buildCfg(t *testing.T, recipes ...*recipe.Recipe) *recipe.Config {
	t.Helper()
	cfg, err := recipe.NewConfig(recipes)
	if err != nil {
		t.Fatalf("recipe.NewConfig() error = %v", err)
	}
	return cfg
}

func TestResolvePatchesDependencyTargets(t *testing.T) {
	zlib := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Source, Name: "zlib"}}
	make_ := &recipe.Recipe{
		ID: recipe.ID{Namespace: recipe.Host, Name: "make"},
		HostTarget: &recipe.HostTargetPayload{
			Source: &recipe.ID{Namespace: recipe.Source, Name: "zlib"},
		},
		Dependencies: []recipe.Dependency{{ID: recipe.ID{Namespace: recipe.Source, Name: "zlib"}}},
	}

	cfg := buildCfg(t, zlib, make_)
	if err := Resolve(cfg); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if make_.Dependencies[0].Target != zlib {
		t.Fatalf("Dependencies[0].Target = %v, want %v", make_.Dependencies[0].Target, zlib)
	}
	if got := SourceOf(cfg, make_); got != zlib {
		t.Fatalf("SourceOf() = %v, want %v", got, zlib)
	}
}

func TestResolveUnknownReference(t *testing.T) {
	make_ := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Host, Name: "make"},
		Dependencies: []recipe.Dependency{{ID: recipe.ID{Namespace: recipe.Source, Name: "missing"}}},
	}
	cfg := buildCfg(t, make_)
	if err := Resolve(cfg); err == nil {
		t.Fatal("Resolve() error = nil, want unresolved reference error")
	}
}

func TestSourceOfNilWhenUnreferenced(t *testing.T) {
	make_ := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Host, Name: "make"}, HostTarget: &recipe.HostTargetPayload{}}
	cfg := buildCfg(t, make_)
	if got := SourceOf(cfg, make_); got != nil {
		t.Fatalf("SourceOf() = %v, want nil", got)
	}
}
