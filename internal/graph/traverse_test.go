package graph

import (
	"testing"

	"github.com/elysium-os/chariot/internal/recipe"
)

func TestPostOrderDependencyFirst(t *testing.T) {
	zlib := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Source, Name: "zlib"}}
	libpng := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Target, Name: "libpng"},
		Dependencies: []recipe.Dependency{{ID: zlib.ID}},
	}
	app := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Target, Name: "app"},
		Dependencies: []recipe.Dependency{{ID: libpng.ID}},
	}

	cfg := buildCfg(t, zlib, libpng, app)
	if err := Resolve(cfg); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	order, err := PostOrder(cfg, []recipe.ID{app.ID})
	if err != nil {
		t.Fatalf("PostOrder() error = %v", err)
	}

	want := []recipe.ID{zlib.ID, libpng.ID, app.ID}
	if len(order) != len(want) {
		t.Fatalf("len(order) = %d, want %d", len(order), len(want))
	}
	for i, r := range order {
		if r.ID != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, r.ID, want[i])
		}
	}
}

func TestPostOrderDedupesDiamond(t *testing.T) {
	zlib := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Source, Name: "zlib"}}
	a := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "a"}, Dependencies: []recipe.Dependency{{ID: zlib.ID}}}
	b := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "b"}, Dependencies: []recipe.Dependency{{ID: zlib.ID}}}
	top := &recipe.Recipe{
		ID:           recipe.ID{Namespace: recipe.Target, Name: "top"},
		Dependencies: []recipe.Dependency{{ID: a.ID}, {ID: b.ID}},
	}

	cfg := buildCfg(t, zlib, a, b, top)
	if err := Resolve(cfg); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	order, err := PostOrder(cfg, []recipe.ID{top.ID})
	if err != nil {
		t.Fatalf("PostOrder() error = %v", err)
	}

	count := 0
	for _, r := range order {
		if r.ID == zlib.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("zlib appears %d times in order, want 1", count)
	}
	if order[len(order)-1].ID != top.ID {
		t.Fatalf("last element = %s, want %s", order[len(order)-1].ID, top.ID)
	}
}

func TestPostOrderDetectsCycle(t *testing.T) {
	a := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "a"}}
	b := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "b"}}
	a.Dependencies = []recipe.Dependency{{ID: b.ID}}
	b.Dependencies = []recipe.Dependency{{ID: a.ID}}

	cfg := buildCfg(t, a, b)
	if err := Resolve(cfg); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if _, err := PostOrder(cfg, []recipe.ID{a.ID}); err == nil {
		t.Fatal("PostOrder() error = nil, want dependency cycle error")
	}
}

func TestRuntimeClosureFollowsOnlyRuntimeEdges(t *testing.T) {
	libc := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "libc"}}
	zlib := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Target, Name: "zlib"}, Dependencies: []recipe.Dependency{{ID: libc.ID, Runtime: true}}}
	gcc := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Host, Name: "gcc"}, Dependencies: []recipe.Dependency{{ID: zlib.ID, Runtime: false}}}

	cfg := buildCfg(t, libc, zlib, gcc)
	if err := Resolve(cfg); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	closure := RuntimeClosure(gcc)
	if len(closure) != 1 || closure[0].ID != gcc.ID {
		t.Fatalf("RuntimeClosure(gcc) = %v, want only [gcc] (its dependency edge is build-time only)", idsOf(closure))
	}

	closure = RuntimeClosure(zlib)
	want := []recipe.ID{zlib.ID, libc.ID}
	if len(closure) != len(want) {
		t.Fatalf("RuntimeClosure(zlib) = %v, want %v", idsOf(closure), want)
	}
	for i, r := range closure {
		if r.ID != want[i] {
			t.Errorf("closure[%d] = %s, want %s", i, r.ID, want[i])
		}
	}
}

func idsOf(recipes []*recipe.Recipe) []recipe.ID {
	ids := make([]recipe.ID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	return ids
}
