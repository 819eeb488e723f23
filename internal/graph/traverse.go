package graph

import (
	"fmt"

	"github.com/elysium-os/chariot/internal/recipe"
)

type color int

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully visited
)

// PostOrder returns the recipes reachable from forced in post-order:
// for each recipe, its host/target source first, then its dependencies in
// declaration order, then the recipe itself (spec §4.2). A recipe is only
// emitted once even if reachable along multiple paths.
//
// Unlike the reference implementation, which recurses without a visiting
// set and would spin forever on a cycle, this walk colors recipes
// visiting/visited and returns an error naming the recycled edge the
// moment a gray node is re-entered (spec §9).
func PostOrder(cfg *recipe.Config, forced []recipe.ID) ([]*recipe.Recipe, error) {
	colors := make(map[recipe.ID]color, len(cfg.Recipes))
	var order []*recipe.Recipe

	var visit func(r *recipe.Recipe) error
	visit = func(r *recipe.Recipe) error {
		switch colors[r.ID] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("dependency cycle at %s", r.ID)
		}
		colors[r.ID] = gray

		if src := SourceOf(cfg, r); src != nil {
			if err := visit(src); err != nil {
				return err
			}
		}

		for _, dep := range r.Dependencies {
			if err := visit(dep.Target); err != nil {
				return err
			}
		}

		colors[r.ID] = black
		order = append(order, r)
		return nil
	}

	for _, id := range forced {
		r, err := cfg.MustLookup(id)
		if err != nil {
			return nil, err
		}
		if err := visit(r); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// RuntimeClosure returns start plus every recipe transitively reachable
// from it by following only runtime ("*") edges (spec §4.5.b): the runtime
// closure of a build-time dependency. start itself is always included
// regardless of how it was reached, since the caller already decided to
// enter its subtree; only edges leaving start (and beyond) are filtered.
func RuntimeClosure(start *recipe.Recipe) []*recipe.Recipe {
	seen := map[recipe.ID]bool{}
	var order []*recipe.Recipe

	var walk func(r *recipe.Recipe)
	walk = func(r *recipe.Recipe) {
		if seen[r.ID] {
			return
		}
		seen[r.ID] = true
		order = append(order, r)

		for _, dep := range r.Dependencies {
			if dep.Runtime {
				walk(dep.Target)
			}
		}
	}

	walk(start)
	return order
}
