// Package graph resolves recipe dependency edges into pointers and drives
// the post-order dependency traversal used by the stage executor (spec
// §4.2), including the cycle detection the reference implementation lacks
// (spec §9 design note).
package graph

import "github.com/elysium-os/chariot/internal/recipe"

// Resolve patches every dependency edge's Target pointer by looking it up
// in cfg, and checks that every host/target recipe's Source reference
// names an existing recipe (SourceOf looks it up again when needed).
// Returns an error naming the first unresolved reference (spec §4.2).
func Resolve(cfg *recipe.Config) error {
	for _, r := range cfg.Recipes {
		for i := range r.Dependencies {
			dep := &r.Dependencies[i]
			target, err := cfg.MustLookup(dep.ID)
			if err != nil {
				return err
			}
			dep.Target = target
		}

		if r.HostTarget != nil && r.HostTarget.Source != nil {
			if _, err := cfg.MustLookup(*r.HostTarget.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

// SourceOf returns the resolved `source` recipe a host/target recipe
// refers to, or nil if it doesn't reference one. Resolve must have run
// first.
func SourceOf(cfg *recipe.Config, r *recipe.Recipe) *recipe.Recipe {
	if r.HostTarget == nil || r.HostTarget.Source == nil {
		return nil
	}
	return cfg.Lookup(*r.HostTarget.Source)
}
