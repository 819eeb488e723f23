package recipe

import "fmt"

// Config is a flat sequence of recipes plus the lookup table used to
// resolve (namespace, name) references into pointers (spec §3).
type Config struct {
	Recipes []*Recipe
	byID    map[ID]*Recipe
}

// NewConfig builds a Config from a flat recipe list, indexing it for lookup.
// Returns an error if two recipes share the same (namespace, name) — name
// uniqueness within a namespace is a spec §3 invariant.
func NewConfig(recipes []*Recipe) (*Config, error) {
	c := &Config{
		Recipes: recipes,
		byID:    make(map[ID]*Recipe, len(recipes)),
	}
	for _, r := range recipes {
		if _, exists := c.byID[r.ID]; exists {
			return nil, fmt.Errorf("duplicate recipe %s", r.ID)
		}
		c.byID[r.ID] = r
	}
	return c, nil
}

// Lookup returns the recipe with the given id, or nil if none exists.
func (c *Config) Lookup(id ID) *Recipe { return c.byID[id] }

// MustLookup is like Lookup but returns an error naming the unresolved
// recipe instead of nil (used for fatal configuration errors, spec §4.2).
func (c *Config) MustLookup(id ID) (*Recipe, error) {
	r := c.byID[id]
	if r == nil {
		return nil, fmt.Errorf("unresolved recipe reference %s", id)
	}
	return r, nil
}
