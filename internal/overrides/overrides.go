// Package overrides loads the .chariot-overrides file (spec §6): a mapping
// of source recipe name to a local path that substitutes for that recipe's
// url at resolution time, treating it as a `local` source for the run.
package overrides

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elysium-os/chariot/internal/recipe"
)

// Overrides maps a source recipe name to the local path that replaces it.
type Overrides map[string]string

// Load reads and parses the overrides file at path. A missing file is not
// an error; it is treated as an empty set of overrides.
func Load(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if o == nil {
		o = Overrides{}
	}
	return o, nil
}

// Apply rewrites matching source recipes in cfg in place: a source recipe
// whose name appears in o is treated as `local` for this run, with its URL
// replaced by the override path. The parsed recipe's on-disk representation
// (the DSL file) is never touched.
func Apply(o Overrides, recipes []*recipe.Recipe) {
	if len(o) == 0 {
		return
	}
	for _, r := range recipes {
		if r.ID.Namespace != recipe.Source || r.Source == nil {
			continue
		}
		if path, ok := o[r.ID.Name]; ok {
			r.Source.Type = recipe.Local
			r.Source.URL = path
		}
	}
}
