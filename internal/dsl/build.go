package dsl

import (
	"fmt"

	"github.com/elysium-os/chariot/internal/recipe"
)

// BuildRecipes validates and converts parsed declarations into
// [recipe.Recipe] values, enforcing the required-field invariants of
// spec §3/§4.1. Dependency and image-dependency lists are carried over
// unresolved; resolving edges into pointers is internal/graph's job.
func BuildRecipes(decls []RecipeDecl) ([]*recipe.Recipe, error) {
	recipes := make([]*recipe.Recipe, 0, len(decls))
	for _, decl := range decls {
		r, err := buildRecipe(decl)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func buildRecipe(decl RecipeDecl) (*recipe.Recipe, error) {
	ns := recipe.Namespace(decl.Namespace)
	if !ns.Valid() {
		return nil, fmt.Errorf("%s:%d: unknown namespace %q", decl.File, decl.Line, decl.Namespace)
	}

	r := &recipe.Recipe{ID: recipe.ID{Namespace: ns, Name: decl.Name}}

	deps, images, err := splitDependencies(decl)
	if err != nil {
		return nil, err
	}
	r.Dependencies = deps
	r.Images = images

	switch ns {
	case recipe.Source:
		payload, err := buildSourcePayload(decl)
		if err != nil {
			return nil, err
		}
		r.Source = payload
	case recipe.Host, recipe.Target:
		payload, err := buildHostTargetPayload(decl)
		if err != nil {
			return nil, err
		}
		r.HostTarget = payload
	}

	return r, nil
}

func splitDependencies(decl RecipeDecl) ([]recipe.Dependency, []recipe.ImageDependency, error) {
	field, ok := decl.Fields["dependencies"]
	if !ok {
		return nil, nil, nil
	}
	if field.Kind != ValueDepList {
		return nil, nil, fmt.Errorf("%s:%d: %s/%s: \"dependencies\" must be a list", decl.File, field.Line, decl.Namespace, decl.Name)
	}

	var deps []recipe.Dependency
	var images []recipe.ImageDependency
	for _, tok := range field.Deps {
		if tok.IsImage {
			images = append(images, recipe.ImageDependency{Package: tok.Name, Runtime: tok.Runtime})
			continue
		}
		depNS := recipe.Namespace(tok.Namespace)
		if !depNS.Valid() {
			return nil, nil, fmt.Errorf("%s:%d: %s/%s: unknown dependency namespace %q", decl.File, field.Line, decl.Namespace, decl.Name, tok.Namespace)
		}
		deps = append(deps, recipe.Dependency{ID: recipe.ID{Namespace: depNS, Name: tok.Name}, Runtime: tok.Runtime})
	}
	return deps, images, nil
}

func buildSourcePayload(decl RecipeDecl) (*recipe.SourcePayload, error) {
	typeField, ok := scalarField(decl, "type")
	if !ok {
		return nil, requiredFieldErr(decl, "type")
	}
	urlField, ok := scalarField(decl, "url")
	if !ok {
		return nil, requiredFieldErr(decl, "url")
	}

	st := recipe.SourceType(typeField)
	payload := &recipe.SourcePayload{Type: st, URL: urlField}

	if patch, ok := scalarField(decl, "patch"); ok {
		payload.Patch = patch
	}
	if strap, ok := codeField(decl, "strap"); ok {
		payload.Strap = strap
	}

	switch st {
	case recipe.TarGz, recipe.TarXz:
		b2sum, ok := scalarField(decl, "b2sum")
		if !ok {
			return nil, fmt.Errorf("%s:%d: source/%s: \"b2sum\" is required for type %q", decl.File, decl.Line, decl.Name, st)
		}
		payload.B2Sum = b2sum
	case recipe.Git:
		commit, ok := scalarField(decl, "commit")
		if !ok {
			return nil, fmt.Errorf("%s:%d: source/%s: \"commit\" is required for type %q", decl.File, decl.Line, decl.Name, st)
		}
		payload.Commit = commit
	case recipe.Local:
		// neither b2sum nor commit permitted; parser does not enforce
		// their absence since a stray field is harmless, only required
		// fields are checked (spec §3 invariant: "for local, neither is set")
	default:
		return nil, fmt.Errorf("%s:%d: source/%s: unknown source type %q", decl.File, decl.Line, decl.Name, st)
	}

	return payload, nil
}

func buildHostTargetPayload(decl RecipeDecl) (*recipe.HostTargetPayload, error) {
	payload := &recipe.HostTargetPayload{}

	if src, ok := scalarField(decl, "source"); ok {
		payload.Source = &recipe.ID{Namespace: recipe.Source, Name: src}
	}
	if configure, ok := codeField(decl, "configure"); ok {
		payload.Configure = configure
	}
	if build, ok := codeField(decl, "build"); ok {
		payload.Build = build
	}
	if install, ok := codeField(decl, "install"); ok {
		payload.Install = install
	}

	return payload, nil
}

func scalarField(decl RecipeDecl, key string) (string, bool) {
	f, ok := decl.Fields[key]
	if !ok || f.Kind != ValueScalar {
		return "", false
	}
	return f.Scalar, true
}

func codeField(decl RecipeDecl, key string) (string, bool) {
	f, ok := decl.Fields[key]
	if !ok || f.Kind != ValueCode {
		return "", false
	}
	return f.Code, true
}

func requiredFieldErr(decl RecipeDecl, field string) error {
	return fmt.Errorf("%s:%d: %s/%s: missing required field %q", decl.File, decl.Line, decl.Namespace, decl.Name, field)
}
