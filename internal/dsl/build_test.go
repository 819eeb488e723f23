package dsl

import (
	"testing"

	"github.com/elysium-os/chariot/internal/recipe"
)

func TestBuildRecipesSource(t *testing.T) {
	decls := []RecipeDecl{
		{
			Namespace: "source",
			Name:      "zlib",
			File:      "/x.conf",
			Fields: map[string]Value{
				"type":  {Kind: ValueScalar, Scalar: "tar.gz"},
				"url":   {Kind: ValueScalar, Scalar: "https://example.com/zlib.tar.gz"},
				"b2sum": {Kind: ValueScalar, Scalar: "deadbeef"},
				"dependencies": {Kind: ValueDepList, Deps: []DepToken{
					{IsImage: true, Name: "gcc"},
					{Namespace: "host", Name: "binutils", Runtime: true},
				}},
			},
		},
	}

	recipes, err := BuildRecipes(decls)
	if err != nil {
		t.Fatalf("BuildRecipes() error = %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("len(recipes) = %d, want 1", len(recipes))
	}

	r := recipes[0]
	if r.ID.Namespace != recipe.Source || r.ID.Name != "zlib" {
		t.Fatalf("ID = %+v, want source/zlib", r.ID)
	}
	if r.Source == nil || r.Source.B2Sum != "deadbeef" {
		t.Fatalf("Source = %+v, want B2Sum deadbeef", r.Source)
	}
	if len(r.Images) != 1 || r.Images[0].Package != "gcc" {
		t.Fatalf("Images = %+v, want [gcc]", r.Images)
	}
	if len(r.Dependencies) != 1 || r.Dependencies[0].ID.Name != "binutils" || !r.Dependencies[0].Runtime {
		t.Fatalf("Dependencies = %+v, want runtime host/binutils", r.Dependencies)
	}
}

func TestBuildRecipesMissingB2Sum(t *testing.T) {
	decls := []RecipeDecl{
		{
			Namespace: "source",
			Name:      "zlib",
			File:      "/x.conf",
			Fields: map[string]Value{
				"type": {Kind: ValueScalar, Scalar: "tar.gz"},
				"url":  {Kind: ValueScalar, Scalar: "https://example.com/zlib.tar.gz"},
			},
		},
	}
	if _, err := BuildRecipes(decls); err == nil {
		t.Fatal("BuildRecipes() error = nil, want missing b2sum error")
	}
}

func TestBuildRecipesUnknownNamespace(t *testing.T) {
	decls := []RecipeDecl{
		{Namespace: "bogus", Name: "x", File: "/x.conf", Fields: map[string]Value{}},
	}
	if _, err := BuildRecipes(decls); err == nil {
		t.Fatal("BuildRecipes() error = nil, want unknown namespace error")
	}
}

func TestBuildRecipesHostTarget(t *testing.T) {
	decls := []RecipeDecl{
		{
			Namespace: "host",
			Name:      "make",
			File:      "/x.conf",
			Fields: map[string]Value{
				"source":    {Kind: ValueScalar, Scalar: "make"},
				"configure": {Kind: ValueCode, Code: "./configure"},
				"build":     {Kind: ValueCode, Code: "make"},
				"install":   {Kind: ValueCode, Code: "make install"},
			},
		},
	}
	recipes, err := BuildRecipes(decls)
	if err != nil {
		t.Fatalf("BuildRecipes() error = %v", err)
	}
	ht := recipes[0].HostTarget
	if ht == nil || ht.Source == nil || ht.Source.Name != "make" {
		t.Fatalf("HostTarget = %+v, want source make", ht)
	}
	if ht.Build != "make" {
		t.Fatalf("Build = %q, want %q", ht.Build, "make")
	}
}
