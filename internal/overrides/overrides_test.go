package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elysium-os/chariot/internal/recipe"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	o, err := Load(filepath.Join(t.TempDir(), ".chariot-overrides"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(o) != 0 {
		t.Fatalf("len(o) = %d, want 0", len(o))
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".chariot-overrides")
	if err := os.WriteFile(path, []byte("zlib: /home/user/src/zlib\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if o["zlib"] != "/home/user/src/zlib" {
		t.Fatalf("o[\"zlib\"] = %q, want /home/user/src/zlib", o["zlib"])
	}
}

func TestApplyRewritesMatchingSourceRecipe(t *testing.T) {
	zlib := &recipe.Recipe{
		ID:     recipe.ID{Namespace: recipe.Source, Name: "zlib"},
		Source: &recipe.SourcePayload{Type: recipe.TarGz, URL: "https://example.com/zlib.tar.gz", B2Sum: "abc"},
	}
	make_ := &recipe.Recipe{ID: recipe.ID{Namespace: recipe.Host, Name: "make"}, HostTarget: &recipe.HostTargetPayload{}}

	Apply(Overrides{"zlib": "/home/user/src/zlib"}, []*recipe.Recipe{zlib, make_})

	if zlib.Source.Type != recipe.Local || zlib.Source.URL != "/home/user/src/zlib" {
		t.Fatalf("zlib.Source = %+v, want Local /home/user/src/zlib", zlib.Source)
	}
}

func TestApplyIgnoresUnmatchedRecipes(t *testing.T) {
	curl := &recipe.Recipe{
		ID:     recipe.ID{Namespace: recipe.Source, Name: "curl"},
		Source: &recipe.SourcePayload{Type: recipe.TarGz, URL: "https://example.com/curl.tar.gz", B2Sum: "abc"},
	}
	Apply(Overrides{"zlib": "/home/user/src/zlib"}, []*recipe.Recipe{curl})

	if curl.Source.Type != recipe.TarGz {
		t.Fatalf("curl.Source.Type = %q, want unchanged tar.gz", curl.Source.Type)
	}
}
