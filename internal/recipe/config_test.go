package recipe

import "testing"

func TestNewConfigLookup(t *testing.T) {
	zlib := &Recipe{ID: ID{Namespace: Source, Name: "zlib"}}
	make_ := &Recipe{ID: ID{Namespace: Host, Name: "make"}}

	cfg, err := NewConfig([]*Recipe{zlib, make_})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if got := cfg.Lookup(ID{Namespace: Source, Name: "zlib"}); got != zlib {
		t.Fatalf("Lookup(source/zlib) = %v, want %v", got, zlib)
	}
	if got := cfg.Lookup(ID{Namespace: Host, Name: "missing"}); got != nil {
		t.Fatalf("Lookup(host/missing) = %v, want nil", got)
	}
}

func TestNewConfigDuplicate(t *testing.T) {
	a := &Recipe{ID: ID{Namespace: Source, Name: "zlib"}}
	b := &Recipe{ID: ID{Namespace: Source, Name: "zlib"}}

	if _, err := NewConfig([]*Recipe{a, b}); err == nil {
		t.Fatal("NewConfig() error = nil, want duplicate recipe error")
	}
}

func TestMustLookup(t *testing.T) {
	zlib := &Recipe{ID: ID{Namespace: Source, Name: "zlib"}}
	cfg, err := NewConfig([]*Recipe{zlib})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if _, err := cfg.MustLookup(ID{Namespace: Source, Name: "missing"}); err == nil {
		t.Fatal("MustLookup() error = nil, want unresolved recipe error")
	}
	got, err := cfg.MustLookup(ID{Namespace: Source, Name: "zlib"})
	if err != nil || got != zlib {
		t.Fatalf("MustLookup(source/zlib) = (%v, %v), want (%v, nil)", got, err, zlib)
	}
}

func TestNamespaceValid(t *testing.T) {
	cases := []struct {
		ns   Namespace
		want bool
	}{
		{Source, true},
		{Host, true},
		{Target, true},
		{Namespace("bogus"), false},
	}
	for _, c := range cases {
		if got := c.ns.Valid(); got != c.want {
			t.Errorf("Namespace(%q).Valid() = %v, want %v", c.ns, got, c.want)
		}
	}
}

func TestRecipePrefix(t *testing.T) {
	cases := []struct {
		ns   Namespace
		want string
	}{
		{Host, "/usr/local"},
		{Target, "/usr"},
		{Source, ""},
	}
	for _, c := range cases {
		r := &Recipe{ID: ID{Namespace: c.ns, Name: "x"}}
		if got := r.Prefix(); got != c.want {
			t.Errorf("Prefix() for %s = %q, want %q", c.ns, got, c.want)
		}
	}
}
