package modgraph

import (
	"testing"

	"github.com/blang/semver"
)

func TestParseSpecifierRelative(t *testing.T) {
	spec, err := ParseSpecifier("./util")
	if err != nil {
		t.Fatal(err)
	}
	if !spec.IsRelative {
		t.Fatal("expected a relative specifier")
	}
}

func TestParseSpecifierBareWithRange(t *testing.T) {
	spec, err := ParseSpecifier("leftpad@^1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Package != "leftpad" || spec.Range == nil {
		t.Fatalf("got %+v", spec)
	}
	if !spec.Range(semver.MustParse("1.3.0")) {
		t.Fatal("expected 1.3.0 to satisfy ^1.2.0")
	}
	if spec.Range(semver.MustParse("2.0.0")) {
		t.Fatal("expected 2.0.0 to not satisfy ^1.2.0")
	}
}

func TestResolveAliasVersionMismatch(t *testing.T) {
	cfg := &Config{Aliases: map[string]AliasTarget{
		"leftpad": {Path: "/vendor/leftpad.ts", Version: "1.0.0"},
	}}
	spec, err := ParseSpecifier("leftpad@^2.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(cfg, spec, "/project"); err == nil {
		t.Fatal("expected a version-range mismatch error")
	}
}

func TestResolveBuiltinModule(t *testing.T) {
	cfg := &Config{BuiltinModules: []string{"fs"}}
	spec, err := ParseSpecifier("fs")
	if err != nil {
		t.Fatal(err)
	}
	resolved, err := Resolve(cfg, spec, "/project")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "builtin:fs" {
		t.Fatalf("got %q", resolved)
	}
}

func TestGraphRejectsCycles(t *testing.T) {
	g := NewGraph()
	a := g.GetOrCreate("/a.ts")
	b := g.GetOrCreate("/b.ts")
	if err := g.AddImport(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddImport(b, a); err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestGraphTopoOrder(t *testing.T) {
	g := NewGraph()
	a := g.GetOrCreate("/a.ts")
	b := g.GetOrCreate("/b.ts")
	c := g.GetOrCreate("/c.ts")
	must(t, g.AddImport(a, b))
	must(t, g.AddImport(b, c))
	order := g.TopoOrder(a)
	if len(order) != 3 || order[0].Path != "/c.ts" || order[2].Path != "/a.ts" {
		t.Fatalf("got %v", order)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
