package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fbkclanna/shelf/internal/testutil"
)

func TestLoad(t *testing.T) {
	root := testutil.CreateWorkspace(t, []string{"pkgA", "pkgB"}, map[string]testutil.Package{
		"pkgA": {Name: "a", Version: "1.0.0"},
		"pkgB": {Name: "b", Version: "1.0.0"},
	})

	ctx, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if ctx.Manifest.Name != "root" {
		t.Errorf("Manifest.Name = %q, want %q", ctx.Manifest.Name, "root")
	}
	if ctx.ManifestPath != filepath.Join(ctx.Root, "package.json") {
		t.Errorf("ManifestPath = %q, unexpected", ctx.ManifestPath)
	}
	if len(ctx.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(ctx.Members))
	}
	if ctx.Members[0].Path != "pkgA" || ctx.Members[1].Path != "pkgB" {
		t.Errorf("members out of order: %+v", ctx.Members)
	}
	if ctx.Members[0].Dir != filepath.Join(ctx.Root, "pkgA") {
		t.Errorf("Members[0].Dir = %q", ctx.Members[0].Dir)
	}
	if ctx.Config.Prefix() != "^" {
		t.Errorf("default config prefix = %q", ctx.Config.Prefix())
	}
}

func TestLoad_noWorkspaces(t *testing.T) {
	root := testutil.CreateWorkspace(t, nil, nil)

	ctx, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ctx.Members) != 0 {
		t.Errorf("members = %v, want none", ctx.Members)
	}
}

func TestLoad_globMembers(t *testing.T) {
	root := testutil.CreateWorkspace(t, []string{"packages/*", "tools/cli"}, map[string]testutil.Package{
		"packages/zeta":  {Name: "zeta"},
		"packages/alpha": {Name: "alpha"},
		"tools/cli":      {Name: "cli"},
	})
	// A directory without a manifest is not a member.
	if err := os.MkdirAll(filepath.Join(root, "packages", "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	ctx, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	var paths []string
	for _, m := range ctx.Members {
		paths = append(paths, m.Path)
	}
	want := []string{"packages/alpha", "packages/zeta", "tools/cli"}
	if len(paths) != len(want) {
		t.Fatalf("members = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("members[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLoad_duplicateMembers(t *testing.T) {
	root := testutil.CreateWorkspace(t, []string{"pkgA", "./pkgA/", "pkg*"}, map[string]testutil.Package{
		"pkgA": {Name: "a"},
	})

	ctx, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ctx.Members) != 1 {
		t.Errorf("members = %+v, want a single pkgA", ctx.Members)
	}
}

func TestLoad_missingManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() should fail when package.json is missing")
	}
}

func TestLoad_invalidManifest(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "package.json"), "{not json")

	if _, err := Load(dir); err == nil {
		t.Fatal("Load() should fail with invalid JSON")
	}
}

func TestLoad_customManifestName(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ".shelf.yaml"), "manifest: manifest.json\n")
	testutil.WriteFile(t, filepath.Join(dir, "manifest.json"), `{"name":"root","workspaces":["a"]}`)

	ctx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := ctx.PackageManifest(ctx.Members[0].Dir); got != filepath.Join(ctx.Root, "a", "manifest.json") {
		t.Errorf("PackageManifest() = %q", got)
	}
}

func TestCanonical(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	a, err := Canonical(filepath.Join(dir, "pkg") + string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Canonical(filepath.Join(dir, "other", "..", "pkg"))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Canonical mismatch: %q vs %q", a, b)
	}

	missing, err := Canonical(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("Canonical on missing path: %v", err)
	}
	if !filepath.IsAbs(missing) {
		t.Errorf("expected absolute path, got %q", missing)
	}
}
