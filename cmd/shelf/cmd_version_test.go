package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/shelf/internal/testutil"
)

func packageVersion(t *testing.T, dir string) string {
	t.Helper()
	var p testutil.Package
	if err := json.Unmarshal([]byte(testutil.ReadFile(t, filepath.Join(dir, "package.json"))), &p); err != nil {
		t.Fatal(err)
	}
	return p.Version
}

func TestRunVersion_patch(t *testing.T) {
	ws := setupWorkspace(t)

	out, err := execute(t, "--root", ws, "version", "patch", "-w", filepath.Join(ws, "foo"))
	if err != nil {
		t.Fatalf("version patch failed: %v", err)
	}

	if v := packageVersion(t, filepath.Join(ws, "foo")); v != "2.0.1" {
		t.Errorf("foo version = %q, want 2.0.1", v)
	}
	for _, member := range []string{"pkgA", "pkgC"} {
		if deps := testutil.Dependencies(t, filepath.Join(ws, member)); deps["foo"] != "^2.0.1" {
			t.Errorf("%s foo = %q, want ^2.0.1", member, deps["foo"])
		}
	}
	for _, want := range []string{
		"[1/2] foo 2.0.0 => 2.0.1",
		"  pkgA ^1.0.0 => ^2.0.1",
		"  pkgC ^2.0.0 => ^2.0.1",
		"[2/2] updated 2 dependent package(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunVersion_explicit(t *testing.T) {
	ws := setupWorkspace(t)

	if _, err := execute(t, "--root", ws, "version", "3.0.0-rc.1", "--workspace", filepath.Join(ws, "pkgA")); err != nil {
		t.Fatalf("version 3.0.0-rc.1 failed: %v", err)
	}
	if v := packageVersion(t, filepath.Join(ws, "pkgA")); v != "3.0.0-rc.1" {
		t.Errorf("pkgA version = %q, want 3.0.0-rc.1", v)
	}
	if deps := testutil.Dependencies(t, filepath.Join(ws, "pkgC")); deps["a"] != "^3.0.0-rc.1" {
		t.Errorf("pkgC a = %q, want ^3.0.0-rc.1", deps["a"])
	}
}

func TestRunVersion_invalidBumpWritesNothing(t *testing.T) {
	ws := setupWorkspace(t)
	before := testutil.ReadFile(t, filepath.Join(ws, "foo", "package.json"))

	if _, err := execute(t, "--root", ws, "version", "sideways", "-w", filepath.Join(ws, "foo")); err == nil {
		t.Fatal("expected error for invalid bump")
	}
	if got := testutil.ReadFile(t, filepath.Join(ws, "foo", "package.json")); got != before {
		t.Error("invalid bump should not write the manifest")
	}
}

func TestRunVersion_brokenMemberWritesNothing(t *testing.T) {
	ws := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(ws, "pkgB", "package.json"), "{")
	before := testutil.ReadFile(t, filepath.Join(ws, "foo", "package.json"))

	if _, err := execute(t, "--root", ws, "version", "minor", "-w", filepath.Join(ws, "foo")); err == nil {
		t.Fatal("expected error for malformed member manifest")
	}
	if got := testutil.ReadFile(t, filepath.Join(ws, "foo", "package.json")); got != before {
		t.Error("source manifest should not be bumped when planning fails")
	}
}

func TestRunVersion_noArgWithoutTTY(t *testing.T) {
	if isInteractive() {
		t.Skip("stdin is a terminal")
	}
	ws := setupWorkspace(t)

	if _, err := execute(t, "--root", ws, "version", "-w", filepath.Join(ws, "foo")); err == nil {
		t.Fatal("expected error when no bump is given without a TTY")
	}
}

func TestRunVersion_git(t *testing.T) {
	ws := setupWorkspace(t)
	testutil.InitRepo(t, ws)

	out, err := execute(t, "--root", ws, "version", "minor", "--git", "-w", filepath.Join(ws, "foo"))
	if err != nil {
		t.Fatalf("version minor --git failed: %v", err)
	}
	if !strings.Contains(out, "[3/3] tagged foo@2.1.0") {
		t.Errorf("output missing tag step:\n%s", out)
	}
	if tags := testutil.Git(t, ws, "tag", "--list"); tags != "foo@2.1.0" {
		t.Errorf("tags = %q, want foo@2.1.0", tags)
	}
	if status := testutil.Git(t, ws, "status", "--porcelain"); status != "" {
		t.Errorf("expected clean tree after release commit, got:\n%s", status)
	}
}

func TestRunVersion_gitRefusesDirtyTree(t *testing.T) {
	ws := setupWorkspace(t)
	testutil.InitRepo(t, ws)
	if err := os.WriteFile(filepath.Join(ws, "notes.txt"), []byte("wip"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}

	if _, err := execute(t, "--root", ws, "version", "patch", "--git", "-w", filepath.Join(ws, "foo")); err == nil {
		t.Fatal("expected error for dirty working tree")
	}
	if v := packageVersion(t, filepath.Join(ws, "foo")); v != "2.0.0" {
		t.Errorf("foo version = %q, should be unchanged", v)
	}
}

func TestRunVersion_gitRequiresRepo(t *testing.T) {
	ws := setupWorkspace(t)

	if _, err := execute(t, "--root", ws, "version", "patch", "--git", "-w", filepath.Join(ws, "foo")); err == nil {
		t.Fatal("expected error outside a git repository")
	}
}

func TestRunVersion_customTagFormat(t *testing.T) {
	ws := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(ws, ".shelf.yaml"), "tag_format: \"v{version}\"\n")
	testutil.InitRepo(t, ws)

	if _, err := execute(t, "--root", ws, "version", "major", "--git", "-w", filepath.Join(ws, "foo")); err != nil {
		t.Fatalf("version major --git failed: %v", err)
	}
	if tags := testutil.Git(t, ws, "tag", "--list"); tags != "v3.0.0" {
		t.Errorf("tags = %q, want v3.0.0", tags)
	}
}

func TestRunVersion_gitRelativePaths(t *testing.T) {
	ws := setupWorkspace(t)
	testutil.InitRepo(t, ws)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(filepath.Dir(ws)); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rel := filepath.Base(ws)
	if _, err := execute(t, "--root", rel, "version", "patch", "--git", "-w", filepath.Join(rel, "foo")); err != nil {
		t.Fatalf("version patch --git failed: %v", err)
	}
	if tags := testutil.Git(t, ws, "tag", "--list"); tags != "foo@2.0.1" {
		t.Errorf("tags = %q, want foo@2.0.1", tags)
	}
	if status := testutil.Git(t, ws, "status", "--porcelain"); status != "" {
		t.Errorf("expected every manifest in the release commit, got:\n%s", status)
	}
}

func TestRunVersion_noDependents(t *testing.T) {
	ws := setupWorkspace(t)

	out, err := execute(t, "--root", ws, "version", "minor", "-w", filepath.Join(ws, "pkgB"))
	if err != nil {
		t.Fatalf("version minor failed: %v", err)
	}
	for _, want := range []string{
		"[1/2] b 1.0.0 => 1.1.0",
		"  no workspace package needs ^1.1.0",
		"[2/2] updated 0 dependent package(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
