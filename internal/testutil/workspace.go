package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Package describes a package.json fixture. A nil Dependencies map omits the field.
type Package struct {
	Name         string            `json:"name,omitempty"`
	Version      string            `json:"version,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Workspaces   []string          `json:"workspaces,omitempty"`
}

// WritePackage writes <dir>/package.json, creating dir as needed.
func WritePackage(t *testing.T, dir string, p Package) {
	t.Helper()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		t.Fatalf("marshaling package: %v", err)
	}
	WriteFile(t, filepath.Join(dir, "package.json"), string(data))
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Dependencies reads the dependencies field of <dir>/package.json.
func Dependencies(t *testing.T, dir string) map[string]string {
	t.Helper()
	var p Package
	if err := json.Unmarshal([]byte(ReadFile(t, filepath.Join(dir, "package.json"))), &p); err != nil {
		t.Fatalf("parsing %s: %v", dir, err)
	}
	return p.Dependencies
}

// CreateWorkspace writes a root package.json listing members plus one
// package.json per member, keyed by member path. It returns the root dir.
func CreateWorkspace(t *testing.T, members []string, pkgs map[string]Package) string {
	t.Helper()
	root := t.TempDir()
	WritePackage(t, root, Package{Name: "root", Version: "0.0.0", Workspaces: members})
	for path, p := range pkgs {
		WritePackage(t, filepath.Join(root, path), p)
	}
	return root
}
