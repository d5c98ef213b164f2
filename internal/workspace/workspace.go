package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fbkclanna/shelf/internal/config"
	"github.com/fbkclanna/shelf/internal/manifest"
)

// Context holds the resolved paths and loaded config for a workspace.
type Context struct {
	Root         string
	ManifestPath string
	Config       *config.File
	Manifest     *manifest.Manifest
	Members      []Member
}

// Member is one package directory listed in the root manifest's workspaces.
type Member struct {
	// Path is the entry as written in the root manifest (or the matched
	// path, slash separated and relative to the root, for glob entries).
	Path string
	// Dir is the canonical absolute directory of the member.
	Dir string
}

// Load resolves the workspace root, reads .shelf.yaml and the root manifest,
// and expands the workspaces list into members.
func Load(root string) (*Context, error) {
	root, err := Canonical(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(root, cfg.ManifestName())
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	members, err := resolveMembers(root, cfg.ManifestName(), m.Workspaces)
	if err != nil {
		return nil, err
	}

	return &Context{
		Root:         root,
		ManifestPath: manifestPath,
		Config:       cfg,
		Manifest:     m,
		Members:      members,
	}, nil
}

// PackageManifest returns the manifest path for a package directory.
func (c *Context) PackageManifest(dir string) string {
	return filepath.Join(dir, c.Config.ManifestName())
}

// Canonical returns an absolute, cleaned form of path with symlinks resolved.
// A path that does not exist is returned absolute and cleaned.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

func resolveMembers(root, manifestName string, entries []string) ([]Member, error) {
	var members []Member
	seen := make(map[string]bool, len(entries))
	add := func(m Member) {
		if seen[m.Dir] {
			return
		}
		seen[m.Dir] = true
		members = append(members, m)
	}

	for _, entry := range entries {
		if !isGlob(entry) {
			dir, err := Canonical(joinRoot(root, entry))
			if err != nil {
				return nil, fmt.Errorf("resolving workspace member %s: %w", entry, err)
			}
			add(Member{Path: entry, Dir: dir})
			continue
		}

		matches, err := filepath.Glob(joinRoot(root, entry))
		if err != nil {
			return nil, fmt.Errorf("expanding workspace pattern %q: %w", entry, err)
		}
		slices.Sort(matches)
		for _, match := range matches {
			if !isFile(filepath.Join(match, manifestName)) {
				continue
			}
			dir, err := Canonical(match)
			if err != nil {
				return nil, fmt.Errorf("resolving workspace member %s: %w", match, err)
			}
			rel, err := filepath.Rel(root, match)
			if err != nil {
				rel = match
			}
			add(Member{Path: filepath.ToSlash(rel), Dir: dir})
		}
	}
	return members, nil
}

func joinRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
