package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/shelf/internal/manifest"
	"gopkg.in/yaml.v3"
)

// Load reads <root>/.shelf.yaml, returning defaults when the file does not exist.
func Load(root string) (*File, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace settings file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates .shelf.yaml content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func validate(f *File) error {
	if f.Manifest != "" && (strings.ContainsAny(f.Manifest, `/\`) || f.Manifest == "." || f.Manifest == "..") {
		return fmt.Errorf("config: manifest must be a file name, got %q", f.Manifest)
	}
	seen := make(map[string]bool, len(f.Sections))
	for _, s := range f.Sections {
		if !manifest.IsSection(s) {
			return fmt.Errorf("config: unknown dependency section %q (must be one of %s)", s, strings.Join(manifest.Sections, ", "))
		}
		if seen[s] {
			return fmt.Errorf("config: duplicate dependency section %q", s)
		}
		seen[s] = true
	}
	if f.TagFormat != "" && !strings.Contains(f.TagFormat, "{version}") {
		return fmt.Errorf("config: tag_format must contain {version}: %s", f.TagFormat)
	}
	return nil
}
