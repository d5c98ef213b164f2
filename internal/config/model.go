package config

// FileName is the settings file looked up in the workspace root.
const FileName = ".shelf.yaml"

// File represents .shelf.yaml.
type File struct {
	Manifest    string   `yaml:"manifest,omitempty"`
	RangePrefix *string  `yaml:"range_prefix,omitempty"`
	Sections    []string `yaml:"sections,omitempty"`
	TagFormat   string   `yaml:"tag_format,omitempty"`
}

// Default returns the settings used when no .shelf.yaml exists.
func Default() *File {
	return &File{}
}

// ManifestName returns the manifest file name, defaulting to package.json.
func (f *File) ManifestName() string {
	if f.Manifest != "" {
		return f.Manifest
	}
	return "package.json"
}

// Prefix returns the range operator written in front of upgraded versions.
// An explicit empty string pins exact versions.
func (f *File) Prefix() string {
	if f.RangePrefix != nil {
		return *f.RangePrefix
	}
	return "^"
}

// EffectiveSections returns the dependency sections upgrade rewrites.
func (f *File) EffectiveSections() []string {
	if len(f.Sections) > 0 {
		return f.Sections
	}
	return []string{"dependencies"}
}

// EffectiveTagFormat returns the release tag template.
func (f *File) EffectiveTagFormat() string {
	if f.TagFormat != "" {
		return f.TagFormat
	}
	return "{name}@{version}"
}
