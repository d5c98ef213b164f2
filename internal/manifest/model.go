package manifest

import (
	"encoding/json"
	"slices"
)

// Section names recognized as dependency mappings.
const (
	SectionDependencies         = "dependencies"
	SectionDevDependencies      = "devDependencies"
	SectionPeerDependencies     = "peerDependencies"
	SectionOptionalDependencies = "optionalDependencies"
)

// Sections lists every dependency section a manifest may carry.
var Sections = []string{
	SectionDependencies,
	SectionDevDependencies,
	SectionPeerDependencies,
	SectionOptionalDependencies,
}

// IsSection reports whether name is a known dependency section.
func IsSection(name string) bool {
	return slices.Contains(Sections, name)
}

// Manifest represents a package.json document.
//
// Only name, version, dependencies and workspaces are interpreted. Every
// top-level field is also kept as raw JSON in its original order so that a
// rewrite touches nothing but the field being replaced.
type Manifest struct {
	Name         string
	Version      string
	Dependencies *Dependencies
	Workspaces   []string

	keys   []string
	fields map[string]json.RawMessage
}

// Has reports whether the manifest carries the given top-level field.
func (m *Manifest) Has(field string) bool {
	_, ok := m.fields[field]
	return ok
}

// Section decodes a dependency section. An absent section is returned empty.
func (m *Manifest) Section(name string) (*Dependencies, error) {
	if name == SectionDependencies && m.Dependencies != nil {
		return m.Dependencies, nil
	}
	return decodeDependencies(m.fields[name])
}

// WithSection returns a copy of m whose dependency section is replaced by deps.
func (m *Manifest) WithSection(name string, deps *Dependencies) *Manifest {
	out := m.clone()
	out.set(name, deps.raw())
	if name == SectionDependencies {
		out.Dependencies = deps
	}
	return out
}

// WithVersion returns a copy of m with the version field replaced.
func (m *Manifest) WithVersion(version string) *Manifest {
	out := m.clone()
	out.set("version", quote(version))
	out.Version = version
	return out
}

func (m *Manifest) clone() *Manifest {
	out := *m
	out.keys = slices.Clone(m.keys)
	out.fields = make(map[string]json.RawMessage, len(m.fields))
	for k, v := range m.fields {
		out.fields[k] = v
	}
	out.Workspaces = slices.Clone(m.Workspaces)
	return &out
}

func (m *Manifest) set(field string, raw json.RawMessage) {
	if _, ok := m.fields[field]; !ok {
		m.keys = append(m.keys, field)
	}
	m.fields[field] = raw
}

// Dependencies is an ordered mapping from package name to version constraint.
type Dependencies struct {
	names  []string
	ranges map[string]string
}

// NewDependencies builds a mapping from name/constraint pairs, keeping their order.
func NewDependencies(pairs ...string) *Dependencies {
	d := &Dependencies{ranges: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.put(pairs[i], pairs[i+1])
	}
	return d
}

// Get returns the constraint for name.
func (d *Dependencies) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.ranges[name]
	return v, ok
}

// Len returns the number of entries.
func (d *Dependencies) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Names returns the dependency names in document order.
func (d *Dependencies) Names() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.names)
}

// With returns a copy of d with name set to constraint. A new name is appended.
func (d *Dependencies) With(name, constraint string) *Dependencies {
	out := &Dependencies{ranges: make(map[string]string, d.Len()+1)}
	for _, n := range d.Names() {
		out.put(n, d.ranges[n])
	}
	out.put(name, constraint)
	return out
}

func (d *Dependencies) put(name, constraint string) {
	if _, ok := d.ranges[name]; !ok {
		d.names = append(d.names, name)
	}
	d.ranges[name] = constraint
}

func (d *Dependencies) raw() json.RawMessage {
	values := make(map[string]json.RawMessage, d.Len())
	for _, n := range d.Names() {
		values[n] = quote(d.ranges[n])
	}
	return encodeObject(d.Names(), values)
}
