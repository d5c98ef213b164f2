package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads and parses a package manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a workspace manifest path
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Identity is the name and version a package publishes under.
type Identity struct {
	Name    string
	Version string
}

// LoadIdentity reads the name and version of a package manifest. Unlike Load
// it does not interpret any other field, so a manifest whose dependencies or
// workspaces this package cannot model is still accepted.
func LoadIdentity(path string) (Identity, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a workspace manifest path
	if err != nil {
		return Identity{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	_, fields, err := decodeObject(data)
	if err == nil {
		var id Identity
		if id.Name, err = decodeString(fields["name"], "name"); err == nil {
			id.Version, err = decodeString(fields["version"], "version")
		}
		if err == nil {
			return id, nil
		}
	}
	return Identity{}, fmt.Errorf("parsing manifest %s: %w", path, err)
}

// Save writes the manifest to disk, replacing any previous content.
func Save(path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // manifests are checked in and must stay readable
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// Parse parses package manifest content.
func Parse(data []byte) (*Manifest, error) {
	keys, fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	m := &Manifest{keys: keys, fields: fields}

	if m.Name, err = decodeString(fields["name"], "name"); err != nil {
		return nil, err
	}
	if m.Version, err = decodeString(fields["version"], "version"); err != nil {
		return nil, err
	}
	if m.Workspaces, err = decodeWorkspaces(fields["workspaces"]); err != nil {
		return nil, err
	}
	if m.Dependencies, err = decodeDependencies(fields[SectionDependencies]); err != nil {
		return nil, fmt.Errorf("%s: %w", SectionDependencies, err)
	}
	return m, nil
}

// Marshal renders the manifest as JSON indented with two spaces.
func (m *Manifest) Marshal() ([]byte, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, encodeObject(m.keys, m.fields), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

var errNotObject = errors.New("expected a JSON object")

// decodeObject splits a JSON object into its raw members, keeping key order.
// A repeated key keeps its first position and its last value.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errNotObject
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("unexpected content after top-level object")
	}
	return keys, fields, nil
}

func encodeObject(keys []string, fields map[string]json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(quote(k))
		buf.WriteByte(':')
		buf.Write(fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// quote encodes s as a JSON string without escaping <, > and &.
func quote(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeString(raw json.RawMessage, field string) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s must be a string", field)
	}
	return s, nil
}

func decodeDependencies(raw json.RawMessage) (*Dependencies, error) {
	d := NewDependencies()
	if isNull(raw) {
		return d, nil
	}
	names, values, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		var constraint string
		if err := json.Unmarshal(values[n], &constraint); err != nil {
			return nil, fmt.Errorf("constraint for %q must be a string", n)
		}
		d.put(n, constraint)
	}
	return d, nil
}

// decodeWorkspaces accepts both the npm array form and the yarn
// {"packages": [...]} form.
func decodeWorkspaces(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errors.New("workspaces must be a list of paths")
	}
	return obj.Packages, nil
}
