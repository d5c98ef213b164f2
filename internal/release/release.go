// Package release computes new package versions and release tag names.
package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Bump kinds accepted by Bump besides an explicit version.
const (
	Major = "major"
	Minor = "minor"
	Patch = "patch"
)

// Kinds lists the named bump kinds in prompt order.
var Kinds = []string{Patch, Minor, Major}

// Bump returns the version that follows current for the given kind. Any kind
// other than major, minor or patch must be a valid version and is returned
// in canonical form ("v1.2" becomes "1.2.0").
func Bump(current, kind string) (string, error) {
	switch strings.ToLower(kind) {
	case Major, Minor, Patch:
	default:
		v, err := semver.NewVersion(kind)
		if err != nil {
			return "", fmt.Errorf("invalid version %q: %w", kind, err)
		}
		return v.String(), nil
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return "", fmt.Errorf("current version %q is not semver: %w", current, err)
	}
	var next semver.Version
	switch strings.ToLower(kind) {
	case Major:
		next = v.IncMajor()
	case Minor:
		next = v.IncMinor()
	default:
		next = v.IncPatch()
	}
	return next.String(), nil
}

// Validate reports whether s is an acceptable explicit version.
func Validate(s string) error {
	if _, err := semver.NewVersion(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid version %q", s)
	}
	return nil
}

// FormatTag expands {name} and {version} in format.
func FormatTag(format, name, version string) string {
	return strings.NewReplacer("{name}", name, "{version}", version).Replace(format)
}
