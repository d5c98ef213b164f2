package upgrade

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fbkclanna/shelf/internal/manifest"
	"github.com/fbkclanna/shelf/internal/workspace"
)

// ErrNoPackage is returned when the source manifest lacks a name or version.
var ErrNoPackage = errors.New("source manifest must have a name and a version")

// Change is one rewritten dependency constraint.
type Change struct {
	Member  workspace.Member
	Section string
	Old     string
	New     string
}

// String renders the change as "<member> <old> => <new>".
func (c Change) String() string {
	return fmt.Sprintf("%s %s => %s", c.Member.Path, c.Old, c.New)
}

// Write is a staged manifest rewrite for one member.
type Write struct {
	Member   workspace.Member
	Path     string
	Manifest *manifest.Manifest
	Changes  []Change
}

// Plan holds every rewrite needed to bring the workspace up to date with
// one package version.
type Plan struct {
	Package string
	Version string
	Range   string
	Writes  []Write
}

// Changes returns all staged changes in workspace order.
func (p *Plan) Changes() []Change {
	var out []Change
	for _, w := range p.Writes {
		out = append(out, w.Changes...)
	}
	return out
}

// Synchronizer rewrites sibling dependency constraints within a workspace.
type Synchronizer struct {
	ws  *workspace.Context
	log *slog.Logger
}

// New creates a Synchronizer for the loaded workspace. A nil logger discards output.
func New(ws *workspace.Context, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synchronizer{ws: ws, log: log}
}

// Run plans and applies the upgrade for the package in sourceDir, printing
// one line per change to out.
func (s *Synchronizer) Run(sourceDir string, out io.Writer) error {
	p, err := s.Plan(sourceDir)
	if err != nil {
		return err
	}
	return s.Apply(p, out)
}

// Plan reads the package in sourceDir and every workspace member, and stages
// the manifests whose constraint on that package must change. Nothing is
// written.
func (s *Synchronizer) Plan(sourceDir string) (*Plan, error) {
	src, err := manifest.LoadIdentity(s.ws.PackageManifest(sourceDir))
	if err != nil {
		return nil, err
	}
	return s.PlanFor(sourceDir, src.Name, src.Version)
}

// PlanFor stages the rewrites for package name at version, treating
// sourceDir as the package's own directory. The source manifest is not read.
func (s *Synchronizer) PlanFor(sourceDir, name, version string) (*Plan, error) {
	if name == "" || version == "" {
		return nil, fmt.Errorf("%s: %w", sourceDir, ErrNoPackage)
	}
	srcDir, err := workspace.Canonical(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", sourceDir, err)
	}

	p := &Plan{
		Package: name,
		Version: version,
		Range:   s.ws.Config.Prefix() + version,
	}
	s.log.Debug("planning upgrade", "package", p.Package, "range", p.Range, "members", len(s.ws.Members))

	for _, member := range s.ws.Members {
		if member.Dir == srcDir {
			s.log.Debug("skipping source package", "member", member.Path)
			continue
		}
		w, err := s.planMember(member, p)
		if err != nil {
			return nil, err
		}
		if w == nil {
			s.log.Debug("member up to date", "member", member.Path)
			continue
		}
		p.Writes = append(p.Writes, *w)
	}
	return p, nil
}

func (s *Synchronizer) planMember(member workspace.Member, p *Plan) (*Write, error) {
	path := s.ws.PackageManifest(member.Dir)
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, section := range s.ws.Config.EffectiveSections() {
		deps, err := m.Section(section)
		if err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %s: %w", path, section, err)
		}
		current, ok := deps.Get(p.Package)
		if !ok || current == "" || current == p.Range {
			continue
		}
		m = m.WithSection(section, deps.With(p.Package, p.Range))
		changes = append(changes, Change{
			Member:  member,
			Section: section,
			Old:     current,
			New:     p.Range,
		})
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return &Write{Member: member, Path: path, Manifest: m, Changes: changes}, nil
}

// Apply writes every staged manifest in order, printing its changes to out
// first. It stops at the first failed write; earlier writes are kept.
func (s *Synchronizer) Apply(p *Plan, out io.Writer) error {
	for _, w := range p.Writes {
		for _, c := range w.Changes {
			_, _ = fmt.Fprintln(out, c.String())
		}
		if err := manifest.Save(w.Path, w.Manifest); err != nil {
			return err
		}
		s.log.Debug("manifest written", "path", w.Path)
	}
	return nil
}

// Preview prints the staged changes without writing anything.
func Preview(p *Plan, out io.Writer) {
	for _, c := range p.Changes() {
		_, _ = fmt.Fprintln(out, c.String())
	}
}
