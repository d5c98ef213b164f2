package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fbkclanna/shelf/internal/manifest"
	"github.com/fbkclanna/shelf/internal/ui"
	"github.com/fbkclanna/shelf/internal/workspace"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspace packages and stale internal dependencies",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type memberStatus struct {
	Path    string   `json:"path"`
	Name    string   `json:"name,omitempty"`
	Version string   `json:"version,omitempty"`
	Stale   []string `json:"stale,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	statuses := collectStatuses(ctx)

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tbl := ui.NewTable(out, "PATH", "NAME", "VERSION", "STALE")
	for _, s := range statuses {
		name, ver := s.Name, s.Version
		if s.Error != "" {
			name, ver = "(error)", ""
		}
		tbl.Row(s.Path, name, ver, strings.Join(s.Stale, ", "))
	}
	return tbl.Flush()
}

// collectStatuses reads every member and reports, for each one, the
// dependencies on other members whose constraint is not the expected range.
func collectStatuses(ctx *workspace.Context) []memberStatus {
	statuses := make([]memberStatus, len(ctx.Members))
	loaded := make([]*manifest.Manifest, len(ctx.Members))
	versions := make(map[string]string, len(ctx.Members))

	for i, member := range ctx.Members {
		statuses[i].Path = member.Path
		m, err := manifest.Load(ctx.PackageManifest(member.Dir))
		if err != nil {
			statuses[i].Error = err.Error()
			continue
		}
		loaded[i] = m
		statuses[i].Name = m.Name
		statuses[i].Version = m.Version
		if m.Name != "" && m.Version != "" {
			versions[m.Name] = m.Version
		}
	}

	prefix := ctx.Config.Prefix()
	for i, m := range loaded {
		if m == nil {
			continue
		}
		for _, section := range ctx.Config.EffectiveSections() {
			deps, err := m.Section(section)
			if err != nil {
				statuses[i].Error = err.Error()
				break
			}
			for _, name := range deps.Names() {
				ver, ok := versions[name]
				if !ok || name == m.Name {
					continue
				}
				if current, _ := deps.Get(name); current != "" && current != prefix+ver {
					statuses[i].Stale = append(statuses[i].Stale, fmt.Sprintf("%s %s => %s%s", name, current, prefix, ver))
				}
			}
		}
	}
	return statuses
}
