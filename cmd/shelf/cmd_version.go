package main

import (
	"fmt"

	"github.com/fbkclanna/shelf/internal/git"
	"github.com/fbkclanna/shelf/internal/manifest"
	"github.com/fbkclanna/shelf/internal/release"
	"github.com/fbkclanna/shelf/internal/ui"
	"github.com/fbkclanna/shelf/internal/upgrade"
	"github.com/fbkclanna/shelf/internal/workspace"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version [major | minor | patch | <version>]",
		Short: "Bump a package version and upgrade its workspace dependents",
		Long: `Updates the package manifest of the package at --workspace, then sets every
workspace package that depends on it to ^<new version>. With --git the changed
manifests are committed and the commit is tagged (the tag is not pushed).

Without an argument the bump is chosen interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVersion,
	}
	cmd.Flags().StringP("workspace", "w", ".", "Path to the package to bump")
	cmd.Flags().Bool("git", false, "Commit the changed manifests and create a release tag")
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	pkgDir, _ := cmd.Flags().GetString("workspace")
	useGit, _ := cmd.Flags().GetBool("git")
	yes, _ := cmd.Flags().GetBool("yes")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	// git runs in the workspace root, so every path handed to it is absolute.
	dir, err := workspace.Canonical(pkgDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", pkgDir, err)
	}
	pkgDir = dir
	pkgPath := ctx.PackageManifest(pkgDir)
	pkg, err := manifest.Load(pkgPath)
	if err != nil {
		return err
	}
	if pkg.Name == "" {
		return fmt.Errorf("%s: %w", pkgPath, upgrade.ErrNoPackage)
	}

	kind, prompted, err := resolveBumpKind(pkg, args)
	if err != nil {
		return err
	}
	next, err := release.Bump(pkg.Version, kind)
	if err != nil {
		return err
	}

	if prompted && !yes {
		ok, err := promptConfirm(fmt.Sprintf("Bump %s from %s to %s?", pkg.Name, pkg.Version, next))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	tag := release.FormatTag(ctx.Config.EffectiveTagFormat(), pkg.Name, next)
	if useGit {
		if err := checkTaggable(ctx.Root, tag); err != nil {
			return err
		}
	}

	// Stage dependents before touching any file.
	syncer := upgrade.New(ctx, newLogger(cmd))
	plan, err := syncer.PlanFor(pkgDir, pkg.Name, next)
	if err != nil {
		return err
	}

	total := 2
	if useGit {
		total++
	}
	steps := ui.NewSteps(cmd.OutOrStdout(), total)

	if err := manifest.Save(pkgPath, pkg.WithVersion(next)); err != nil {
		return err
	}
	steps.Done("%s %s => %s", pkg.Name, pkg.Version, next)

	if err := syncer.Apply(plan, steps.Writer()); err != nil {
		return err
	}
	if len(plan.Writes) == 0 {
		steps.Log("no workspace package needs %s%s", ctx.Config.Prefix(), next)
	}
	steps.Done("updated %d dependent package(s)", len(plan.Writes))

	if !useGit {
		return nil
	}
	paths := []string{pkgPath}
	for _, w := range plan.Writes {
		paths = append(paths, w.Path)
	}
	if err := git.Add(ctx.Root, paths...); err != nil {
		return fmt.Errorf("staging manifests: %w", err)
	}
	if err := git.Commit(ctx.Root, tag); err != nil {
		return fmt.Errorf("committing release: %w", err)
	}
	if err := git.Tag(ctx.Root, tag); err != nil {
		return fmt.Errorf("tagging release: %w", err)
	}
	steps.Done("tagged %s", tag)
	return nil
}

// resolveBumpKind returns the bump argument, prompting for it when omitted.
func resolveBumpKind(pkg *manifest.Manifest, args []string) (kind string, prompted bool, err error) {
	if len(args) == 1 {
		return args[0], false, nil
	}
	if !isInteractive() {
		return "", false, fmt.Errorf("usage: shelf version (major | minor | patch | <version>): a bump is required without a TTY")
	}
	kind, err = promptBump(pkg.Name, pkg.Version)
	if err != nil {
		return "", false, err
	}
	return kind, true, nil
}

func checkTaggable(dir, tag string) error {
	if !git.IsRepo(dir) {
		return fmt.Errorf("--git requires %s to be inside a git repository", dir)
	}
	dirty, err := git.IsDirty(dir)
	if err != nil {
		return fmt.Errorf("checking working tree: %w", err)
	}
	if dirty {
		return fmt.Errorf("--git requires a clean working tree in %s", dir)
	}
	exists, err := git.TagExists(dir, tag)
	if err != nil {
		return fmt.Errorf("checking tag %s: %w", tag, err)
	}
	if exists {
		return fmt.Errorf("tag %s already exists", tag)
	}
	return nil
}
