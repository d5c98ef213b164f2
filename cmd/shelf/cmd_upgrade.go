package main

import (
	"github.com/fbkclanna/shelf/internal/upgrade"
	"github.com/fbkclanna/shelf/internal/workspace"
	"github.com/spf13/cobra"
)

func newUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade <package_path>",
		Short: "Point workspace dependents of a package at its current version",
		Long: `For every workspace package that depends on the package in <package_path>,
set the dependency constraint to ^<version>, where <version> is the version in
that package's manifest. <package_path> is relative to the current directory.

Every member manifest is read before the first one is written, so a missing or
malformed manifest leaves the workspace untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpgrade,
	}
	cmd.Flags().Bool("dry-run", false, "Print the changes without writing any manifest")
	return cmd
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	syncer := upgrade.New(ctx, newLogger(cmd))
	plan, err := syncer.Plan(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		upgrade.Preview(plan, out)
		return nil
	}
	return syncer.Apply(plan, out)
}
