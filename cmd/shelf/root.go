package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Keep sibling package versions in a workspace in step",
		Long: `shelf manages version constraints between the packages of a workspace.
The workspace root is the directory whose package.json lists the member
packages under "workspaces".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory (holds the root package.json)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log skipped packages and written files to stderr")

	cmd.AddCommand(
		newUpgradeCmd(),
		newVersionCmd(),
		newListCmd(),
	)

	return cmd
}

// newLogger returns the diagnostic logger for a command. Diagnostics go to
// stderr so that stdout only carries command output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
