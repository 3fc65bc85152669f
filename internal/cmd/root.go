// Package cmd wires the hive CLI surface (spec §6): one cobra command per
// row of the external-interfaces table, translating lifecycle/aggregator/
// stream results into terminal output and herr-classified exit codes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for hive.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hive",
		Short:   "Local orchestration layer for autonomous coding-agent drones",
		Version: Version,
		Long: `Hive supervises many autonomous coding-agent "drones", each running a
vendor coding assistant as a child process in its own isolated git worktree,
executing a structured plan and reporting progress through a file-based
status protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewStopCommand())
	cmd.AddCommand(NewCleanCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewLogsCommand())
	cmd.AddCommand(NewUnblockCommand())
	cmd.AddCommand(NewProfileCommand())
	cmd.AddCommand(NewSessionsCommand())
	cmd.AddCommand(NewStatuslineCommand())

	return cmd
}

// projectRoot resolves the .hive project root from the current working
// directory, the one piece of context nearly every subcommand needs first.
func projectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return config.FindProjectRoot(wd)
}
