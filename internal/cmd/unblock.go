package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/aggregator"
	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/lifecycle"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/tui"
)

// NewUnblockCommand creates the 'hive unblock <name>' command.
func NewUnblockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <name>",
		Short: "Resolve a blocked drone and resume it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnblock(cmd, args[0])
		},
	}
}

func runUnblock(cmd *cobra.Command, name string) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}

	snapshots, err := aggregator.Scan(root)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "scan drones", err)
	}
	var target *aggregator.Snapshot
	for i := range snapshots {
		if snapshots[i].Name == name {
			target = &snapshots[i]
			break
		}
	}
	if target == nil || target.Status == nil {
		return herr.UserInput(herr.ExitGeneric, "unknown drone %q", name)
	}
	if target.Status.Status != state.StatusBlocked {
		return herr.Precondition(herr.ExitGeneric, "drone %q is not blocked (status=%s)", name, target.Status.Status)
	}

	resolution, err := tui.PromptUnblock(*target)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "read resolution", err)
	}

	userCfg, err := config.LoadUserConfig()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
	}
	engine := lifecycle.New(root, userCfg)
	if err := engine.Unblock(name, resolution); err != nil {
		return err
	}
	presenter(cmd).Info("Unblocked drone %q", name)
	return nil
}
