package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/lifecycle"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
)

// NewCleanCommand creates the 'hive clean <name>' command.
func NewCleanCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clean <name>",
		Short: "Stop a drone, remove its worktree, and remove its drone directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, args[0], force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt for a live drone")
	return cmd
}

func runClean(cmd *cobra.Command, name string, force bool) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}
	userCfg, err := config.LoadUserConfig()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
	}

	if !force {
		store := state.New(config.DroneDir(root, name))
		if pid, ok, err := store.ReadPid(); err == nil && ok {
			if live, _ := supervisor.IsLive(pid, ""); live {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Drone %q is still running; stop it and remove its worktree?", name),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return herr.ExternalIO(herr.ExitGeneric, "read confirmation", err)
				}
				if !confirmed {
					return herr.Precondition(herr.ExitGeneric, "aborted: drone %q was not cleaned", name)
				}
			}
		}
	}

	engine := lifecycle.New(root, userCfg)
	if err := engine.Clean(cmd.Context(), name, force); err != nil {
		return err
	}
	presenter(cmd).Info("Cleaned drone %q", name)
	return nil
}
