package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/lifecycle"
)

// NewStopCommand creates the 'hive stop <name>' command. "kill" is
// registered as a hidden alias (Open Question decision, DESIGN.md: stop is
// canonical, kill forwards to the same command).
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stop <name>",
		Aliases: []string{"kill"},
		Short:   "Gracefully stop a drone",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd, args[0])
		},
	}
	return cmd
}

func runStop(cmd *cobra.Command, name string) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}
	userCfg, err := config.LoadUserConfig()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
	}

	engine := lifecycle.New(root, userCfg)
	if err := engine.Stop(cmd.Context(), name); err != nil {
		return err
	}
	presenter(cmd).Info("Stopped drone %q", name)
	return nil
}
