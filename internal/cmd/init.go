package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
)

// NewInitCommand creates the 'hive init' command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the .hive/ directory structure in the current repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}
}

func runInit(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "resolve working directory", err)
	}

	name := filepath.Base(wd)
	if err := config.InitProject(wd, name); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "initialize project", err)
	}

	presenter(cmd).Info("Initialized hive project %q in %s", name, config.HiveDir(wd))
	return nil
}
