package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
)

// NewProfileCommand creates the 'hive profile {list|add|rm|set-default}' command group.
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named assistant-invocation profiles",
	}
	cmd.AddCommand(newProfileListCommand())
	cmd.AddCommand(newProfileAddCommand())
	cmd.AddCommand(newProfileRmCommand())
	cmd.AddCommand(newProfileSetDefaultCommand())
	return cmd
}

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUserConfig()
			if err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
			}
			names := make([]string, 0, len(cfg.Profiles))
			for name := range config.ListProfiles(cfg) {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p := cfg.Profiles[name]
				marker := ""
				if name == cfg.DefaultProfile {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s: %s %s\n", name, marker, strings.Join(p.Command, " "), p.Description)
			}
			return nil
		},
	}
}

func newProfileAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <name> <command...>",
		Short: "Add or redefine a named profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUserConfig()
			if err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
			}
			if err := config.AddProfile(cfg, args[0], config.Profile{
				Command:     args[1:],
				Description: description,
			}); err != nil {
				return herr.UserInput(herr.ExitGeneric, "%v", err)
			}
			if err := config.SaveUserConfig(cfg); err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "save user config", err)
			}
			presenter(cmd).Info("Saved profile %q", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Human-readable description")
	return cmd
}

func newProfileRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a named profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUserConfig()
			if err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
			}
			if err := config.RemoveProfile(cfg, args[0]); err != nil {
				return herr.UserInput(herr.ExitGeneric, "%v", err)
			}
			if err := config.SaveUserConfig(cfg); err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "save user config", err)
			}
			presenter(cmd).Info("Removed profile %q", args[0])
			return nil
		},
	}
}

func newProfileSetDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <name>",
		Short: "Set which profile new drones use by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUserConfig()
			if err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
			}
			if err := config.SetDefaultProfile(cfg, args[0]); err != nil {
				return herr.UserInput(herr.ExitGeneric, "%v", err)
			}
			if err := config.SaveUserConfig(cfg); err != nil {
				return herr.ExternalIO(herr.ExitGeneric, "save user config", err)
			}
			presenter(cmd).Info("Default profile set to %q", args[0])
			return nil
		},
	}
}
