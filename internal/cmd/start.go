package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/lifecycle"
)

// NewStartCommand creates the 'hive start <name>' command.
func NewStartCommand() *cobra.Command {
	var model, profile string
	var local, dryRun bool

	cmd := &cobra.Command{
		Use:   "start <name>",
		Short: "Launch a drone from plans/<name>.*",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args[0], model, profile, local, dryRun)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model identifier passed through to the assistant invocation")
	cmd.Flags().StringVar(&profile, "profile", "", "Named profile to invoke (default: the configured default profile)")
	cmd.Flags().BoolVar(&local, "local", false, "Run the drone directly in the project working tree, skipping worktree isolation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the plan and profile without spawning anything")

	return cmd
}

func runStart(cmd *cobra.Command, name, model, profile string, local, dryRun bool) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}

	userCfg, err := config.LoadUserConfig()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load user config", err)
	}

	planPath, err := resolvePlanPath(root, name)
	if err != nil {
		return herr.UserInput(herr.ExitPlanInvalid, "%v", err)
	}

	engine := lifecycle.New(root, userCfg)
	err = engine.Start(cmd.Context(), lifecycle.StartOptions{
		Name:        name,
		PlanPath:    planPath,
		ProfileName: profile,
		Model:       model,
		Local:       local,
		DryRun:      dryRun,
	})
	if err != nil {
		return err
	}

	if dryRun {
		presenter(cmd).Info("Plan %s is valid; dry run only, no drone spawned.", planPath)
		return nil
	}
	presenter(cmd).Info("Started drone %q from %s", name, planPath)
	return nil
}

// resolvePlanPath looks for plans/<name>.md then plans/<name>.json under the
// project's plans directory (spec §6: "launch drone on plans/<name>.*").
func resolvePlanPath(root, name string) (string, error) {
	for _, ext := range []string{".md", ".json"} {
		candidate := filepath.Join(config.PlansDir(root), name+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no plan found for %q under %s (expected %s.md or %s.json)", name, config.PlansDir(root), name, name)
}
