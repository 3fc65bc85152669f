package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/aggregator"
	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/state"
)

// statuslineInput is the single JSON object read from stdin (spec §6
// "Statusline contract").
type statuslineInput struct {
	Workspace    string  `json:"workspace"`
	Model        string  `json:"model"`
	ContextUsage float64 `json:"context_percentage"`
}

// staleCompletedAfter hides a completed drone from the statusline once it
// has been quiet this long (spec §6: "more than one hour old are hidden").
const staleCompletedAfter = time.Hour

// NewStatuslineCommand creates the 'hive statusline' command.
func NewStatuslineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statusline",
		Short: "Emit a one/two-line status string for embedding in a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatusline(cmd)
		},
	}
}

func runStatusline(cmd *cobra.Command) error {
	var input statuslineInput
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&input); err != nil && err != io.EOF {
		return herr.UserInput(herr.ExitGeneric, "parse statusline input: %v", err)
	}

	root, err := statuslineProjectRoot()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatWorkspaceLine(input))
		return nil
	}

	lines := []string{formatWorkspaceLine(input)}
	if droneLine := formatDroneLine(root); droneLine != "" {
		lines = append(lines, droneLine)
	}
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

// statuslineProjectRoot honors CLAUDE_PROJECT_DIR (spec §6) before falling
// back to upward directory search.
func statuslineProjectRoot() (string, error) {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return config.FindProjectRoot(dir)
	}
	return projectRoot()
}

func formatWorkspaceLine(input statuslineInput) string {
	name := color.New(color.FgCyan, color.Bold).Sprint(input.Workspace)
	model := color.New(color.FgWhite).Sprint(input.Model)
	return fmt.Sprintf("%s  %s  ctx %.0f%%", name, model, input.ContextUsage)
}

func formatDroneLine(root string) string {
	snapshots, err := aggregator.Scan(root)
	if err != nil {
		return ""
	}

	active := make([]string, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap.Orphan || snap.Status == nil {
			continue
		}
		if snap.Status.Status == state.StatusCompleted && time.Since(snap.LastActivity) > staleCompletedAfter {
			continue
		}
		active = append(active, fmt.Sprintf("%s:%s", snap.Name, droneColor(snap.StatusText()).Sprint(snap.StatusText())))
	}
	if len(active) == 0 {
		return ""
	}

	line := active[0]
	for _, entry := range active[1:] {
		line += "  " + entry
	}
	return line
}

func droneColor(status string) *color.Color {
	switch state.Status(status) {
	case state.StatusBlocked:
		return color.New(color.FgYellow)
	case state.StatusFailed:
		return color.New(color.FgRed)
	case state.StatusCompleted:
		return color.New(color.FgGreen)
	case state.StatusZombie:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgBlue)
	}
}
