package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/aggregator"
	"github.com/harrison/hive/internal/tui"
)

// NewStatusCommand creates the 'hive status' command, aliased as 'list'
// (spec §6: "status / list").
func NewStatusCommand() *cobra.Command {
	var interactive, follow bool
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"list"},
		Short:   "Show drones and their progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, interactive, follow)
		},
	}
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Open the interactive TUI dashboard")
	cmd.Flags().BoolVar(&follow, "follow", false, "Re-render the table every second until interrupted")
	return cmd
}

func runStatus(cmd *cobra.Command, interactive, follow bool) error {
	root, err := projectRoot()
	if err != nil {
		return fmt.Errorf("find project root: %w", err)
	}

	if interactive {
		app := tui.NewApp(root)
		return app.Run(cmd.Context())
	}

	if !follow {
		return printStatusTable(cmd, root)
	}

	ctx := cmd.Context()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		if err := printStatusTable(cmd, root); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printStatusTable(cmd *cobra.Command, root string) error {
	snapshots, err := aggregator.Scan(root)
	if err != nil {
		return fmt.Errorf("scan drones: %w", err)
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No drones found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tPROGRESS\tCURRENT TASK\tRUNNING FOR")
	for _, snap := range snapshots {
		if snap.Orphan {
			fmt.Fprintf(w, "%s\tORPHAN\t-\t-\t-\n", snap.Name)
			continue
		}
		progress := fmt.Sprintf("%d/%d", len(snap.Status.Completed), snap.Status.Total)
		running := "-"
		if snap.RunningDuration > 0 {
			running = snap.RunningDuration.Round(time.Second).String()
		}
		current := snap.Status.CurrentTask
		if current == "" {
			current = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", snap.Name, snap.StatusText(), progress, current, running)
	}
	return w.Flush()
}
