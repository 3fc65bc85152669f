package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/aggregator"
	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/stream"
)

// NewSessionsCommand creates the 'hive sessions [name]' command: with no
// argument it lists every drone's captured transcript, with a drone name it
// prints that transcript turn by turn (spec §4.8 load_session_transcript).
func NewSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [name]",
		Short: "Browse captured session transcripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listSessions(cmd)
			}
			return showSession(cmd, args[0])
		},
	}
}

func listSessions(cmd *cobra.Command) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}
	snapshots, err := aggregator.Scan(root)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "scan drones", err)
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found")
		return nil
	}
	for _, snap := range snapshots {
		if snap.Orphan {
			continue
		}
		path := state.New(config.DroneDir(root, snap.Name)).DroneLogPath()
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", snap.Name, path)
	}
	return nil
}

func showSession(cmd *cobra.Command, name string) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}
	snapshots, err := aggregator.Scan(root)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "scan drones", err)
	}
	found := false
	for _, snap := range snapshots {
		if snap.Name == name {
			found = true
			break
		}
	}
	path := state.New(config.DroneDir(root, name)).DroneLogPath()
	if !found {
		return herr.UserInput(herr.ExitGeneric, "unknown drone %q", name)
	}

	turns, err := stream.LoadSessionTranscript(path)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load session transcript", err)
	}
	out := cmd.OutOrStdout()
	for _, turn := range turns {
		fmt.Fprintf(out, "[%s] %s\n", turn.Kind, summarizeTurn(turn))
	}
	return nil
}

func summarizeTurn(t stream.Turn) string {
	switch {
	case t.SystemInit != nil:
		return fmt.Sprintf("session %s model=%s cwd=%s", t.SystemInit.SessionID, t.SystemInit.Model, t.SystemInit.Cwd)
	case t.Assistant != nil:
		return t.Assistant.Text
	case t.User != nil:
		return t.User.Text
	case t.ToolUse != nil:
		return fmt.Sprintf("%s(%s)", t.ToolUse.Name, string(t.ToolUse.Input))
	case t.ToolResult != nil:
		return t.ToolResult.Content
	case t.Result != nil:
		return fmt.Sprintf("%s: %s", t.Result.Subtype, t.Result.Result)
	case t.Usage != nil:
		return fmt.Sprintf("in=%d out=%d cost=$%.4f", t.Usage.InputTokens, t.Usage.OutputTokens, t.Usage.CostUSD)
	default:
		return string(t.Raw)
	}
}
