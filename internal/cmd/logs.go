package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/stream"
)

// NewLogsCommand creates the 'hive logs <name> [task_id]' command.
func NewLogsCommand() *cobra.Command {
	var follow, raw bool
	var attempt int
	cmd := &cobra.Command{
		Use:   "logs <name> [task_id]",
		Short: "Read a drone's activity.log, or one task's attempt log",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			taskID := ""
			if len(args) == 2 {
				taskID = args[1]
			}
			return runLogs(cmd, name, taskID, attempt, follow, raw)
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep tailing as new lines are appended")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print lines exactly as written, skipping any formatting")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Attempt number for a task's log (default: the latest attempt)")
	return cmd
}

func runLogs(cmd *cobra.Command, name, taskID string, attempt int, follow, raw bool) error {
	root, err := projectRoot()
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "find project root: %v", err)
	}

	path, err := resolveLogPath(root, name, taskID, attempt)
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "%v", err)
	}

	if !follow {
		return printLogOnce(cmd, path, raw)
	}
	return followLog(cmd, path, raw)
}

func resolveLogPath(root, name, taskID string, attempt int) (string, error) {
	if taskID == "" {
		path := filepath.Join(config.DroneDir(root, name), "activity.log")
		if !fileExists(path) {
			return "", fmt.Errorf("no activity log for drone %q", name)
		}
		return path, nil
	}

	records, err := stream.ReadAttempts(root, name)
	if err != nil {
		return "", fmt.Errorf("read attempts for %q: %w", name, err)
	}

	var best *stream.AttemptRecord
	for i := range records {
		r := records[i]
		if r.TaskID != taskID {
			continue
		}
		if attempt != 0 {
			if r.Attempt == attempt {
				best = &r
				break
			}
			continue
		}
		if best == nil || r.Attempt > best.Attempt {
			best = &r
		}
	}
	if best == nil {
		return "", fmt.Errorf("no attempt log found for task %q", taskID)
	}
	return best.LogPath, nil
}

func printLogOnce(cmd *cobra.Command, path string, raw bool) error {
	f, err := os.Open(path)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "open log", err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(out, formatLogLine(scanner.Text(), raw))
	}
	return scanner.Err()
}

func followLog(cmd *cobra.Command, path string, raw bool) error {
	tailer := stream.NewTailer(path)
	for line := range tailer.Lines(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), formatLogLine(line, raw))
	}
	return nil
}

// formatLogLine renders one wire-format event line (spec §6: "{ type:
// <kind>, …fields }") as "[kind] detail" for readability, falling back to
// the raw line for activity.log text or anything that doesn't parse.
func formatLogLine(line string, raw bool) string {
	if raw {
		return line
	}
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(line), &envelope); err != nil || envelope.Type == "" {
		return line
	}
	return fmt.Sprintf("[%s] %s", envelope.Type, line)
}
