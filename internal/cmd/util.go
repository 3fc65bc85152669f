package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/hive/internal/consolelog"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// presenter returns the console logger for the CLI's own status messages
// (spec: "the CLI entry point is the only color emitter"). It writes to
// cmd.OutOrStdout() so tests that capture a command's output still see it.
func presenter(cmd *cobra.Command) *consolelog.Logger {
	return consolelog.New(cmd.OutOrStdout(), "info")
}
