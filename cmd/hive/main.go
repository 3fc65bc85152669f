// Package main provides the CLI entry point for the hive application.
package main

import (
	"os"

	"github.com/harrison/hive/internal/cmd"
	"github.com/harrison/hive/internal/consolelog"
	"github.com/harrison/hive/internal/herr"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		consolelog.New(os.Stderr, "error").Error("%v", err)
		os.Exit(herr.Code(err))
	}
}
