package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
)

// execCommand runs c against args, capturing stdout, and returns the
// captured output alongside the error RunE produced.
func execCommand(t *testing.T, c *cobra.Command, args []string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetArgs(args)
	err := c.Execute()
	return buf.String(), err
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

// initProject creates a fresh git repository with an initialized hive
// project and chdirs the test into it.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "drone@example.com")
	runGit(t, dir, "config", "user.name", "drone")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")
	require.NoError(t, config.InitProject(dir, "demo"))
	t.Chdir(dir)
	return dir
}

func writeDemoPlan(t *testing.T, projectRoot, name string) {
	t.Helper()
	content := `# Demo

## Goal

hello

## Tasks

### 1. Setup

- type: setup

Set up.

### 2. PR

- type: pr

Open the PR.

## Definition of Done

- [ ] done
`
	path := filepath.Join(config.PlansDir(projectRoot), name+".md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
