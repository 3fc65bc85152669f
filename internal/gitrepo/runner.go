// Package gitrepo wraps the git command-line invocations the Worktree
// Manager (spec §4.3) needs, behind a small interface so tests can
// substitute a fake runner instead of shelling out.
package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts git command execution for testability, the same pattern
// the reference project's executor.CommandRunner uses for its own git
// checkpointing commands.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs real git commands via os/exec.
type ExecRunner struct{}

// Run executes "git <args...>" with cwd set to dir and returns combined
// stdout+stderr, trimmed.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, output)
	}
	return output, nil
}
