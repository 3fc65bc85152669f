package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

// Repo binds a Runner to the repository root it operates against.
type Repo struct {
	Runner Runner
	Root   string
}

// New returns a Repo using a real ExecRunner.
func New(root string) *Repo {
	return &Repo{Runner: ExecRunner{}, Root: root}
}

// DetectBaseBranch probes "main", "master", "develop" in that order (spec
// §4.3 Algorithm for create, step 1) and returns the first that exists
// locally.
func (r *Repo) DetectBaseBranch(ctx context.Context) (string, error) {
	for _, candidate := range []string{"main", "master", "develop"} {
		ok, err := r.BranchExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no base branch found (tried main, master, develop)")
}

// BranchExists reports whether a local branch with the given name exists.
func (r *Repo) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := r.Runner.Run(ctx, r.Root, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil, nil
}

// RemoteBranchExists reports whether a branch with the given name exists on
// the "origin" remote.
func (r *Repo) RemoteBranchExists(ctx context.Context, branch string) (bool, error) {
	out, err := r.Runner.Run(ctx, r.Root, "ls-remote", "--heads", "origin", branch)
	if err != nil {
		// No configured remote, or network failure: treat as "doesn't exist"
		// rather than failing worktree creation outright.
		return false, nil
	}
	return strings.TrimSpace(out) != "", nil
}

// AddWorktree materializes a new working copy at path on a new branch
// derived from base (spec §4.3 Algorithm for create, step 3).
func (r *Repo) AddWorktree(ctx context.Context, path, newBranch, base string) error {
	_, err := r.Runner.Run(ctx, r.Root, "worktree", "add", "-b", newBranch, path, base)
	return err
}

// AddWorktreeExistingBranch attaches a worktree to an already-existing
// branch, used by ensure_reusable when the worktree directory itself is
// missing but the branch still exists.
func (r *Repo) AddWorktreeExistingBranch(ctx context.Context, path, branch string) error {
	_, err := r.Runner.Run(ctx, r.Root, "worktree", "add", path, branch)
	return err
}

// RemoveWorktree removes the working copy at path. force bypasses git's
// "dirty working tree" guard, used by clean --force.
func (r *Repo) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := r.Runner.Run(ctx, r.Root, args...)
	return err
}

// PruneWorktrees removes stale worktree administrative files after a
// partially-deleted filesystem state (spec §4.3 remove: "resilient to a
// partially deleted filesystem state").
func (r *Repo) PruneWorktrees(ctx context.Context) error {
	_, err := r.Runner.Run(ctx, r.Root, "worktree", "prune")
	return err
}

// DeleteBranch best-effort deletes a local branch.
func (r *Repo) DeleteBranch(ctx context.Context, branch string) error {
	_, err := r.Runner.Run(ctx, r.Root, "branch", "-D", branch)
	return err
}

// CurrentBranch returns the checked-out branch name at worktreePath.
func (r *Repo) CurrentBranch(ctx context.Context, worktreePath string) (string, error) {
	out, err := r.Runner.Run(ctx, worktreePath, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsClean reports whether worktreePath has no uncommitted changes.
func (r *Repo) IsClean(ctx context.Context, worktreePath string) (bool, error) {
	out, err := r.Runner.Run(ctx, worktreePath, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}
