// Package worktree implements the Worktree Manager (spec §4.3): creating,
// reusing, and removing the isolated git working copies drones execute in.
package worktree

import (
	"context"
	"fmt"
	"os"

	"github.com/harrison/hive/internal/gitrepo"
)

// ReuseOutcome reports whether EnsureReusable materialized a fresh worktree
// or attached to one that already existed on the target branch.
type ReuseOutcome int

const (
	Fresh ReuseOutcome = iota
	ResumedExisting
)

// Manager creates, lists, reuses, and removes drone worktrees.
type Manager struct {
	Repo *gitrepo.Repo
}

// New returns a Manager bound to the repository at projectRoot.
func New(projectRoot string) *Manager {
	return &Manager{Repo: gitrepo.New(projectRoot)}
}

// Create materializes a new isolated working copy at worktreePath on a new
// branch derived from baseBranch (spec §4.3 Algorithm for create).
//
// If targetBranch already exists locally or on the "origin" remote, Create
// returns ErrBranchExists so the caller can fall through to EnsureReusable,
// per the algorithm.
func (m *Manager) Create(ctx context.Context, worktreePath, baseBranch, targetBranch string) error {
	base := baseBranch
	if base == "" {
		detected, err := m.Repo.DetectBaseBranch(ctx)
		if err != nil {
			return fmt.Errorf("resolve base branch: %w", err)
		}
		base = detected
	} else {
		ok, err := m.Repo.BranchExists(ctx, base)
		if err != nil {
			return fmt.Errorf("check base branch %s: %w", base, err)
		}
		if !ok {
			return fmt.Errorf("base branch %q does not exist", base)
		}
	}

	localExists, err := m.Repo.BranchExists(ctx, targetBranch)
	if err != nil {
		return fmt.Errorf("check target branch %s: %w", targetBranch, err)
	}
	remoteExists, err := m.Repo.RemoteBranchExists(ctx, targetBranch)
	if err != nil {
		return fmt.Errorf("check remote target branch %s: %w", targetBranch, err)
	}
	if localExists || remoteExists {
		return ErrBranchExists
	}

	if err := m.Repo.AddWorktree(ctx, worktreePath, targetBranch, base); err != nil {
		return fmt.Errorf("create worktree at %s: %w", worktreePath, err)
	}
	return nil
}

// ErrBranchExists signals Create should fall through to EnsureReusable.
var ErrBranchExists = fmt.Errorf("target branch already exists")

// ReuseReason explains why EnsureReusable refused to reuse a worktree.
type ReuseReason string

const (
	ReasonBranchMismatch ReuseReason = "branch mismatch"
	ReasonRunning        ReuseReason = "another process is running in this worktree"
	ReasonDirty          ReuseReason = "worktree has uncommitted changes"
)

// ReuseError carries a structured reason (spec §4.3: "Otherwise fail with a
// structured reason").
type ReuseError struct {
	Reason ReuseReason
}

func (e *ReuseError) Error() string { return string(e.Reason) }

// EnsureReusable implements the Algorithm for ensure_reusable (spec §4.3):
// reuse the worktree at worktreePath if it exists, is on targetBranch, no
// live process is recorded against it, and it carries no dirty state that
// would trap writes. isLive reports whether a process is currently
// supervising this drone; the caller supplies it because liveness spans
// both the state store and the process supervisor, outside worktree's
// concerns.
func (m *Manager) EnsureReusable(ctx context.Context, worktreePath, targetBranch string, isLive func() (bool, error)) (ReuseOutcome, error) {
	if _, err := os.Stat(worktreePath); os.IsNotExist(err) {
		return Fresh, fmt.Errorf("worktree %s does not exist", worktreePath)
	}

	branch, err := m.Repo.CurrentBranch(ctx, worktreePath)
	if err != nil {
		return Fresh, fmt.Errorf("read current branch at %s: %w", worktreePath, err)
	}
	if branch != targetBranch {
		return Fresh, &ReuseError{Reason: ReasonBranchMismatch}
	}

	live, err := isLive()
	if err != nil {
		return Fresh, fmt.Errorf("check liveness: %w", err)
	}
	if live {
		return Fresh, &ReuseError{Reason: ReasonRunning}
	}

	clean, err := m.Repo.IsClean(ctx, worktreePath)
	if err != nil {
		return Fresh, fmt.Errorf("check worktree cleanliness at %s: %w", worktreePath, err)
	}
	if !clean {
		return Fresh, &ReuseError{Reason: ReasonDirty}
	}

	return ResumedExisting, nil
}

// Exists reports whether a worktree directory exists at path.
func (m *Manager) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Remove deletes the working copy and, best-effort, its branch. It is
// resilient to a partially deleted filesystem state (spec §4.3).
func (m *Manager) Remove(ctx context.Context, worktreePath, branch string, force bool) error {
	if m.Exists(worktreePath) {
		if err := m.Repo.RemoveWorktree(ctx, worktreePath, force); err != nil {
			// The worktree directory may already be half gone; prune the
			// administrative state and continue rather than failing clean.
			_ = m.Repo.PruneWorktrees(ctx)
		}
	} else {
		_ = m.Repo.PruneWorktrees(ctx)
	}
	if os.RemoveAll(worktreePath) != nil {
		// best-effort: worktree remove above should have handled this
	}
	if branch != "" {
		_ = m.Repo.DeleteBranch(ctx, branch) // best-effort per spec §4.3
	}
	return nil
}
