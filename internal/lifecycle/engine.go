// Package lifecycle implements the Lifecycle Engine (spec §4.6): the state
// machine driving start, stop, clean, and unblock for a single drone.
// Transitions here are the only supervisor-side writes to a drone's status.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/dirlock"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/plan"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
	"github.com/harrison/hive/internal/worktree"
)

// Engine orchestrates the Worktree Manager, State Store, and Process
// Supervisor for one project.
type Engine struct {
	ProjectRoot string
	UserConfig  *config.UserConfig
	Worktree    *worktree.Manager
}

// New builds an Engine rooted at projectRoot.
func New(projectRoot string, userCfg *config.UserConfig) *Engine {
	return &Engine{
		ProjectRoot: projectRoot,
		UserConfig:  userCfg,
		Worktree:    worktree.New(projectRoot),
	}
}

func (e *Engine) droneDir(name string) string {
	return config.DroneDir(e.ProjectRoot, name)
}

// StartOptions configures a Start invocation.
type StartOptions struct {
	Name         string
	PlanPath     string
	BaseBranch   string // optional override
	TargetBranch string // optional override; defaults to "hive/{name}"
	ProfileName  string // optional override; defaults to the configured default
	Model        string

	// Local skips worktree isolation entirely (spec §6 "start --local (no
	// worktree)"): the drone runs directly in the project's working tree.
	Local bool

	// DryRun validates the plan and profile, materializes the worktree, and
	// writes the initial status record and drone_created event exactly as a
	// real start would, but stops short of asking the Supervisor to spawn
	// anything — so no pid is ever recorded (spec §6 "start --dry-run",
	// spec §8 Scenario S1).
	DryRun bool
}

// withLock acquires the drone's directory lock for the duration of fn,
// translating contention into the documented "busy" outcome rather than
// blocking (spec §4.6 idempotence note).
func withLock(droneDir string, fn func() error) error {
	if err := os.MkdirAll(droneDir, 0o755); err != nil {
		return fmt.Errorf("create drone directory: %w", err)
	}
	release, err := dirlock.New(droneDir).TryAcquire()
	if err != nil {
		if err == dirlock.ErrBusy {
			return herr.Precondition(herr.ExitGeneric, "drone is busy with another operation")
		}
		return herr.ExternalIO(herr.ExitGeneric, "acquire drone lock", err)
	}
	defer release()
	return fn()
}

// Start implements the Start orchestration (spec §4.6):
//  1. load plan, fail early on validation errors
//  2. create or ensure_reusable the worktree
//  3. write an initial "starting" status record
//  4. spawn via the supervisor, recording the pid
//  5. return immediately
//
// --dry-run stops after step 3 (spec §8 Scenario S1): every prior step,
// including the worktree and status record, still happens for real.
func (e *Engine) Start(ctx context.Context, opts StartOptions) error {
	return withLock(e.droneDir(opts.Name), func() error { return e.start(ctx, opts) })
}

func (e *Engine) start(ctx context.Context, opts StartOptions) error {
	p, err := plan.Load(opts.PlanPath)
	if err != nil {
		return herr.ExternalIO(herr.ExitPlanInvalid, "load plan "+opts.PlanPath, err)
	}

	targetBranch := opts.TargetBranch
	if targetBranch == "" {
		targetBranch = "hive/" + opts.Name
	}
	if p.TargetBranch != "" && opts.TargetBranch == "" {
		targetBranch = p.TargetBranch
	}
	baseBranch := opts.BaseBranch
	if baseBranch == "" {
		baseBranch = p.BaseBranch
	}

	if _, _, err := config.ResolveProfile(e.UserConfig, opts.ProfileName); err != nil {
		return herr.UserInput(herr.ExitGeneric, "resolve profile: %v", err)
	}

	store := state.New(e.droneDir(opts.Name))

	// A bare "start" on a blocked drone is treated as resume (Open Question
	// decision, DESIGN.md): the blocked_reason carries forward until the
	// child itself clears it, and prior progress is preserved.
	previous, loadErr := store.LoadStatus()
	wasBlocked := loadErr == nil && previous.Status == state.StatusBlocked

	var worktreePath string
	var resuming bool
	if opts.Local {
		// --local skips worktree isolation entirely: the drone runs
		// directly in the project's own working tree.
		worktreePath = e.ProjectRoot
		if wasBlocked {
			pid, ok, pidErr := store.ReadPid()
			if pidErr == nil && ok {
				if live, _ := supervisor.IsLive(pid, ""); live {
					return herr.Precondition(herr.ExitAlreadyRunning, "drone %q is still running", opts.Name)
				}
			}
			resuming = true
		}
	} else {
		projectName, err := e.projectName()
		if err != nil {
			return err
		}
		worktreeBase, err := config.WorktreeBaseOrDefault(e.UserConfig)
		if err != nil {
			return herr.ExternalIO(herr.ExitGeneric, "resolve worktree base", err)
		}
		worktreePath = config.WorktreePath(worktreeBase, projectName, opts.Name)

		if wasBlocked {
			outcome, reuseErr := e.Worktree.EnsureReusable(ctx, worktreePath, targetBranch, func() (bool, error) {
				pid, ok, err := store.ReadPid()
				if err != nil || !ok {
					return false, err
				}
				return supervisor.IsLive(pid, "")
			})
			if reuseErr != nil {
				return herr.Precondition(herr.ExitGeneric, "resume blocked drone: %v", reuseErr)
			}
			resuming = outcome == worktree.ResumedExisting
		} else {
			resuming, err = e.materializeWorktree(ctx, store, worktreePath, baseBranch, targetBranch)
			if err != nil {
				return err
			}
		}
	}

	profileName, profile, err := config.ResolveProfile(e.UserConfig, opts.ProfileName)
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "resolve profile: %v", err)
	}

	now := time.Now()
	status := &state.DroneStatus{
		Status:       state.StatusStarting,
		Total:        len(p.Tasks),
		PlanRef:      opts.PlanPath,
		WorktreePath: worktreePath,
		Branch:       targetBranch,
		BaseBranch:   baseBranch,
		Profile:      profileName,
		Model:        opts.Model,
		CreatedAt:    now,
		StartedAt:    now,
	}
	if resuming || wasBlocked {
		status.Status = state.StatusResuming
		status.LastResumedAt = now
	}
	if wasBlocked {
		status.CreatedAt = previous.CreatedAt
		status.Completed = previous.Completed
		status.Failed = previous.Failed
		status.LastBlockedReason = previous.BlockedReason
	}
	if err := store.StoreStatus(status); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "write initial status", err)
	}

	// --dry-run (spec §6) stops here, after the plan/profile have been
	// validated and the initial "starting" status record and drone_created
	// event are in place, but before the Supervisor is asked to spawn
	// anything: no pid is ever recorded (spec §8 Scenario S1).
	if opts.DryRun {
		return store.AppendActivity(state.Event{Kind: "drone_created", Message: "dry run: spawn suppressed"})
	}

	logFile, err := os.OpenFile(store.DroneLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "open drone log", err)
	}
	defer logFile.Close()

	handle, err := supervisor.Spawn(ctx, supervisor.SpawnConfig{
		Command:   profile.Command,
		WorkDir:   worktreePath,
		DroneName: opts.Name,
		DroneDir:  e.droneDir(opts.Name),
		PlanPath:  opts.PlanPath,
		Resuming:  resuming,
		Output:    logFile,
	})
	if err != nil {
		status.Status = state.StatusFailed
		_ = store.StoreStatus(status)
		_ = store.AppendActivity(state.Event{Kind: "spawn_failed", Message: err.Error()})
		return herr.ExternalIO(herr.ExitSpawnFailed, "spawn assistant", err)
	}

	if err := store.WritePid(handle.PID); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "record pid", err)
	}
	return store.AppendActivity(state.Event{Kind: "drone_created", Message: fmt.Sprintf("pid %d", handle.PID)})
}

// materializeWorktree runs the worktree create-or-reuse decision from spec
// §4.3: create fresh; on branch collision, fall through to ensure_reusable.
func (e *Engine) materializeWorktree(ctx context.Context, store *state.Store, worktreePath, baseBranch, targetBranch string) (resuming bool, err error) {
	createErr := e.Worktree.Create(ctx, worktreePath, baseBranch, targetBranch)
	if createErr == nil {
		return false, nil
	}
	if createErr != worktree.ErrBranchExists {
		return false, herr.ExternalIO(herr.ExitGeneric, "create worktree "+worktreePath, createErr)
	}

	outcome, reuseErr := e.Worktree.EnsureReusable(ctx, worktreePath, targetBranch, func() (bool, error) {
		pid, ok, err := store.ReadPid()
		if err != nil || !ok {
			return false, err
		}
		return supervisor.IsLive(pid, "")
	})
	if reuseErr != nil {
		var re *worktree.ReuseError
		if ok := asReuseError(reuseErr, &re); ok && re.Reason == worktree.ReasonRunning {
			return false, herr.Precondition(herr.ExitAlreadyRunning, "drone %q: %v", targetBranch, reuseErr)
		}
		return false, herr.Precondition(herr.ExitGeneric, "reuse worktree: %v", reuseErr)
	}
	return outcome == worktree.ResumedExisting, nil
}

func asReuseError(err error, target **worktree.ReuseError) bool {
	re, ok := err.(*worktree.ReuseError)
	if ok {
		*target = re
	}
	return ok
}

func (e *Engine) projectName() (string, error) {
	cfg, err := config.LoadProjectConfig(e.ProjectRoot)
	if err != nil {
		return "", herr.ExternalIO(herr.ExitGeneric, "load project config", err)
	}
	return cfg.Name, nil
}
