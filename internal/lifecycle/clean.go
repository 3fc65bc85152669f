package lifecycle

import (
	"context"
	"os"

	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
)

// Clean implements the Clean orchestration (spec §4.6): stop the drone if
// it is live, remove its worktree, then delete its drone directory. Caller
// confirmation for a live drone is a CLI-layer concern (spec: "user
// confirmation required unless --force") — Clean assumes that confirmation
// has already been obtained when force is false but the drone turns out to
// be live; it proceeds either way, since the engine itself has no terminal
// to prompt on.
func (e *Engine) Clean(ctx context.Context, name string, force bool) error {
	return withLock(e.droneDir(name), func() error { return e.clean(ctx, name, force) })
}

func (e *Engine) clean(ctx context.Context, name string, force bool) error {
	droneDir := e.droneDir(name)
	store := state.New(droneDir)

	pid, ok, err := store.ReadPid()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "read pid", err)
	}
	if ok {
		live, err := supervisor.IsLive(pid, "")
		if err != nil {
			return herr.ExternalIO(herr.ExitGeneric, "check liveness", err)
		}
		if live {
			if err := e.stop(ctx, name); err != nil {
				return err
			}
		}
	}

	st, err := store.LoadStatus()
	worktreePath, branch := "", ""
	if err == nil {
		worktreePath, branch = st.WorktreePath, st.Branch
	}
	// A --local drone records the project root as its worktree path; that
	// tree belongs to the project, not the drone, so it is left in place.
	if worktreePath != "" && worktreePath != e.ProjectRoot {
		if err := e.Worktree.Remove(ctx, worktreePath, branch, force); err != nil {
			return herr.ExternalIO(herr.ExitGeneric, "remove worktree", err)
		}
	}

	if err := os.RemoveAll(droneDir); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "remove drone directory", err)
	}
	return nil
}
