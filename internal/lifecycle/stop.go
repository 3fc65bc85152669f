package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
)

// Stop implements the Stop orchestration (spec §4.6): resolve pid, invoke
// the escalation sequence, clear the pid file, write "stopped" preserving
// the completed/failed lists. Stopping a non-running drone is a no-op that
// still clears the pid file (idempotence).
func (e *Engine) Stop(ctx context.Context, name string) error {
	return withLock(e.droneDir(name), func() error { return e.stop(ctx, name) })
}

func (e *Engine) stop(ctx context.Context, name string) error {
	store := state.New(e.droneDir(name))

	pid, ok, err := store.ReadPid()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "read pid", err)
	}
	if ok {
		if live, liveErr := supervisor.IsLive(pid, ""); liveErr == nil && !live {
			ok = false
		}
	}
	if !ok {
		if err := store.ClearPid(); err != nil {
			return herr.ExternalIO(herr.ExitGeneric, "clear pid", err)
		}
		return nil
	}
	if ok {
		stopErr := supervisor.Stop(pid, func(step string, waited time.Duration, stillAlive bool) {
			_ = store.AppendActivity(state.Event{
				Kind:    "escalation_step",
				Message: fmt.Sprintf("%s: waited %s, still_alive=%v", step, waited, stillAlive),
			})
		})
		if stopErr != nil {
			return herr.ExternalIO(herr.ExitEscalationFailed, fmt.Sprintf("stop pid %d", pid), stopErr)
		}
	}
	if err := store.ClearPid(); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "clear pid", err)
	}

	st, err := store.LoadStatus()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load status", err)
	}
	st.Status = state.StatusStopped
	st.CurrentTask = ""
	if err := store.StoreStatus(st); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "write stopped status", err)
	}
	return store.AppendActivity(state.Event{Kind: "drone_stopped", Message: "stopped by user"})
}
