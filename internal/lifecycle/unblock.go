package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/herr"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
)

// resolutionFileName is the marker the resumed child reads to learn how its
// block was resolved (spec §4.6 Unblock orchestration).
const resolutionFileName = "resolution"

// Unblock implements the Unblock orchestration (spec §4.6): for a drone in
// "blocked", persist the user's resolution text into the drone directory
// and transition back to "resuming", then respawn with the resume hint.
// Collecting the resolution text from the user is an external interactive
// concern (spec: "collect user input (external interactive flow)") handled
// by the caller (internal/tui's unblock workflow); Unblock itself only
// takes the already-collected text.
func (e *Engine) Unblock(name, resolution string) error {
	return withLock(e.droneDir(name), func() error { return e.unblock(name, resolution) })
}

func (e *Engine) unblock(name, resolution string) error {
	droneDir := e.droneDir(name)
	store := state.New(droneDir)

	st, err := store.LoadStatus()
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "load status", err)
	}
	if st.Status != state.StatusBlocked {
		return herr.Precondition(herr.ExitGeneric, "drone %q is not blocked (status=%s)", name, st.Status)
	}

	if err := os.WriteFile(filepath.Join(droneDir, resolutionFileName), []byte(resolution), 0o644); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "write resolution marker", err)
	}

	blockedReason := st.BlockedReason
	st.Status = state.StatusResuming
	st.BlockedReason = ""
	st.LastBlockedReason = blockedReason
	st.LastResumedAt = time.Now()
	if err := store.StoreStatus(st); err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "write resuming status", err)
	}
	if err := store.AppendActivity(state.Event{
		Kind:    "unblocked",
		Message: fmt.Sprintf("resolved %q with: %s", blockedReason, resolution),
	}); err != nil {
		return err
	}

	_, profile, err := config.ResolveProfile(e.UserConfig, st.Profile)
	if err != nil {
		return herr.UserInput(herr.ExitGeneric, "resolve profile: %v", err)
	}

	logFile, err := os.OpenFile(store.DroneLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return herr.ExternalIO(herr.ExitGeneric, "open drone log", err)
	}
	defer logFile.Close()

	handle, err := supervisor.Spawn(context.Background(), supervisor.SpawnConfig{
		Command:   profile.Command,
		WorkDir:   st.WorktreePath,
		DroneName: name,
		DroneDir:  droneDir,
		PlanPath:  st.PlanRef,
		Resuming:  true,
		Output:    logFile,
	})
	if err != nil {
		st.Status = state.StatusFailed
		_ = store.StoreStatus(st)
		return herr.ExternalIO(herr.ExitSpawnFailed, "respawn assistant", err)
	}
	return store.WritePid(handle.PID)
}
