// Package aggregator implements the Status Aggregator (C7, spec §4.7): a
// read-only scan over a project's drones that reconciles stored status
// against observed process liveness without ever mutating state.
package aggregator

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
	"github.com/harrison/hive/internal/supervisor"
)

// DisplayStatus is the status shown to the user after liveness
// reconciliation; it may differ from the stored status without that
// difference ever being written back (spec §4.7: "NEVER mutates the status
// file during a read-only refresh").
type DisplayStatus string

const (
	DisplayZombie DisplayStatus = "zombie"
)

// Snapshot is one drone's point-in-time view, as returned by Scan.
type Snapshot struct {
	Name    string
	Status  *state.DroneStatus
	Display DisplayStatus // empty unless reconciliation derived a different display state
	PidLive bool

	Progress        float64
	RunningDuration time.Duration
	LastActivity    time.Time

	// Orphan is true when a drone directory exists with no parseable status
	// record (spec §4.7 step 1: "treat as orphan directory and skip with a
	// warning").
	Orphan bool
	Error  error
}

// StatusText returns the status to show the user: the derived DisplayStatus
// if reconciliation produced one, otherwise the stored status verbatim.
func (s Snapshot) StatusText() string {
	if s.Display != "" {
		return string(s.Display)
	}
	if s.Status != nil {
		return string(s.Status.Status)
	}
	return ""
}

// Scan reads every drone directory under projectRoot and returns snapshots
// sorted by creation time, oldest first.
func Scan(projectRoot string) ([]Snapshot, error) {
	dronesDir := config.DronesDir(projectRoot)
	entries, err := os.ReadDir(dronesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		snapshots = append(snapshots, scanOne(projectRoot, entry.Name()))
	}

	sort.Slice(snapshots, func(i, j int) bool {
		ti, tj := snapshots[i].creationTime(), snapshots[j].creationTime()
		return ti.Before(tj)
	})
	return snapshots, nil
}

func (s Snapshot) creationTime() time.Time {
	if s.Status == nil {
		return time.Time{}
	}
	return s.Status.CreatedAt
}

func scanOne(projectRoot, name string) Snapshot {
	droneDir := config.DroneDir(projectRoot, name)
	store := state.New(droneDir)

	st, err := store.LoadStatus()
	if err != nil {
		return Snapshot{Name: name, Orphan: true, Error: err}
	}

	pid, pidPresent, err := store.ReadPid()
	snap := Snapshot{Name: name, Status: st}
	if err != nil {
		snap.Error = err
		return snap
	}

	live := false
	if pidPresent {
		live, _ = supervisor.IsLive(pid, "")
	}
	snap.PidLive = live

	snap.Display = reconcile(st.Status, pidPresent, live)

	if st.Total > 0 {
		snap.Progress = float64(len(st.Completed)) / float64(st.Total)
	}
	if snap.Display == "" && isRunningStatus(st.Status) {
		snap.RunningDuration = time.Since(st.StartedAt)
	}
	snap.LastActivity = lastActivity(st, droneDir)

	return snap
}

func isRunningStatus(s state.Status) bool {
	return s == state.StatusStarting || s == state.StatusInProgress || s == state.StatusResuming
}

// reconcile applies the liveness reconciliation table (spec §4.7 table).
// It returns "" when the stored status should be displayed as-is.
func reconcile(stored state.Status, pidPresent, live bool) DisplayStatus {
	if !isRunningStatus(stored) {
		return "" // stopped/completed/failed/blocked: as stored
	}
	if pidPresent && live {
		return "" // as stored (running)
	}
	if pidPresent && !live {
		return DisplayZombie
	}
	// no pid present while status claims running: derived "stopped"
	return DisplayStatus(state.StatusStopped)
}

func lastActivity(st *state.DroneStatus, droneDir string) time.Time {
	latest := st.CreatedAt
	if info, err := os.Stat(filepath.Join(droneDir, "status")); err == nil && info.ModTime().After(latest) {
		latest = info.ModTime()
	}
	if info, err := os.Stat(filepath.Join(droneDir, "drone.log")); err == nil && info.ModTime().After(latest) {
		latest = info.ModTime()
	}
	return latest
}
