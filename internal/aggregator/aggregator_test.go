package aggregator

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

func setupDrone(t *testing.T, projectRoot, name string, st *state.DroneStatus, pid int) {
	t.Helper()
	store := state.New(config.DroneDir(projectRoot, name))
	require.NoError(t, store.StoreStatus(st))
	if pid > 0 {
		require.NoError(t, store.WritePid(pid))
	}
}

func TestScan_RunningDroneWithLivePid(t *testing.T) {
	root := t.TempDir()
	setupDrone(t, root, "alpha", &state.DroneStatus{
		Status: state.StatusInProgress, Total: 4, Completed: []string{"1"}, CurrentTask: "2",
		CreatedAt: time.Now(), StartedAt: time.Now(),
	}, os.Getpid())

	snaps, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "", string(snaps[0].Display))
	assert.Equal(t, "in_progress", snaps[0].StatusText())
	assert.InDelta(t, 0.25, snaps[0].Progress, 0.001)
}

func TestScan_ZombieWhenPidPresentButDead(t *testing.T) {
	root := t.TempDir()
	setupDrone(t, root, "beta", &state.DroneStatus{
		Status: state.StatusInProgress, Total: 1, CreatedAt: time.Now(), StartedAt: time.Now(),
	}, 1<<30)

	snaps, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, DisplayZombie, snaps[0].Display)
	assert.Equal(t, "zombie", snaps[0].StatusText())
}

func TestScan_DerivedStoppedWhenNoPid(t *testing.T) {
	root := t.TempDir()
	setupDrone(t, root, "gamma", &state.DroneStatus{
		Status: state.StatusStarting, Total: 1, CreatedAt: time.Now(),
	}, 0)

	snaps, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "stopped", snaps[0].StatusText())
}

func TestScan_TerminalStatusAsStored(t *testing.T) {
	root := t.TempDir()
	setupDrone(t, root, "delta", &state.DroneStatus{
		Status: state.StatusCompleted, Total: 1, Completed: []string{"1"}, CreatedAt: time.Now(),
	}, 0)

	snaps, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "", string(snaps[0].Display))
	assert.Equal(t, "completed", snaps[0].StatusText())
}

func TestScan_SortsByCreationTime(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	setupDrone(t, root, "newer", &state.DroneStatus{Status: state.StatusCompleted, Total: 1, CreatedAt: now.Add(time.Hour)}, 0)
	setupDrone(t, root, "older", &state.DroneStatus{Status: state.StatusCompleted, Total: 1, CreatedAt: now}, 0)

	snaps, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "older", snaps[0].Name)
	assert.Equal(t, "newer", snaps[1].Name)
}

func TestScan_NoDronesDirReturnsEmpty(t *testing.T) {
	snaps, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
