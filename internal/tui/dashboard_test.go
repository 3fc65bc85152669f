package tui

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

func setupDrone(t *testing.T, root, name string, st *state.DroneStatus) {
	t.Helper()
	store := state.New(config.DroneDir(root, name))
	require.NoError(t, store.StoreStatus(st))
}

func TestDashboard_RefreshReconcilesSelectionAfterShrink(t *testing.T) {
	root := t.TempDir()
	setupDrone(t, root, "alpha", &state.DroneStatus{Status: state.StatusCompleted, Total: 1, CreatedAt: time.Now()})
	setupDrone(t, root, "beta", &state.DroneStatus{Status: state.StatusCompleted, Total: 1, CreatedAt: time.Now().Add(time.Minute)})

	d := NewDashboard(root)
	snaps, err := d.Refresh()
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	d.Selected = 1
	assert.Equal(t, "beta", d.SelectedName(snaps))

	// Drop "beta" from disk; next refresh should clamp selection back in range.
	require.NoError(t, os.RemoveAll(config.DroneDir(root, "beta")))

	snaps, err = d.Refresh()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 0, d.Selected)
	assert.Equal(t, "alpha", d.SelectedName(snaps))
}

func TestDashboard_MoveUpDownClampsAtEdges(t *testing.T) {
	d := NewDashboard(t.TempDir())
	d.MoveUp()
	assert.Equal(t, 0, d.Selected)

	d.MoveDown(3)
	assert.Equal(t, 1, d.Selected)
	d.MoveDown(3)
	assert.Equal(t, 2, d.Selected)
	d.MoveDown(3)
	assert.Equal(t, 2, d.Selected)

	d.MoveUp()
	assert.Equal(t, 1, d.Selected)
}

func TestDashboard_RenderShowsEmptyState(t *testing.T) {
	d := NewDashboard(t.TempDir())
	lines := d.Render(nil, 80)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "no drones")
}

func TestStyleForStatus_CoversKnownStatuses(t *testing.T) {
	for _, status := range []string{"in_progress", "starting", "resuming", "blocked", "failed", "zombie", "completed"} {
		assert.Contains(t, styleForStatus(status).Render(status), status)
	}
}
