package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

func TestStatusline_PrintsWorkspaceLineOnly(t *testing.T) {
	root := initProject(t)
	t.Setenv("CLAUDE_PROJECT_DIR", root)

	c := NewStatuslineCommand()
	c.SetIn(strings.NewReader(`{"workspace":"hive","model":"opus","context_percentage":42}`))
	out, err := execCommand(t, c, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "hive")
	assert.Contains(t, out, "opus")
	assert.Contains(t, out, "ctx 42%")
}

func TestStatusline_HidesStaleCompletedDrones(t *testing.T) {
	root := initProject(t)
	t.Setenv("CLAUDE_PROJECT_DIR", root)

	store := state.New(config.DroneDir(root, "done"))
	backdated := time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.StoreStatus(&state.DroneStatus{
		Status: state.StatusCompleted, Total: 1, Completed: []string{"1"},
		CreatedAt: backdated, StartedAt: backdated,
	}))
	statusFile := filepath.Join(config.DroneDir(root, "done"), "status")
	require.NoError(t, os.Chtimes(statusFile, backdated, backdated))

	c := NewStatuslineCommand()
	c.SetIn(strings.NewReader(`{"workspace":"hive","model":"opus","context_percentage":10}`))
	out, err := execCommand(t, c, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "done")
}

func TestStatusline_ShowsRecentDrone(t *testing.T) {
	root := initProject(t)
	t.Setenv("CLAUDE_PROJECT_DIR", root)

	store := state.New(config.DroneDir(root, "alpha"))
	require.NoError(t, store.StoreStatus(&state.DroneStatus{
		Status: state.StatusInProgress, Total: 2, CurrentTask: "1",
		CreatedAt: time.Now(), StartedAt: time.Now(),
	}))

	c := NewStatuslineCommand()
	c.SetIn(strings.NewReader(`{"workspace":"hive","model":"opus","context_percentage":10}`))
	out, err := execCommand(t, c, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
}
