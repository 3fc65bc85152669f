package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

func TestStart_Local_RunsInProjectRoot(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	err := engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath, Local: true})
	require.NoError(t, err)
	defer engine.Stop(context.Background(), "demo")

	store := state.New(config.DroneDir(repo, "demo"))
	st, err := store.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, repo, st.WorktreePath)

	assert.NoDirExists(t, filepath.Join(repo, "worktrees"))
}

func TestStart_DryRun_WritesStatusAndActivityButNeverSpawns(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	err := engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath, DryRun: true})
	require.NoError(t, err)

	store := state.New(config.DroneDir(repo, "demo"))
	st, err := store.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, state.StatusStarting, st.Status)
	assert.Equal(t, 2, st.Total)
	assert.Empty(t, st.Completed)

	_, ok, err := store.ReadPid()
	require.NoError(t, err)
	assert.False(t, ok, "dry run must never spawn, so no pid is ever recorded")

	data, err := os.ReadFile(filepath.Join(config.DroneDir(repo, "demo"), "activity.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "drone_created")
}

func TestStart_DryRun_StillValidatesPlanAndProfile(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	err := engine.Start(context.Background(), StartOptions{
		Name: "demo", PlanPath: planPath, DryRun: true, ProfileName: "nonexistent",
	})
	require.Error(t, err)

	err = engine.Start(context.Background(), StartOptions{
		Name: "demo", PlanPath: planPath + ".missing", DryRun: true,
	})
	require.Error(t, err)
}
