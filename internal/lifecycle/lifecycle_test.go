package lifecycle

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "drone@example.com")
	runGit(t, dir, "config", "user.name", "drone")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")
	return dir
}

func newTestEngine(t *testing.T, repoDir string) *Engine {
	t.Helper()
	require.NoError(t, config.InitProject(repoDir, "demo"))
	userCfg := &config.UserConfig{
		WorktreeBase: filepath.Join(repoDir, "worktrees"),
		Profiles: map[string]config.Profile{
			config.ReservedProfileName: {Command: []string{"sh", "-c", "sleep 30"}},
		},
		DefaultProfile: config.ReservedProfileName,
	}
	return New(repoDir, userCfg)
}

func writeDemoPlan(t *testing.T, dir string) string {
	t.Helper()
	content := `# Demo

## Goal

hello

## Tasks

### 1. Setup

- type: setup

Set up.

### 2. PR

- type: pr

Open the PR.

## Definition of Done

- [ ] done
`
	path := filepath.Join(dir, "demo.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStart_SpawnsAndRecordsRunningStatus(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	err := engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath})
	require.NoError(t, err)

	store := state.New(config.DroneDir(repo, "demo"))
	pid, ok, err := store.ReadPid()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, pid, 0)

	st, err := store.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, state.StatusStarting, st.Status)
	assert.Equal(t, 2, st.Total)

	require.NoError(t, engine.Stop(context.Background(), "demo"))
}

func TestStart_RefusesSecondLaunchWhileRunning(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	require.NoError(t, engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath}))
	defer engine.Stop(context.Background(), "demo")

	err := engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath})
	require.Error(t, err)
}

func TestStop_IsIdempotent(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	require.NoError(t, engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath}))
	require.NoError(t, engine.Stop(context.Background(), "demo"))
	require.NoError(t, engine.Stop(context.Background(), "demo"))

	store := state.New(config.DroneDir(repo, "demo"))
	_, ok, err := store.ReadPid()
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := store.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, state.StatusStopped, st.Status)
}

func TestClean_RemovesWorktreeAndDroneDir(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	require.NoError(t, engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath}))

	err := engine.Clean(context.Background(), "demo", true)
	require.NoError(t, err)

	assert.NoDirExists(t, config.DroneDir(repo, "demo"))
}

func TestUnblock_TransitionsToResumingAndRespawns(t *testing.T) {
	repo := initSourceRepo(t)
	engine := newTestEngine(t, repo)
	planPath := writeDemoPlan(t, filepath.Join(repo, ".hive", "plans"))

	require.NoError(t, engine.Start(context.Background(), StartOptions{Name: "demo", PlanPath: planPath}))
	require.NoError(t, engine.Stop(context.Background(), "demo"))

	store := state.New(config.DroneDir(repo, "demo"))
	st, err := store.LoadStatus()
	require.NoError(t, err)
	st.Status = state.StatusBlocked
	st.BlockedReason = "needs human input"
	require.NoError(t, store.StoreStatus(st))

	require.NoError(t, engine.Unblock("demo", "go ahead"))

	reloaded, err := store.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, state.StatusResuming, reloaded.Status)
	assert.Equal(t, "needs human input", reloaded.LastBlockedReason)
	assert.Empty(t, reloaded.BlockedReason)

	_ = engine.Stop(context.Background(), "demo")
}
