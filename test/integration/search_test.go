package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/hinshun/vt10x"
	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
	"github.com/harrison/hive/internal/state"
)

// TestDashboard_SessionSearchIsReachable drives the dashboard all the way
// into the Session Viewer and exercises '/' search, since
// SessionViewer.Search has no way to be reached except through the live key
// loop.
func TestDashboard_SessionSearchIsReachable(t *testing.T) {
	root, configHome := initProject(t)

	store := state.New(config.DroneDir(root, "demo"))
	require.NoError(t, store.StoreStatus(&state.DroneStatus{
		Status:    state.StatusCompleted,
		Total:     1,
		Completed: []string{"1"},
	}))
	transcript := `{"type":"assistant","text":"found the needle in the haystack"}` + "\n" +
		`{"type":"assistant","text":"nothing interesting here"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(config.DroneDir(root, "demo"), "drone.log"), []byte(transcript), 0o644))

	console, vtState, err := vt10x.NewVT10XConsole()
	require.NoError(t, err)
	defer console.Close()

	cmd := exec.Command(hiveBinary, "status", "--interactive")
	cmd.Dir = root
	cmd.Env = hiveEnv(configHome, "")
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	require.NoError(t, cmd.Start())

	_, err = console.ExpectString("demo")
	require.NoError(t, err, "screen was:\n%s", vtState.String())

	_, err = console.Send("\r")
	require.NoError(t, err)
	_, err = console.ExpectString("found the needle")
	require.NoError(t, err, "screen was:\n%s", vtState.String())

	_, err = console.Send("/needle")
	require.NoError(t, err)
	_, err = console.ExpectString("/needle")
	require.NoError(t, err, "search input line never appeared; screen was:\n%s", vtState.String())

	_, err = console.Send("\r")
	require.NoError(t, err)
	_, err = console.ExpectString("found the needle")
	require.NoError(t, err, "screen was:\n%s", vtState.String())

	_, err = console.Send("q")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("dashboard did not exit after 'q'")
	}
	require.NoError(t, console.Tty().Close())
}
