package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/hive/internal/config"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

// initProject creates a git repository with an initialized hive project and
// its own isolated user config/worktree base, so integration tests never
// touch the operator's real ~/.config/hive.
func initProject(t *testing.T) (root string, configHome string) {
	t.Helper()
	root = t.TempDir()
	runGit(t, root, "init", "-b", "main")
	runGit(t, root, "config", "user.email", "drone@example.com")
	runGit(t, root, "config", "user.name", "drone")
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hello\n"), 0o644))
	runGit(t, root, "add", ".")
	runGit(t, root, "commit", "-m", "initial")
	require.NoError(t, config.InitProject(root, "demo"))

	configHome = t.TempDir()
	return root, configHome
}

func hiveEnv(configHome, worktreeBase string) []string {
	env := append([]string{}, os.Environ()...)
	env = append(env, "HIVE_CONFIG_HOME="+configHome)
	if worktreeBase != "" {
		env = append(env, "HIVE_WORKTREE_BASE="+worktreeBase)
	}
	return env
}
