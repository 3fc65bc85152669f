package gitrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every invocation and returns scripted results keyed by
// the joined args, so tests can assert on exact git invocations without
// shelling out.
type fakeRunner struct {
	calls   [][]string
	results map[string]string
	errors  map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]string{}, errors: map[string]error{}}
}

func key(args []string) string {
	s := ""
	for _, a := range args {
		s += a + " "
	}
	return s
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	k := key(args)
	if err, ok := f.errors[k]; ok {
		return "", err
	}
	return f.results[k], nil
}

func TestDetectBaseBranch_PrefersMain(t *testing.T) {
	runner := newFakeRunner()
	runner.results[key([]string{"rev-parse", "--verify", "--quiet", "refs/heads/main"})] = ""
	repo := &Repo{Runner: runner, Root: "/repo"}

	branch, err := repo.DetectBaseBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestDetectBaseBranch_FallsBackToMaster(t *testing.T) {
	runner := newFakeRunner()
	runner.errors[key([]string{"rev-parse", "--verify", "--quiet", "refs/heads/main"})] = fmt.Errorf("not found")
	runner.results[key([]string{"rev-parse", "--verify", "--quiet", "refs/heads/master"})] = ""
	repo := &Repo{Runner: runner, Root: "/repo"}

	branch, err := repo.DetectBaseBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestDetectBaseBranch_NoneFound(t *testing.T) {
	runner := newFakeRunner()
	for _, b := range []string{"main", "master", "develop"} {
		runner.errors[key([]string{"rev-parse", "--verify", "--quiet", "refs/heads/" + b})] = fmt.Errorf("not found")
	}
	repo := &Repo{Runner: runner, Root: "/repo"}

	_, err := repo.DetectBaseBranch(context.Background())
	require.Error(t, err)
}

func TestAddWorktree_BuildsExpectedArgs(t *testing.T) {
	runner := newFakeRunner()
	repo := &Repo{Runner: runner, Root: "/repo"}

	require.NoError(t, repo.AddWorktree(context.Background(), "/repo/.hive/worktrees/drone-1", "hive/drone-1", "main"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"worktree", "add", "-b", "hive/drone-1", "/repo/.hive/worktrees/drone-1", "main"}, runner.calls[0])
}

func TestRemoveWorktree_Force(t *testing.T) {
	runner := newFakeRunner()
	repo := &Repo{Runner: runner, Root: "/repo"}

	require.NoError(t, repo.RemoveWorktree(context.Background(), "/repo/.hive/worktrees/drone-1", true))
	assert.Equal(t, []string{"worktree", "remove", "--force", "/repo/.hive/worktrees/drone-1"}, runner.calls[0])
}

func TestIsClean(t *testing.T) {
	runner := newFakeRunner()
	runner.results[key([]string{"status", "--porcelain"})] = ""
	repo := &Repo{Runner: runner, Root: "/repo"}

	clean, err := repo.IsClean(context.Background(), "/repo/.hive/worktrees/drone-1")
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestRemoteBranchExists_NoRemoteTreatedAsAbsent(t *testing.T) {
	runner := newFakeRunner()
	runner.errors[key([]string{"ls-remote", "--heads", "origin", "hive/drone-1"})] = fmt.Errorf("no remote configured")
	repo := &Repo{Runner: runner, Root: "/repo"}

	exists, err := repo.RemoteBranchExists(context.Background(), "hive/drone-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
