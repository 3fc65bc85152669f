package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_RegistersAllSubcommands(t *testing.T) {
	root := NewRootCommand()
	want := []string{"init", "start", "stop", "clean", "status", "logs", "unblock", "profile", "sessions", "statusline"}
	for _, name := range want {
		_, _, err := root.Find([]string{name})
		assert.NoErrorf(t, err, "expected %q to be registered", name)
	}
}

func TestRoot_VersionFlag(t *testing.T) {
	out, err := execCommand(t, NewRootCommand(), []string{"--version"})
	require.NoError(t, err)
	assert.Contains(t, out, "hive version")
}

func TestRoot_HelpListsUsage(t *testing.T) {
	out, err := execCommand(t, NewRootCommand(), []string{"--help"})
	require.NoError(t, err)
	assert.Contains(t, out, "Hive supervises many autonomous coding-agent")
}
