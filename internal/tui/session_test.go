package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSessionLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drone.log")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSessionViewer_RendersOneLinePerTurn(t *testing.T) {
	path := writeSessionLog(t,
		`{"type":"assistant","text":"hello there"}`,
		`{"type":"user","text":"do the thing"}`,
	)
	v, err := NewSessionViewer(path)
	require.NoError(t, err)

	lines := v.Render(80)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "hello there")
	assert.Contains(t, lines[1], "do the thing")
}

func TestSessionViewer_ScrollClampsToBounds(t *testing.T) {
	v := &SessionViewer{}
	v.ScrollUp(5)
	assert.Equal(t, 0, v.Offset)

	v.ScrollDown(3, 10, 5)
	assert.Equal(t, 3, v.Offset)

	v.ScrollDown(100, 10, 5)
	assert.Equal(t, 5, v.Offset)
}

func TestSessionViewer_WindowClipsToHeight(t *testing.T) {
	v := &SessionViewer{Offset: 1}
	lines := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"b", "c"}, v.Window(lines, 2))
}

func TestSessionViewer_SearchHighlightsMatch(t *testing.T) {
	path := writeSessionLog(t, `{"type":"assistant","text":"found the bug"}`)
	v, err := NewSessionViewer(path)
	require.NoError(t, err)
	v.Search("bug")

	lines := v.Render(80)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "bug")
}
