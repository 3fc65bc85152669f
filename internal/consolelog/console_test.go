package consolelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_FormatsWithLevelTag(t *testing.T) {
	var buf strings.Builder
	logger := New(&buf, "info")
	logger.Info("drone %q started", "demo")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, `drone "demo" started`)
}

func TestLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	var buf strings.Builder
	logger := New(&buf, "warn")
	logger.Debug("quiet")
	logger.Error("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestLogger_NoColorForNonTTYWriter(t *testing.T) {
	var buf strings.Builder
	logger := New(&buf, "info")
	logger.Info("plain")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNormalizeLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", normalizeLevel(""))
	assert.Equal(t, "info", normalizeLevel("nonsense"))
	assert.Equal(t, "error", normalizeLevel("ERROR"))
}
