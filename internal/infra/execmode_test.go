package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectExecMode_ReturnsCorrectPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("SUDO_USER", "")

	config := DetectExecMode()

	if os.Geteuid() == 0 {
		assert.Equal(t, ExecModeSystem, config.Mode)
		assert.Equal(t, "/var/lib/secsim", config.DataDir)
		assert.True(t, config.IsRoot)
		return
	}

	home, _ := os.UserHomeDir()
	assert.Equal(t, ExecModeUser, config.Mode)
	assert.Equal(t, filepath.Join(home, ".local", "share", "secsim"), config.DataDir)
	assert.False(t, config.IsRoot)
}

func TestGetUserModeConfig_HonoursXDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	config := GetUserModeConfig()

	assert.Equal(t, ExecModeUser, config.Mode)
	assert.Equal(t, filepath.Join(dir, "secsim"), config.DataDir)
}

func TestExecModeConfig_PathsAreConsistent(t *testing.T) {
	config := DetectExecMode()

	assert.Equal(t, config.DataDir, filepath.Dir(config.ReportDir))
	assert.Equal(t, config.DataDir, filepath.Dir(config.ArchiveDir))
	assert.NotEqual(t, config.ReportDir, config.ArchiveDir)
}

func TestExecMode_String(t *testing.T) {
	tests := []struct {
		mode     ExecMode
		expected string
	}{
		{ExecModeUser, "user (per-user data directory)"},
		{ExecModeSystem, "system (root, shared data directory)"},
		{ExecMode("invalid"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.String())
		})
	}
}
