package infra

import (
	"os"
	"os/user"
	"path/filepath"
)

// ExecMode represents the execution mode of the application.
type ExecMode string

const (
	// ExecModeUser keeps data under the invoking user's home
	ExecModeUser ExecMode = "user"
	// ExecModeSystem keeps data in a system-wide location (running as root)
	ExecModeSystem ExecMode = "system"
)

// ExecModeConfig holds the data locations that depend on execution mode.
type ExecModeConfig struct {
	Mode       ExecMode
	DataDir    string // Root of everything secsim persists
	ReportDir  string // Where the file sink writes reports
	ArchiveDir string // Where the encrypted archive and its key live
	IsRoot     bool   // Whether running as root
}

// DetectExecMode determines data locations based on effective UID.
func DetectExecMode() *ExecModeConfig {
	if os.Geteuid() == 0 {
		return newExecModeConfig(ExecModeSystem, "/var/lib/secsim", true)
	}
	return GetUserModeConfig()
}

// GetUserModeConfig returns user mode locations regardless of current euid.
// Under sudo the invoking user's home is used.
func GetUserModeConfig() *ExecModeConfig {
	return newExecModeConfig(ExecModeUser, userDataDir(GetRealUserHome()), os.Geteuid() == 0)
}

func newExecModeConfig(mode ExecMode, dataDir string, isRoot bool) *ExecModeConfig {
	return &ExecModeConfig{
		Mode:       mode,
		DataDir:    dataDir,
		ReportDir:  filepath.Join(dataDir, "reports"),
		ArchiveDir: filepath.Join(dataDir, "archive"),
		IsRoot:     isRoot,
	}
}

// userDataDir returns $XDG_DATA_HOME/secsim or ~/.local/share/secsim.
func userDataDir(home string) string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "secsim")
	}
	return filepath.Join(home, ".local", "share", "secsim")
}

// String returns a human-readable description of the mode.
func (m ExecMode) String() string {
	switch m {
	case ExecModeSystem:
		return "system (root, shared data directory)"
	case ExecModeUser:
		return "user (per-user data directory)"
	default:
		return "unknown"
	}
}

// GetRealUserHome returns the real user's home directory, even when running under sudo.
func GetRealUserHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir
		}
	}
	home, _ := os.UserHomeDir()
	return home
}
