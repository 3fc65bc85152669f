package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectMarker is the directory name that marks the root of a Hive
// project (spec §3 Project).
const ProjectMarker = ".hive"

// FindProjectRoot walks upward from start (a directory) looking for a real
// ".hive" directory. Symlinked ".hive" paths are rejected — spec §4.3 "the
// project marker must be a real directory".
func FindProjectRoot(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	for {
		marker := filepath.Join(current, ProjectMarker)
		info, err := os.Lstat(marker)
		if err == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return "", fmt.Errorf("%s is a symlink; the project marker must be a real directory", marker)
			}
			if info.IsDir() {
				return current, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s project found above %s", ProjectMarker, start)
		}
		current = parent
	}
}

// HiveDir returns "<projectRoot>/.hive".
func HiveDir(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectMarker)
}

// PlansDir returns "<projectRoot>/.hive/plans".
func PlansDir(projectRoot string) string {
	return filepath.Join(HiveDir(projectRoot), "plans")
}

// DronesDir returns "<projectRoot>/.hive/drones".
func DronesDir(projectRoot string) string {
	return filepath.Join(HiveDir(projectRoot), "drones")
}

// DroneDir returns "<projectRoot>/.hive/drones/<name>".
func DroneDir(projectRoot, name string) string {
	return filepath.Join(DronesDir(projectRoot), name)
}

// ProjectConfigPath returns "<projectRoot>/.hive/config".
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(HiveDir(projectRoot), "config")
}

// DefaultWorktreeBase returns "~/.hive/worktrees", used when the user
// config does not set worktree_base.
func DefaultWorktreeBase() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}
	return filepath.Join(home, ".hive", "worktrees"), nil
}

// WorktreePath returns "<worktreeBase>/<projectName>/<droneName>" (spec §4.1).
func WorktreePath(worktreeBase, projectName, droneName string) string {
	return filepath.Join(worktreeBase, projectName, droneName)
}

// UserConfigPath returns the path to the user-level config file, honoring
// HIVE_CONFIG_HOME for tests, else "~/.config/hive/config".
func UserConfigPath() (string, error) {
	if override := os.Getenv("HIVE_CONFIG_HOME"); override != "" {
		return filepath.Join(override, "config"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "hive", "config"), nil
}
