package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/hive/internal/atomicfile"
)

// Profile is a named invocation recipe for the assistant binary (spec §3
// Profile): display name (the map key), executable command with args, and
// an optional description.
type Profile struct {
	Command     []string `yaml:"command"`
	Description string   `yaml:"description,omitempty"`
}

// ReservedProfileName is the profile that may be redefined but never
// removed (spec §4.1).
const ReservedProfileName = "default"

// UserConfig is the global user-level configuration (spec §4.1): worktree
// base, named profiles, and which profile is the default.
type UserConfig struct {
	WorktreeBase   string             `yaml:"worktree_base"`
	Profiles       map[string]Profile `yaml:"profiles"`
	DefaultProfile string             `yaml:"default_profile"`
	Extra          map[string]interface{} `yaml:"-"`
}

func (c UserConfig) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{}
	for k, v := range c.Extra {
		out[k] = v
	}
	out["worktree_base"] = c.WorktreeBase
	out["profiles"] = c.Profiles
	out["default_profile"] = c.DefaultProfile
	return out, nil
}

func (c *UserConfig) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		WorktreeBase   string             `yaml:"worktree_base"`
		Profiles       map[string]Profile `yaml:"profiles"`
		DefaultProfile string             `yaml:"default_profile"`
	}
	var a alias
	if err := value.Decode(&a); err != nil {
		return err
	}
	c.WorktreeBase = a.WorktreeBase
	c.Profiles = a.Profiles
	c.DefaultProfile = a.DefaultProfile

	raw := map[string]interface{}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	delete(raw, "worktree_base")
	delete(raw, "profiles")
	delete(raw, "default_profile")
	c.Extra = raw
	return nil
}

// defaultUserConfig returns the config written the first time Hive runs on
// a machine: a "default" profile invoking the "claude" binary.
func defaultUserConfig() *UserConfig {
	return &UserConfig{
		Profiles: map[string]Profile{
			ReservedProfileName: {
				Command:     []string{"claude"},
				Description: "Default assistant invocation",
			},
		},
		DefaultProfile: ReservedProfileName,
	}
}

// LoadUserConfig reads the user config, creating a default one on first
// use.
func LoadUserConfig() (*UserConfig, error) {
	path, err := UserConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultUserConfig()
		if err := SaveUserConfig(cfg); err != nil {
			return nil, fmt.Errorf("write default user config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user config %s: %w", path, err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse user config %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// SaveUserConfig atomically rewrites the user config.
func SaveUserConfig(cfg *UserConfig) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode user config: %w", err)
	}
	return atomicfile.Write(path, data, 0o644)
}

// WorktreeBaseOrDefault returns HIVE_WORKTREE_BASE when it is set, else
// cfg.WorktreeBase, else the platform default (spec §4.1, §6).
func WorktreeBaseOrDefault(cfg *UserConfig) (string, error) {
	if override := os.Getenv("HIVE_WORKTREE_BASE"); override != "" {
		return override, nil
	}
	if cfg.WorktreeBase != "" {
		return cfg.WorktreeBase, nil
	}
	return DefaultWorktreeBase()
}
