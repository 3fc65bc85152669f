package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/hive/internal/atomicfile"
)

// ProjectConfig is the small key-value record stored at .hive/config (spec
// §4.1). Readers tolerate forward-compatible extra keys; writers preserve
// them via Extra.
type ProjectConfig struct {
	Version     int       `yaml:"version"`
	Name        string    `yaml:"name"`
	CreatedAt   time.Time `yaml:"created_at"`
	Extra       map[string]interface{} `yaml:"-"`
}

const currentProjectConfigVersion = 1

func (c ProjectConfig) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{}
	for k, v := range c.Extra {
		out[k] = v
	}
	out["version"] = c.Version
	out["name"] = c.Name
	out["created_at"] = c.CreatedAt
	return out, nil
}

func (c *ProjectConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := map[string]interface{}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if v, ok := raw["version"]; ok {
		if n, ok := toInt(v); ok {
			c.Version = n
		}
		delete(raw, "version")
	}
	if v, ok := raw["name"].(string); ok {
		c.Name = v
		delete(raw, "name")
	}
	if v, ok := raw["created_at"]; ok {
		if t, ok := v.(time.Time); ok {
			c.CreatedAt = t
		}
		delete(raw, "created_at")
	}
	c.Extra = raw
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// LoadProjectConfig reads the project config at .hive/config.
func LoadProjectConfig(projectRoot string) (*ProjectConfig, error) {
	data, err := os.ReadFile(ProjectConfigPath(projectRoot))
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", ProjectConfigPath(projectRoot), err)
	}
	return &cfg, nil
}

// SaveProjectConfig atomically rewrites the project config.
func SaveProjectConfig(projectRoot string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}
	return atomicfile.Write(ProjectConfigPath(projectRoot), data, 0o644)
}

// InitProject creates .hive/{plans,drones} and an initial project config.
// It is idempotent: calling it again on an already-initialized project
// leaves the existing config untouched.
func InitProject(projectRoot, displayName string) error {
	if err := os.MkdirAll(PlansDir(projectRoot), 0o755); err != nil {
		return fmt.Errorf("create plans directory: %w", err)
	}
	if err := os.MkdirAll(DronesDir(projectRoot), 0o755); err != nil {
		return fmt.Errorf("create drones directory: %w", err)
	}

	configPath := ProjectConfigPath(projectRoot)
	if _, err := os.Stat(configPath); err == nil {
		return nil // already initialized
	}

	cfg := &ProjectConfig{
		Version:   currentProjectConfigVersion,
		Name:      displayName,
		CreatedAt: time.Now(),
	}
	return SaveProjectConfig(projectRoot, cfg)
}
