package config

import "fmt"

// AddProfile adds or redefines a named profile.
func AddProfile(cfg *UserConfig, name string, p Profile) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	cfg.Profiles[name] = p
	return nil
}

// RemoveProfile removes a named profile. The reserved "default" profile may
// be redefined (via AddProfile) but never removed (spec §4.1).
func RemoveProfile(cfg *UserConfig, name string) error {
	if name == ReservedProfileName {
		return fmt.Errorf("profile %q is reserved and cannot be removed", ReservedProfileName)
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("profile %q does not exist", name)
	}
	delete(cfg.Profiles, name)
	if cfg.DefaultProfile == name {
		cfg.DefaultProfile = ReservedProfileName
	}
	return nil
}

// SetDefaultProfile changes which profile new drones use by default.
func SetDefaultProfile(cfg *UserConfig, name string) error {
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("profile %q does not exist", name)
	}
	cfg.DefaultProfile = name
	return nil
}

// ListProfiles returns the configured profiles (Profile.Description is
// what the "profile list" command prints alongside the name).
func ListProfiles(cfg *UserConfig) map[string]Profile {
	return cfg.Profiles
}

// ResolveProfile returns the requested profile, falling back to the
// configured default, and erroring if neither resolves to a known profile.
func ResolveProfile(cfg *UserConfig, requested string) (string, Profile, error) {
	name := requested
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		name = ReservedProfileName
	}
	p, ok := cfg.Profiles[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("profile %q is not configured", name)
	}
	return name, p, nil
}
