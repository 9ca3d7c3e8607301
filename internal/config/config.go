package config

import (
	"path/filepath"

	"grimm.is/netdevd/internal/brand"
)

// CurrentSchemaVersion defines the current schema version of the configuration.
const CurrentSchemaVersion = "1.0"

// Config is the top-level daemon configuration.
type Config struct {
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty"`
	LogJSON  bool   `hcl:"log_json,optional" json:"log_json,omitempty"`

	// ProfileDir holds profile files imported into the store at startup.
	ProfileDir string `hcl:"profile_dir,optional" json:"profile_dir,omitempty"`
	// StateDB is the SQLite database backing the profile store.
	StateDB string `hcl:"state_db,optional" json:"state_db,omitempty"`
	// Netns is a network namespace path (e.g. /run/netns/lab); empty means
	// the daemon's own namespace.
	Netns string `hcl:"netns,optional" json:"netns,omitempty"`

	// DisabledKinds names specialized device kinds that must not claim
	// links. Their links fall back to the generic kind, flagged as
	// missing their plugin.
	DisabledKinds []string `hcl:"disabled_kinds,optional" json:"disabled_kinds,omitempty"`

	API     *APIConfig     `hcl:"api,block" json:"api,omitempty"`
	Devices []DeviceConfig `hcl:"device,block" json:"devices,omitempty"`
}

// APIConfig configures the HTTP property/metrics endpoint.
type APIConfig struct {
	Disabled bool   `hcl:"disabled,optional" json:"disabled,omitempty"`
	Listen   string `hcl:"listen,optional" json:"listen,omitempty"`
}

// DeviceConfig carries per-interface policy overrides.
type DeviceConfig struct {
	Name string `hcl:"name,label" json:"name"`
	// Managed brings the device under management instead of the
	// unmanaged-by-default state every new device starts in.
	Managed bool `hcl:"managed,optional" json:"managed,omitempty"`
	// GenerateProfile creates and stores a profile for the device when
	// no stored profile is compatible with it.
	GenerateProfile bool `hcl:"generate_profile,optional" json:"generate_profile,omitempty"`
}

// DefaultConfig returns a configuration with every default filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ProfileDir == "" {
		c.ProfileDir = filepath.Join(brand.GetConfigDir(), "profiles")
	}
	if c.StateDB == "" {
		c.StateDB = filepath.Join(brand.GetStateDir(), "profiles.db")
	}
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.Listen == "" {
		c.API.Listen = brand.DefaultListen
	}
}

// Device returns the override block for an interface, if any.
func (c *Config) Device(name string) (DeviceConfig, bool) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceConfig{}, false
}
