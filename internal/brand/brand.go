// Package brand holds product naming and default filesystem locations.
package brand

import (
	"os"
	"path/filepath"
)

const (
	Name            = "netdevd"
	Description     = "Kernel link and connection profile manager"
	ConfigEnvPrefix = "NETDEVD"
	ConfigFileName  = "netdevd.hcl"

	DefaultConfigDir = "/etc/netdevd"
	DefaultStateDir  = "/var/lib/netdevd"
	DefaultListen    = "127.0.0.1:8089"
)

// Version is set at build time via -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// UserAgent returns a User-Agent string for HTTP requests
func UserAgent() string {
	return Name + "/" + Version
}

// GetConfigDir returns the config directory.
// Priority: NETDEVD_CONFIG_DIR > NETDEVD_PREFIX/config > DefaultConfigDir
func GetConfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "config")
	}
	return DefaultConfigDir
}

// GetStateDir returns the state directory.
// Priority: NETDEVD_STATE_DIR > NETDEVD_PREFIX/state > DefaultStateDir
func GetStateDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_STATE_DIR"); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "state")
	}
	return DefaultStateDir
}

// DefaultConfigPath is the config file used when -config is not given.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}
