// Package config loads the daemon configuration.
//
// The configuration is HCL (JSON is accepted as a fallback):
//
//	schema_version = "1.0"
//	log_level      = "info"
//	profile_dir    = "/etc/netdevd/profiles"
//	state_db       = "/var/lib/netdevd/profiles.db"
//
//	api {
//	  listen = "127.0.0.1:8089"
//	}
//
//	device "eth7" {
//	  managed          = true
//	  generate_profile = true
//	}
package config
