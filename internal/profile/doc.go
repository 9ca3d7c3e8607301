// Package profile persists connection profiles and reads and writes
// profile files.
//
// Profiles live in a SQLite database as JSON documents. At startup the
// daemon imports every file in its profile directory; files may be HCL,
// JSON or YAML and all share one document shape:
//
//	connection {
//	  id             = "lab uplink"
//	  uuid           = "0d8f4c1e-6a3b-4b7e-9c52-1f7c2f3d9a10"
//	  type           = "generic"
//	  interface_name = "eth7"
//	}
//
//	generic {}
//
// At most one type block (generic, loopback) may appear.
package profile
