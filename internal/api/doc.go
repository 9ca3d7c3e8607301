// Package api implements the daemon's HTTP API.
//
// # Overview
//
// The API publishes device properties, lets operators inspect and repair
// profiles, and exposes Prometheus metrics. It is read-mostly: every
// mutation goes through the device manager, which owns the devices.
//
// # Endpoints
//
//   - GET  /api/devices                  device snapshots
//   - GET  /api/devices/{name}           one device
//   - GET  /api/devices/{name}/profiles  stored profiles compatible with the device
//   - POST /api/devices/{name}/profile   generate a profile, or repair {"uuid": ...}
//   - PUT  /api/devices/{name}/managed   {"managed": true|false}
//   - GET  /api/profiles                 every stored profile
//   - PUT  /api/profiles/{uuid}          save a profile and re-check pending devices
//   - DELETE /api/profiles/{uuid}
//   - GET  /api/logs                     recent log lines (?limit=, ?source=)
//   - GET  /api/ws/events                websocket stream of hub events
//   - GET  /api/version
//   - GET  /metrics
//
// # Adding New Endpoints
//
//  1. Create handler function: func (s *Server) handleFoo(w, r)
//  2. Register the route in routes() in server.go
package api
