// Package device models the daemon's view of kernel links.
//
// A Device carries the bookkeeping shared by every kind of device and
// delegates kind-specific behavior to a Hooks implementation. Specialized
// kinds claim the link types they understand; everything else is handled
// by the generic kind, the catch-all fallback.
//
// Device methods are not safe for concurrent use. The Manager owns every
// device and serializes access to them.
package device
