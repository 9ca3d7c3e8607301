package device

import "strings"

// Capabilities is a set of device capability flags.
type Capabilities uint32

const (
	CapNone          Capabilities = 0
	CapCarrierDetect Capabilities = 1 << 0
)

// Has reports whether every flag in c2 is set.
func (c Capabilities) Has(c2 Capabilities) bool {
	return c&c2 == c2
}

// Strings lists the set flags by name.
func (c Capabilities) Strings() []string {
	out := []string{}
	if c.Has(CapCarrierDetect) {
		out = append(out, "carrier-detect")
	}
	return out
}

func (c Capabilities) String() string {
	if c == CapNone {
		return "none"
	}
	return strings.Join(c.Strings(), ",")
}

// State is the realization state of a device.
type State int

const (
	StateUnrealized State = iota
	StateRealizing
	StateRealized
)

func (s State) String() string {
	switch s {
	case StateUnrealized:
		return "unrealized"
	case StateRealizing:
		return "realizing"
	case StateRealized:
		return "realized"
	}
	return "unknown"
}

// UnmanagedFlags records why a device is not managed. A device is managed
// only when no flag is set.
type UnmanagedFlags uint32

const (
	// UnmanagedByDefault is set on devices the daemon does not manage
	// unless configuration says otherwise.
	UnmanagedByDefault UnmanagedFlags = 1 << iota
	// UnmanagedUser is set when an operator unmanaged the device.
	UnmanagedUser
)
