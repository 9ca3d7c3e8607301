package device

import (
	"fmt"
	"net"
	"strings"

	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/setting"
)

// Hooks are the kind-specific override points of a device. Implementations
// that only change some of them embed BaseHooks.
type Hooks interface {
	// GenericCapabilities returns the capabilities the device has
	// regardless of its current configuration.
	GenericCapabilities(d *Device) Capabilities
	// TypeDescription returns a short human-readable type name.
	TypeDescription(d *Device) string
	// RealizeStartNotify runs when the device is bound to a kernel link.
	RealizeStartNotify(d *Device, link *platform.Link)
	// CheckConnectionCompatible returns nil if conn can be applied to the
	// device, or a *CompatError.
	CheckConnectionCompatible(d *Device, conn *setting.Connection, checkProperties bool) error
	// UpdateConnection rewrites conn so that it describes the device.
	UpdateConnection(d *Device, conn *setting.Connection)
}

// BaseHooks implements Hooks with the base device behavior.
type BaseHooks struct{}

func (BaseHooks) GenericCapabilities(d *Device) Capabilities { return d.DefaultGenericCapabilities() }
func (BaseHooks) TypeDescription(d *Device) string { return d.DefaultTypeDescription() }
func (BaseHooks) RealizeStartNotify(d *Device, link *platform.Link) {
	d.DefaultRealizeStartNotify(link)
}
func (BaseHooks) CheckConnectionCompatible(d *Device, conn *setting.Connection, checkProperties bool) error {
	return d.DefaultCheckConnectionCompatible(conn, checkProperties)
}
func (BaseHooks) UpdateConnection(d *Device, conn *setting.Connection) {}

// Device is one kernel link as seen by the daemon.
type Device struct {
	kind     *Kind
	hooks    Hooks
	platform platform.Platform
	log      *logging.Logger

	iface     string
	ifindex   int
	ipIfindex int
	hwAddr    net.HardwareAddr
	mtu       int

	state         State
	unmanaged     UnmanagedFlags
	pluginMissing bool
}

// newDevice builds the base part of a device for link. The device is
// unrealized: only the interface name is taken from link.
func newDevice(kind *Kind, hooks Hooks, link *platform.Link, p platform.Platform) (*Device, error) {
	if link == nil {
		return nil, ErrNilLink
	}
	return &Device{
		kind:     kind,
		hooks:    hooks,
		platform: p,
		log:      logging.WithComponent("device").WithFields(map[string]any{"iface": link.Name, "kind": kind.Name}),
		iface:    link.Name,
	}, nil
}

// Iface returns the kernel interface name.
func (d *Device) Iface() string { return d.iface }

// Ifindex returns the kernel interface index, or 0 before realization.
func (d *Device) Ifindex() int { return d.ifindex }

// IPIfindex returns the index of the interface carrying IP traffic for
// the device, or 0 if there is none yet.
func (d *Device) IPIfindex() int { return d.ipIfindex }

// HwAddress returns the hardware address as a string, or "".
func (d *Device) HwAddress() string {
	if len(d.hwAddr) == 0 {
		return ""
	}
	return d.hwAddr.String()
}

// MTU returns the link MTU recorded at realization.
func (d *Device) MTU() int { return d.mtu }

// Kind returns the device kind.
func (d *Device) Kind() *Kind { return d.kind }

// Hooks returns the kind-specific hook implementation.
func (d *Device) Hooks() Hooks { return d.hooks }

// Platform returns the platform the device queries.
func (d *Device) Platform() platform.Platform { return d.platform }

func (d *Device) State() State { return d.state }

// PluginMissing reports whether the device fell back to this kind because
// the kind that normally handles its link type is unavailable.
func (d *Device) PluginMissing() bool { return d.pluginMissing }

// Unmanaged returns the unmanaged flags.
func (d *Device) Unmanaged() UnmanagedFlags { return d.unmanaged }

// SetUnmanaged sets or clears an unmanaged flag.
func (d *Device) SetUnmanaged(flag UnmanagedFlags, set bool) {
	if set {
		d.unmanaged |= flag
	} else {
		d.unmanaged &^= flag
	}
}

// Managed reports whether no unmanaged flag is set.
func (d *Device) Managed() bool { return d.unmanaged == 0 }

// Realize binds the device to link and moves it to the realized state.
// It may be called again when the link changes or is recreated.
func (d *Device) Realize(link *platform.Link) error {
	if link == nil {
		return ErrNilLink
	}
	d.state = StateRealizing
	d.hooks.RealizeStartNotify(d, link)
	d.state = StateRealized
	d.log.Debug("device realized", "ifindex", d.ifindex, "ip_ifindex", d.ipIfindex)
	return nil
}

// Unrealize forgets the kernel link. The interface name is kept.
func (d *Device) Unrealize() {
	d.ifindex = 0
	d.ipIfindex = 0
	d.hwAddr = nil
	d.mtu = 0
	d.state = StateUnrealized
}

// Capabilities returns the device's generic capabilities.
func (d *Device) Capabilities() Capabilities {
	return d.hooks.GenericCapabilities(d)
}

// TypeDescription returns the human-readable type of the device.
func (d *Device) TypeDescription() string {
	return d.hooks.TypeDescription(d)
}

// CheckConnectionCompatible returns nil if conn can be applied to the
// device. Rejections are *CompatError values; see IsTemporary.
func (d *Device) CheckConnectionCompatible(conn *setting.Connection, checkProperties bool) error {
	return d.hooks.CheckConnectionCompatible(d, conn, checkProperties)
}

// Compatible is CheckConnectionCompatible as a bool.
func (d *Device) Compatible(conn *setting.Connection, checkProperties bool) bool {
	return d.CheckConnectionCompatible(conn, checkProperties) == nil
}

// UpdateConnection rewrites conn to describe the device. It mutates conn.
func (d *Device) UpdateConnection(conn *setting.Connection) {
	d.hooks.UpdateConnection(d, conn)
}

// DefaultGenericCapabilities is the base capability set: none.
func (d *Device) DefaultGenericCapabilities() Capabilities {
	return CapNone
}

// DefaultTypeDescription is the lowercased kind description.
func (d *Device) DefaultTypeDescription() string {
	return strings.ToLower(d.kind.Description)
}

// DefaultRealizeStartNotify records the link's identity on the device.
func (d *Device) DefaultRealizeStartNotify(link *platform.Link) {
	d.ifindex = link.Index
	d.iface = link.Name
	d.hwAddr = append(net.HardwareAddr(nil), link.HardwareAddr...)
	d.mtu = link.MTU
	// Every link the daemon handles carries IP on itself.
	d.ipIfindex = link.Index
}

// DefaultCheckConnectionCompatible checks that the profile's type is the
// one the kind accepts and that an interface name, if given, is this
// device's. With checkProperties the profile must also verify.
func (d *Device) DefaultCheckConnectionCompatible(conn *setting.Connection, checkProperties bool) error {
	if conn == nil {
		return incompatible("no connection")
	}
	if conn.Type() != d.kind.ConnectionType {
		return incompatible("connection type %q is not supported by %s devices", conn.Type(), d.kind.Name)
	}
	if name := conn.InterfaceName(); name != "" && name != d.iface {
		return incompatible("connection is bound to interface %q, not %q", name, d.iface)
	}
	if checkProperties {
		if err := conn.Verify(); err != nil {
			return &CompatError{Kind: ErrKindIncompatible, Msg: "connection does not verify", Err: err}
		}
	}
	return nil
}

// Properties returns the device's published properties by name.
func (d *Device) Properties() map[string]string {
	props := map[string]string{
		"Interface":    d.iface,
		"Ifindex":      fmt.Sprint(d.ifindex),
		"State":        d.state.String(),
		"Capabilities": d.Capabilities().String(),
		"Managed":      fmt.Sprint(d.Managed()),
	}
	for _, p := range d.kind.Properties {
		props[p.Name] = p.Get(d)
	}
	return props
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s, ifindex %d)", d.iface, d.kind.Name, d.ifindex)
}
