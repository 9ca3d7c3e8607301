package device

import (
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/setting"
)

const errGenericNeedsIface = "generic profiles need an interface name"

// GenericKind handles every link no specialized kind claims.
var GenericKind = &Kind{
	Name:           "generic",
	Description:    "Generic",
	ConnectionType: setting.TypeGeneric,
	LinkTypes:      []platform.LinkType{platform.LinkTypeAny},
	Properties: []Property{
		{Name: "HwAddress", Deprecated: true, Get: (*Device).HwAddress},
		{Name: "TypeDescription", Get: (*Device).TypeDescription},
	},
	New: newGeneric,
}

// Generic is the hook set of generic devices. It caches the kernel's name
// for the link type as the type description.
type Generic struct {
	// typeDescription is written only while realizing.
	typeDescription string
}

var _ Hooks = (*Generic)(nil)

// NewGeneric creates an unrealized generic device for link. The device
// starts unmanaged by default.
func NewGeneric(link *platform.Link, p platform.Platform, pluginMissing bool) (*Device, error) {
	return newGeneric(GenericKind, link, p, Options{PluginMissing: pluginMissing})
}

func newGeneric(kind *Kind, link *platform.Link, p platform.Platform, opts Options) (*Device, error) {
	d, err := newDevice(kind, &Generic{}, link, p)
	if err != nil {
		return nil, err
	}
	d.pluginMissing = opts.PluginMissing
	d.SetUnmanaged(UnmanagedByDefault, true)
	return d, nil
}

// GenericCapabilities is CapCarrierDetect when the link can report
// carrier, else CapNone.
func (g *Generic) GenericCapabilities(d *Device) Capabilities {
	if d.Ifindex() > 0 && d.Platform() != nil && d.Platform().LinkSupportsCarrierDetect(d.Ifindex()) {
		return CapCarrierDetect
	}
	return CapNone
}

func (g *Generic) TypeDescription(d *Device) string {
	if g.typeDescription != "" {
		return g.typeDescription
	}
	return d.DefaultTypeDescription()
}

func (g *Generic) RealizeStartNotify(d *Device, link *platform.Link) {
	d.DefaultRealizeStartNotify(link)

	idx := d.IPIfindex()
	if idx <= 0 || d.Platform() == nil {
		return
	}
	// An index the platform does not know clears the cached name, so the
	// default description applies instead of a stale one.
	name, _ := d.Platform().LinkTypeName(idx)
	g.typeDescription = name
}

// CheckConnectionCompatible accepts profiles the base check accepts that
// name an interface. checkProperties only affects the base check.
func (g *Generic) CheckConnectionCompatible(d *Device, conn *setting.Connection, checkProperties bool) error {
	if err := d.DefaultCheckConnectionCompatible(conn, checkProperties); err != nil {
		return err
	}
	if conn.InterfaceName() == "" {
		return temporary(errGenericNeedsIface)
	}
	return nil
}

// UpdateConnection adds the generic marker if needed and binds conn to
// the device's interface, overwriting any previous binding.
func (g *Generic) UpdateConnection(d *Device, conn *setting.Connection) {
	conn.EnsureGeneric()
	conn.SetInterfaceName(d.Iface())
}
