package device

import (
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/setting"
)

// LoopbackKind handles the loopback interface.
var LoopbackKind = &Kind{
	Name:           "loopback",
	Description:    "Loopback",
	ConnectionType: setting.TypeLoopback,
	LinkTypes:      []platform.LinkType{platform.LinkTypeLoopback},
	Properties: []Property{
		{Name: "TypeDescription", Get: (*Device).TypeDescription},
	},
	New: newLoopback,
}

// Loopback is the hook set of the loopback device.
type Loopback struct {
	BaseHooks
}

func newLoopback(kind *Kind, link *platform.Link, p platform.Platform, opts Options) (*Device, error) {
	d, err := newDevice(kind, Loopback{}, link, p)
	if err != nil {
		return nil, err
	}
	d.pluginMissing = opts.PluginMissing
	return d, nil
}

// UpdateConnection makes conn a loopback profile for the device.
func (Loopback) UpdateConnection(d *Device, conn *setting.Connection) {
	if _, ok := conn.TypeSetting.(*setting.Loopback); !ok {
		conn.SetTypeSetting(&setting.Loopback{MTU: d.MTU()})
	}
	conn.SetInterfaceName(d.Iface())
}
