package device

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/setting"
)

func eth7() *platform.Link {
	mac, _ := net.ParseMAC("02:00:00:00:00:07")
	return &platform.Link{
		Index:         7,
		Name:          "eth7",
		Kind:          "dummy",
		EncapType:     "ether",
		HardwareAddr:  mac,
		MTU:           1500,
		CarrierDetect: true,
	}
}

func realizedGeneric(t *testing.T, p platform.Platform, link *platform.Link) *Device {
	t.Helper()
	d, err := NewGeneric(link, p, false)
	require.NoError(t, err)
	require.NoError(t, d.Realize(link))
	return d
}

func TestNewGeneric_NilLink(t *testing.T) {
	d, err := NewGeneric(nil, platform.NewStatic(), false)
	assert.ErrorIs(t, err, ErrNilLink)
	assert.Nil(t, d)
}

func TestNewGeneric_UnmanagedByDefault(t *testing.T) {
	for _, missing := range []bool{false, true} {
		d, err := NewGeneric(eth7(), platform.NewStatic(), missing)
		require.NoError(t, err)
		assert.Equal(t, UnmanagedByDefault, d.Unmanaged()&UnmanagedByDefault)
		assert.False(t, d.Managed())
		assert.Equal(t, missing, d.PluginMissing())
		assert.Equal(t, StateUnrealized, d.State())
		assert.Equal(t, "eth7", d.Iface())
	}
}

func TestGenericCapabilities_Unrealized(t *testing.T) {
	// The platform supports carrier detect, but ifindex is not valid yet.
	p := platform.NewStatic(eth7())
	d, err := NewGeneric(eth7(), p, false)
	require.NoError(t, err)

	assert.Equal(t, 0, d.Ifindex())
	assert.Equal(t, CapNone, d.Capabilities())
}

func TestGenericCapabilities_NonPositiveIfindex(t *testing.T) {
	// A link at index 0 is accepted but never resolves capabilities.
	link := eth7()
	link.Index = 0
	p := platform.NewStatic(link)

	d := realizedGeneric(t, p, link)
	assert.Equal(t, CapNone, d.Capabilities())
}

func TestGenericCapabilities_FollowsPlatform(t *testing.T) {
	tests := []struct {
		name    string
		carrier bool
		want    Capabilities
	}{
		{"supported", true, CapCarrierDetect},
		{"unsupported", false, CapNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := eth7()
			link.CarrierDetect = tt.carrier
			d := realizedGeneric(t, platform.NewStatic(link), link)
			assert.Equal(t, tt.want, d.Capabilities())
		})
	}
}

func TestGenericCapabilities_UnknownLink(t *testing.T) {
	// The platform no longer knows the link.
	d := realizedGeneric(t, platform.NewStatic(), eth7())
	assert.Equal(t, CapNone, d.Capabilities())
}

func TestGenericTypeDescription(t *testing.T) {
	p := platform.NewStatic(eth7())
	d, err := NewGeneric(eth7(), p, false)
	require.NoError(t, err)

	// Before realization the base default is used.
	assert.Equal(t, "generic", d.TypeDescription())

	require.NoError(t, d.Realize(eth7()))
	first := d.TypeDescription()
	assert.Equal(t, "dummy", first)
	assert.Equal(t, first, d.TypeDescription())
}

func TestGenericTypeDescription_Rerealize(t *testing.T) {
	p := platform.NewStatic(eth7())
	d := realizedGeneric(t, p, eth7())
	require.Equal(t, "dummy", d.TypeDescription())

	// Same index: same description.
	require.NoError(t, d.Realize(eth7()))
	assert.Equal(t, "dummy", d.TypeDescription())

	// Recreated under the same name with a new index and type.
	vx := &platform.Link{Index: 12, Name: "eth7", Kind: "vxlan"}
	p.Set(vx)
	require.NoError(t, d.Realize(vx))
	assert.Equal(t, 12, d.Ifindex())
	assert.Equal(t, "vxlan", d.TypeDescription())
}

func TestGenericTypeDescription_UnknownIndexClearsCache(t *testing.T) {
	p := platform.NewStatic(eth7())
	d := realizedGeneric(t, p, eth7())
	require.Equal(t, "dummy", d.TypeDescription())

	p.Remove(7)
	require.NoError(t, d.Realize(eth7()))
	assert.Equal(t, "generic", d.TypeDescription())
}

func TestGenericTypeDescription_NoIPIfindex(t *testing.T) {
	link := eth7()
	link.Index = 0
	d := realizedGeneric(t, platform.NewStatic(link), link)
	assert.Equal(t, "generic", d.TypeDescription())
}

func TestGenericTypeDescription_EncapFallback(t *testing.T) {
	link := &platform.Link{Index: 3, Name: "gre0", EncapType: "ipgre"}
	d := realizedGeneric(t, platform.NewStatic(link), link)
	assert.Equal(t, "gre", d.TypeDescription())
}

func TestGenericCompatible_RequiresInterfaceName(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	c := setting.New("lab", setting.TypeGeneric)
	c.EnsureGeneric()
	require.NoError(t, d.DefaultCheckConnectionCompatible(c, true), "base check accepts")

	for _, checkProperties := range []bool{false, true} {
		err := d.CheckConnectionCompatible(c, checkProperties)
		require.Error(t, err)
		assert.True(t, IsTemporary(err))
		assert.EqualError(t, err, "generic profiles need an interface name")

		var ce *CompatError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ErrKindTemporary, ce.Kind)
	}
}

func TestGenericCompatible_Accepts(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	c := setting.New("lab", setting.TypeGeneric)
	c.EnsureGeneric()
	c.SetInterfaceName("eth7")

	assert.NoError(t, d.CheckConnectionCompatible(c, true))
	assert.NoError(t, d.CheckConnectionCompatible(c, false))
	assert.True(t, d.Compatible(c, true))
}

func TestGenericCompatible_AcceptsWithoutMarker(t *testing.T) {
	// A profile declared generic but lacking the marker is tolerated.
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	c := setting.New("lab", setting.TypeGeneric)
	c.SetInterfaceName("eth7")
	assert.False(t, c.HasGeneric())
	assert.NoError(t, d.CheckConnectionCompatible(c, true))
}

func TestGenericCompatible_BaseRejectionPropagates(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	tests := []struct {
		name string
		conn func() *setting.Connection
	}{
		{"wrong type", func() *setting.Connection {
			c := setting.New("lo", setting.TypeLoopback)
			c.SetTypeSetting(&setting.Loopback{})
			return c
		}},
		{"other interface", func() *setting.Connection {
			c := setting.New("lab", setting.TypeGeneric)
			c.SetInterfaceName("eth8")
			return c
		}},
		{"wrong type without name", func() *setting.Connection {
			return setting.New("lo", setting.TypeLoopback)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.conn()
			want := d.DefaultCheckConnectionCompatible(c, true)
			require.Error(t, want)

			err := d.CheckConnectionCompatible(c, true)
			assert.Equal(t, want, err)
			assert.False(t, IsTemporary(err))
		})
	}
}

func TestGenericCompatible_CheckPropertiesOnlyAffectsBase(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	// Missing ID fails verification.
	c := setting.New("", setting.TypeGeneric)
	c.SetInterfaceName("eth7")

	assert.NoError(t, d.CheckConnectionCompatible(c, false))
	err := d.CheckConnectionCompatible(c, true)
	require.Error(t, err)
	assert.False(t, IsTemporary(err))

	var verr *setting.VerifyError
	assert.ErrorAs(t, err, &verr)
}

func TestGenericUpdateConnection(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	t.Run("adds marker and name", func(t *testing.T) {
		c := setting.New("lab", setting.TypeGeneric)
		d.UpdateConnection(c)
		assert.True(t, c.HasGeneric())
		assert.Equal(t, "eth7", c.InterfaceName())
	})

	t.Run("overwrites name", func(t *testing.T) {
		c := setting.New("lab", setting.TypeGeneric)
		c.SetInterfaceName("wrong0")
		d.UpdateConnection(c)
		assert.Equal(t, "eth7", c.InterfaceName())
	})

	t.Run("keeps existing marker", func(t *testing.T) {
		c := setting.New("lab", setting.TypeGeneric)
		c.EnsureGeneric()
		marker := c.Generic()

		d.UpdateConnection(c)
		d.UpdateConnection(c)
		assert.Same(t, marker, c.Generic())
		assert.Equal(t, setting.TypeGeneric, c.Type())
	})
}

func TestGenericProperties(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())

	props := d.Properties()
	assert.Equal(t, "02:00:00:00:00:07", props["HwAddress"])
	assert.Equal(t, "dummy", props["TypeDescription"])
	assert.Equal(t, "carrier-detect", props["Capabilities"])
	assert.Equal(t, "realized", props["State"])

	var deprecated []string
	for _, p := range GenericKind.Properties {
		if p.Deprecated {
			deprecated = append(deprecated, p.Name)
		}
	}
	assert.Equal(t, []string{"HwAddress"}, deprecated)
}

func TestGenericKindRegistration(t *testing.T) {
	assert.Equal(t, setting.TypeGeneric, GenericKind.ConnectionType)
	assert.True(t, GenericKind.IsFallback())
}

// TestGenericScenario walks a dummy link named eth7 from discovery to a
// compatible profile.
func TestGenericScenario(t *testing.T) {
	p := platform.NewStatic(eth7())
	d := realizedGeneric(t, p, eth7())

	assert.Equal(t, CapCarrierDetect, d.Capabilities())
	assert.Equal(t, "dummy", d.TypeDescription())

	c := setting.New("lab", setting.TypeGeneric)
	err := d.CheckConnectionCompatible(c, true)
	require.Error(t, err)
	assert.True(t, IsTemporary(err))
	assert.Equal(t, "generic profiles need an interface name", err.Error())

	d.UpdateConnection(c)
	assert.Equal(t, "eth7", c.InterfaceName())
	assert.True(t, c.HasGeneric())

	assert.NoError(t, d.CheckConnectionCompatible(c, true))
}
