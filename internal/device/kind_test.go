package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/setting"
)

func TestRegistry_KindFor(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		linkType platform.LinkType
		want     *Kind
	}{
		{platform.LinkTypeLoopback, LoopbackKind},
		{platform.LinkTypeEthernet, GenericKind},
		{"dummy", GenericKind},
		{"vendortun", GenericKind},
		{platform.LinkTypeUnknown, GenericKind},
	}
	for _, tt := range tests {
		k, opts := r.KindFor(tt.linkType)
		assert.Same(t, tt.want, k, "link type %s", tt.linkType)
		assert.False(t, opts.PluginMissing)
	}
}

func TestRegistry_DisabledKindFallsBack(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.Disable("loopback"))

	k, opts := r.KindFor(platform.LinkTypeLoopback)
	assert.Same(t, GenericKind, k)
	assert.True(t, opts.PluginMissing)

	// Unrelated types are not flagged.
	_, opts = r.KindFor("dummy")
	assert.False(t, opts.PluginMissing)
}

func TestRegistry_Disable(t *testing.T) {
	r := DefaultRegistry()
	assert.ErrorContains(t, r.Disable("generic"), "fallback")
	assert.ErrorContains(t, r.Disable("wifi"), "unknown device kind")
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistry(LoopbackKind)
	k, _ := r.KindFor("dummy")
	assert.Nil(t, k)
}

func TestKind_Create(t *testing.T) {
	link := &platform.Link{Index: 1, Name: "lo", EncapType: "loopback", MTU: 65536}
	d, err := LoopbackKind.Create(link, platform.NewStatic(link), Options{})
	require.NoError(t, err)
	assert.Same(t, LoopbackKind, d.Kind())

	_, err = LoopbackKind.Create(nil, platform.NewStatic(), Options{})
	assert.ErrorIs(t, err, ErrNilLink)
}

func TestLoopback(t *testing.T) {
	link := &platform.Link{Index: 1, Name: "lo", EncapType: "loopback", MTU: 65536, CarrierDetect: true}
	p := platform.NewStatic(link)

	d, err := LoopbackKind.Create(link, p, Options{})
	require.NoError(t, err)
	assert.True(t, d.Managed())
	require.NoError(t, d.Realize(link))

	assert.Equal(t, CapNone, d.Capabilities())
	assert.Equal(t, "loopback", d.TypeDescription())

	c := setting.New("lo", setting.TypeLoopback)
	// The base check accepts profiles without an interface name.
	assert.NoError(t, d.CheckConnectionCompatible(c, true))

	d.UpdateConnection(c)
	lo, ok := c.TypeSetting.(*setting.Loopback)
	require.True(t, ok)
	assert.Equal(t, 65536, lo.MTU)
	assert.Equal(t, "lo", c.InterfaceName())

	g := setting.New("g", setting.TypeGeneric)
	assert.Error(t, d.CheckConnectionCompatible(g, false))
}

func TestCapabilitiesString(t *testing.T) {
	assert.Equal(t, "none", CapNone.String())
	assert.Equal(t, "carrier-detect", CapCarrierDetect.String())
	assert.Equal(t, []string{}, CapNone.Strings())
}

func TestDevice_SetUnmanaged(t *testing.T) {
	d, err := NewGeneric(eth7(), platform.NewStatic(), false)
	require.NoError(t, err)

	d.SetUnmanaged(UnmanagedUser, true)
	d.SetUnmanaged(UnmanagedByDefault, false)
	assert.False(t, d.Managed())
	d.SetUnmanaged(UnmanagedUser, false)
	assert.True(t, d.Managed())
}

func TestDevice_RealizeNil(t *testing.T) {
	d, err := NewGeneric(eth7(), platform.NewStatic(), false)
	require.NoError(t, err)
	assert.ErrorIs(t, d.Realize(nil), ErrNilLink)
	assert.Equal(t, StateUnrealized, d.State())
}

func TestDevice_Unrealize(t *testing.T) {
	d := realizedGeneric(t, platform.NewStatic(eth7()), eth7())
	d.Unrealize()
	assert.Equal(t, StateUnrealized, d.State())
	assert.Equal(t, 0, d.Ifindex())
	assert.Equal(t, CapNone, d.Capabilities())
	assert.Equal(t, "eth7", d.Iface())
}
