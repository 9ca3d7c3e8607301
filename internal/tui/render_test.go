package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"grimm.is/netdevd/internal/device"
)

func TestRenderDevices(t *testing.T) {
	out := RenderDevices([]device.Info{
		{Name: "eth7", Ifindex: 7, Kind: "generic", TypeDescription: "dummy", State: "realized", Capabilities: []string{"carrier-detect"}},
		{Name: "lo", Ifindex: 1, Kind: "generic", PluginMissing: true, TypeDescription: "loopback", State: "realized", Managed: true, Capabilities: []string{}},
	})

	assert.Contains(t, out, "DEVICE")
	assert.Contains(t, out, "eth7")
	assert.Contains(t, out, "carrier-detect")
	assert.Contains(t, out, "generic (plugin missing)")
	assert.Contains(t, out, "none")
}

func TestRenderProperties_Sorted(t *testing.T) {
	out := RenderProperties(device.Info{
		Name: "eth7",
		Properties: map[string]string{
			"TypeDescription": "dummy",
			"HwAddress":       "02:00:00:00:00:07",
			"Ifindex":         "7",
		},
	})

	hw := strings.Index(out, "HwAddress")
	idx := strings.Index(out, "Ifindex")
	td := strings.Index(out, "TypeDescription")
	assert.True(t, hw >= 0 && hw < idx && idx < td, "properties not sorted:\n%s", out)
}
