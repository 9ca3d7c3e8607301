package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_CompatChecks(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordCompatCheck("generic", ResultTemporary)
	r.RecordCompatCheck("generic", ResultTemporary)
	r.RecordCompatCheck("generic", ResultAccepted)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.CompatChecks.WithLabelValues("generic", ResultTemporary)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CompatChecks.WithLabelValues("generic", ResultAccepted)))
}

func TestRegistry_Realization(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordRealization("eth7", "generic", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CarrierDetect.WithLabelValues("eth7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Realizations.WithLabelValues("generic")))

	r.ForgetDevice("eth7")
	assert.Equal(t, 0, testutil.CollectAndCount(r.CarrierDetect))
}

func TestRegistry_DeviceCounts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.SetDeviceCounts(map[string]int{"loopback": 1}, map[string]int{"generic": 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(r.Devices.WithLabelValues("generic", "false")))

	r.SetDeviceCounts(nil, map[string]int{"generic": 1})
	assert.Equal(t, 1, testutil.CollectAndCount(r.Devices))
}

func TestRegistry_Isolated(t *testing.T) {
	// Two registries on separate registerers must not collide.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
