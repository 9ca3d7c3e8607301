// Package metrics exposes the daemon's Prometheus instrumentation.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Compatibility check results.
const (
	ResultAccepted     = "accepted"
	ResultTemporary    = "temporary"
	ResultIncompatible = "incompatible"
)

// Registry holds all device manager metrics.
type Registry struct {
	// Devices
	Devices         *prometheus.GaugeVec
	Realizations    *prometheus.CounterVec
	CarrierDetect   *prometheus.GaugeVec
	LinkEventsTotal *prometheus.CounterVec

	// Profiles
	CompatChecks      *prometheus.CounterVec
	ProfilesGenerated *prometheus.CounterVec
	ProfilesStored    prometheus.Gauge

	// System
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
}

// Get returns the process-wide registry, registered with the default
// Prometheus registerer.
func Get() *Registry {
	once.Do(func() {
		registry = New(prometheus.DefaultRegisterer)
	})
	return registry
}

// New creates a registry whose collectors are registered with reg.
func New(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	r := &Registry{}

	r.Devices = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdevd_devices",
		Help: "Number of devices by kind and management state",
	}, []string{"kind", "managed"})

	r.Realizations = f.NewCounterVec(prometheus.CounterOpts{
		Name: "netdevd_device_realizations_total",
		Help: "Times a device was bound to a kernel link",
	}, []string{"kind"})

	r.CarrierDetect = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdevd_device_carrier_detect",
		Help: "1 if the device can report carrier state",
	}, []string{"device"})

	r.LinkEventsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "netdevd_link_events_total",
		Help: "Kernel link notifications processed",
	}, []string{"type"})

	r.CompatChecks = f.NewCounterVec(prometheus.CounterOpts{
		Name: "netdevd_compat_checks_total",
		Help: "Profile compatibility checks by device kind and result",
	}, []string{"kind", "result"})

	r.ProfilesGenerated = f.NewCounterVec(prometheus.CounterOpts{
		Name: "netdevd_profiles_generated_total",
		Help: "Profiles generated for discovered devices",
	}, []string{"kind"})

	r.ProfilesStored = f.NewGauge(prometheus.GaugeOpts{
		Name: "netdevd_profiles_stored",
		Help: "Profiles currently in the store",
	})

	r.APIRequests = f.NewCounterVec(prometheus.CounterOpts{
		Name: "netdevd_api_requests_total",
		Help: "Total API requests",
	}, []string{"method", "path", "status"})

	r.APILatency = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netdevd_api_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	return r
}

func (r *Registry) RecordCompatCheck(kind, result string) {
	r.CompatChecks.WithLabelValues(kind, result).Inc()
}

func (r *Registry) RecordRealization(device, kind string, carrierDetect bool) {
	r.Realizations.WithLabelValues(kind).Inc()
	v := 0.0
	if carrierDetect {
		v = 1
	}
	r.CarrierDetect.WithLabelValues(device).Set(v)
}

// ForgetDevice drops per-device series once the link is gone.
func (r *Registry) ForgetDevice(device string) {
	r.CarrierDetect.DeleteLabelValues(device)
}

// SetDeviceCounts replaces the device gauge with counts keyed by kind.
func (r *Registry) SetDeviceCounts(managed, unmanaged map[string]int) {
	r.Devices.Reset()
	for kind, n := range managed {
		r.Devices.WithLabelValues(kind, "true").Set(float64(n))
	}
	for kind, n := range unmanaged {
		r.Devices.WithLabelValues(kind, "false").Set(float64(n))
	}
}

func (r *Registry) RecordAPIRequest(method, path string, status int, duration float64) {
	r.APIRequests.WithLabelValues(method, path, statusString(status)).Inc()
	r.APILatency.WithLabelValues(method, path).Observe(duration)
}

func statusString(status int) string {
	return fmt.Sprintf("%d", status)
}
