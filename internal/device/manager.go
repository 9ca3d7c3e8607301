package device

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/metrics"
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/profile"
	"grimm.is/netdevd/internal/setting"
)

// Override is per-interface policy from configuration.
type Override struct {
	Managed         bool
	GenerateProfile bool
}

// ManagerOptions configures a Manager. Hub and Metrics may be nil.
type ManagerOptions struct {
	Platform  platform.Platform
	Registry  *Registry
	Store     profile.Store
	Hub       *events.Hub
	Metrics   *metrics.Registry
	Overrides map[string]Override
}

// Info is a snapshot of a device for callers outside the manager.
type Info struct {
	Name            string            `json:"name"`
	Ifindex         int               `json:"ifindex"`
	Kind            string            `json:"kind"`
	State           string            `json:"state"`
	Managed         bool              `json:"managed"`
	PluginMissing   bool              `json:"plugin_missing,omitempty"`
	Capabilities    []string          `json:"capabilities"`
	TypeDescription string            `json:"type_description"`
	HwAddress       string            `json:"hw_address,omitempty"`
	Properties      map[string]string `json:"properties"`
}

// Manager owns every device. It creates devices for kernel links, matches
// stored profiles against them and retries temporarily rejected pairings
// when a profile changes.
type Manager struct {
	platform  platform.Platform
	registry  *Registry
	store     profile.Store
	hub       *events.Hub
	metrics   *metrics.Registry
	overrides map[string]Override
	log       *logging.Logger

	mu      sync.Mutex
	devices map[string]*Device
	// pending maps a profile UUID to the devices that rejected it
	// temporarily.
	pending map[string]map[string]bool
}

// NewManager creates a manager.
func NewManager(opts ManagerOptions) *Manager {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	overrides := opts.Overrides
	if overrides == nil {
		overrides = make(map[string]Override)
	}
	return &Manager{
		platform:  opts.Platform,
		registry:  reg,
		store:     opts.Store,
		hub:       opts.Hub,
		metrics:   opts.Metrics,
		overrides: overrides,
		log:       logging.WithComponent("manager"),
		devices:   make(map[string]*Device),
		pending:   make(map[string]map[string]bool),
	}
}

// Run consumes link events until ctx is cancelled or the channel closes.
func (m *Manager) Run(ctx context.Context, linkEvents <-chan platform.LinkEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-linkEvents:
			if !ok {
				return nil
			}
			m.handleEvent(e)
		}
	}
}

func (m *Manager) handleEvent(e platform.LinkEvent) {
	if m.metrics != nil {
		m.metrics.LinkEventsTotal.WithLabelValues(string(e.Type)).Inc()
	}
	switch e.Type {
	case platform.LinkAdded, platform.LinkChanged:
		if _, err := m.HandleLink(e.Link); err != nil {
			m.log.Warn("failed to handle link", "link", e.Link.Name, "error", err)
		}
	case platform.LinkRemoved:
		m.removeLinkIndex(e.Link.Name, e.Link.Index)
	}
}

// removeLinkIndex drops the named device only while it still holds ifindex.
// A removal for an index the name has already moved away from is stale.
func (m *Manager) removeLinkIndex(name string, ifindex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[name]
	if !ok || d.Ifindex() != ifindex {
		return false
	}
	return m.removeLocked(name)
}

// Sync reconciles the devices with the platform's current links, typically
// right after a Refresh. Every link is handled and devices whose link the
// platform no longer knows are removed, which recovers events dropped on a
// full subscriber channel.
func (m *Manager) Sync() {
	for _, l := range m.platform.Links() {
		if _, err := m.HandleLink(l); err != nil {
			m.log.Warn("failed to handle link", "link", l.Name, "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.devices {
		if _, ok := m.platform.LinkByName(name); !ok {
			m.removeLocked(name)
		}
	}
	m.log.Info("devices synced", "count", len(m.devices))
}

// HandleLink creates a device for link, or re-realizes the existing
// device of the same name.
func (m *Manager) HandleLink(link *platform.Link) (Info, error) {
	if link == nil {
		return Info{}, ErrNilLink
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A rename keeps the ifindex; drop the device under its old name.
	for name, d := range m.devices {
		if name != link.Name && d.Ifindex() == link.Index {
			m.removeLocked(name)
		}
	}

	d, exists := m.devices[link.Name]
	if !exists {
		kind, opts := m.registry.KindFor(link.Type())
		if kind == nil {
			return Info{}, fmt.Errorf("no device kind handles link %s of type %s", link.Name, link.Type())
		}
		var err error
		d, err = kind.Create(link, m.platform, opts)
		if err != nil {
			return Info{}, fmt.Errorf("failed to create %s device for %s: %w", kind.Name, link.Name, err)
		}
		m.applyOverride(d)
		m.devices[link.Name] = d
		m.log.Info("device added", "iface", link.Name, "kind", kind.Name, "plugin_missing", opts.PluginMissing)
		m.emitDevice(events.EventDeviceAdded, d)
	}

	before := d.Properties()
	if err := d.Realize(link); err != nil {
		return Info{}, err
	}
	m.emitDevice(events.EventDeviceRealized, d)
	m.emitPropertyChanges(d, before)

	if m.metrics != nil {
		m.metrics.RecordRealization(d.Iface(), d.Kind().Name, d.Capabilities().Has(CapCarrierDetect))
	}
	m.updateCountsLocked()

	if o, ok := m.overrides[d.Iface()]; ok && o.GenerateProfile && !exists {
		m.ensureProfileLocked(d)
	}
	return infoFor(d), nil
}

// ensureProfileLocked stores a generated profile for d unless a stored
// profile is already compatible with it.
func (m *Manager) ensureProfileLocked(d *Device) {
	if m.store == nil {
		return
	}
	conns, err := m.store.List()
	if err != nil {
		m.log.Warn("failed to list profiles", "error", err)
		return
	}
	for _, c := range conns {
		if d.Compatible(c, true) {
			return
		}
	}
	if _, err := m.generateLocked(d); err != nil {
		m.log.Warn("failed to generate profile", "iface", d.Iface(), "error", err)
	}
}

func (m *Manager) applyOverride(d *Device) {
	o, ok := m.overrides[d.Iface()]
	if !ok {
		return
	}
	if o.Managed {
		d.SetUnmanaged(UnmanagedByDefault, false)
	}
}

// RemoveLink forgets the device of the named link. It reports whether a
// device existed.
func (m *Manager) RemoveLink(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(name)
}

func (m *Manager) removeLocked(name string) bool {
	d, ok := m.devices[name]
	if !ok {
		return false
	}
	delete(m.devices, name)
	for uuid, devs := range m.pending {
		delete(devs, name)
		if len(devs) == 0 {
			delete(m.pending, uuid)
		}
	}
	d.Unrealize()
	if m.metrics != nil {
		m.metrics.ForgetDevice(name)
	}
	m.updateCountsLocked()
	m.log.Info("device removed", "iface", name)
	m.emitDevice(events.EventDeviceRemoved, d)
	return true
}

// Devices returns a snapshot of every device, ordered by name.
func (m *Manager) Devices() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Info, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, infoFor(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Device returns a snapshot of the named device.
func (m *Manager) Device(name string) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[name]
	if !ok {
		return Info{}, false
	}
	return infoFor(d), true
}

// SetManaged brings a device under management or releases it.
func (m *Manager) SetManaged(name string, managed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d.SetUnmanaged(UnmanagedUser, !managed)
	if managed {
		d.SetUnmanaged(UnmanagedByDefault, false)
	}
	m.updateCountsLocked()
	m.emitDevice(events.EventDeviceManaged, d)
	return nil
}

// AvailableConnections returns the stored profiles compatible with the
// named device. Profiles rejected temporarily are remembered and
// re-checked by ProfileChanged.
func (m *Manager) AvailableConnections(name string) ([]*setting.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if m.store == nil {
		return nil, nil
	}
	conns, err := m.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var out []*setting.Connection
	for _, c := range conns {
		if m.checkLocked(d, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// checkLocked runs the compatibility check and records its outcome.
func (m *Manager) checkLocked(d *Device, c *setting.Connection) bool {
	err := d.CheckConnectionCompatible(c, true)
	uuid := c.Conn.UUID

	switch {
	case err == nil:
		m.recordCheck(d, metrics.ResultAccepted)
		if m.pending[uuid][d.Iface()] {
			delete(m.pending[uuid], d.Iface())
			if len(m.pending[uuid]) == 0 {
				delete(m.pending, uuid)
			}
			m.emitProfile(events.EventProfileCompatible, c, d, "")
		}
		return true
	case IsTemporary(err):
		m.recordCheck(d, metrics.ResultTemporary)
		if m.pending[uuid] == nil {
			m.pending[uuid] = make(map[string]bool)
		}
		if !m.pending[uuid][d.Iface()] {
			m.pending[uuid][d.Iface()] = true
			m.log.Info("profile needs more configuration", "profile", c.String(), "iface", d.Iface(), "reason", err.Error())
			m.emitProfile(events.EventProfileUnavailable, c, d, err.Error())
		}
	default:
		m.recordCheck(d, metrics.ResultIncompatible)
		if devs := m.pending[uuid]; devs != nil {
			delete(devs, d.Iface())
			if len(devs) == 0 {
				delete(m.pending, uuid)
			}
		}
		m.log.Debug("profile incompatible", "profile", c.String(), "iface", d.Iface(), "reason", err.Error())
	}
	return false
}

// Pending returns the devices that temporarily rejected a profile.
func (m *Manager) Pending(uuid string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for name := range m.pending[uuid] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ProfileChanged re-checks a profile against the devices that rejected it
// temporarily and returns those that now accept it.
func (m *Manager) ProfileChanged(uuid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profileChangedLocked(uuid)
}

func (m *Manager) profileChangedLocked(uuid string) ([]string, error) {
	devs := m.pending[uuid]
	if len(devs) == 0 {
		return nil, nil
	}
	if m.store == nil {
		return nil, nil
	}
	c, err := m.store.Get(uuid)
	if errors.Is(err, profile.ErrNotFound) {
		delete(m.pending, uuid)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(devs))
	for name := range devs {
		names = append(names, name)
	}
	sort.Strings(names)

	var accepted []string
	for _, name := range names {
		d, ok := m.devices[name]
		if !ok {
			continue
		}
		if m.checkLocked(d, c) {
			accepted = append(accepted, name)
		}
	}
	return accepted, nil
}

// GenerateConnection creates, stores and returns a profile describing the
// named device.
func (m *Manager) GenerateConnection(name string) (*setting.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m.generateLocked(d)
}

func (m *Manager) generateLocked(d *Device) (*setting.Connection, error) {
	if m.store == nil {
		return nil, errors.New("no profile store")
	}
	c := setting.New(d.Iface(), d.Kind().ConnectionType)
	d.UpdateConnection(c)
	if err := m.store.Save(c); err != nil {
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.ProfilesGenerated.WithLabelValues(d.Kind().Name).Inc()
	}
	m.log.Info("profile generated", "profile", c.String(), "iface", d.Iface())
	m.emitProfile(events.EventProfileUpdated, c, d, "")
	return c, nil
}

// RepairConnection rewrites a stored profile to describe the named device,
// saves it and re-checks pending pairings.
func (m *Manager) RepairConnection(name, uuid string) (*setting.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if m.store == nil {
		return nil, errors.New("no profile store")
	}
	c, err := m.store.Get(uuid)
	if err != nil {
		return nil, err
	}
	d.UpdateConnection(c)
	if err := m.store.Save(c); err != nil {
		return nil, err
	}
	m.emitProfile(events.EventProfileUpdated, c, d, "")
	if _, err := m.profileChangedLocked(uuid); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) recordCheck(d *Device, result string) {
	if m.metrics != nil {
		m.metrics.RecordCompatCheck(d.Kind().Name, result)
	}
}

func (m *Manager) updateCountsLocked() {
	if m.metrics == nil {
		return
	}
	managed := make(map[string]int)
	unmanaged := make(map[string]int)
	for _, d := range m.devices {
		if d.Managed() {
			managed[d.Kind().Name]++
		} else {
			unmanaged[d.Kind().Name]++
		}
	}
	m.metrics.SetDeviceCounts(managed, unmanaged)
}

func (m *Manager) emitDevice(t events.EventType, d *Device) {
	if m.hub != nil {
		m.hub.EmitDevice(t, d.Iface(), d.Ifindex(), d.Kind().Name, d.Managed())
	}
}

func (m *Manager) emitPropertyChanges(d *Device, before map[string]string) {
	if m.hub == nil {
		return
	}
	after := d.Properties()
	names := make([]string, 0, len(after))
	for name := range after {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if before[name] != after[name] {
			m.hub.EmitProperty(d.Iface(), name, after[name])
		}
	}
}

func (m *Manager) emitProfile(t events.EventType, c *setting.Connection, d *Device, reason string) {
	if m.hub != nil {
		m.hub.EmitProfile(t, c.Conn.UUID, c.Conn.ID, d.Iface(), reason)
	}
}

func infoFor(d *Device) Info {
	return Info{
		Name:            d.Iface(),
		Ifindex:         d.Ifindex(),
		Kind:            d.Kind().Name,
		State:           d.State().String(),
		Managed:         d.Managed(),
		PluginMissing:   d.PluginMissing(),
		Capabilities:    d.Capabilities().Strings(),
		TypeDescription: d.TypeDescription(),
		HwAddress:       d.HwAddress(),
		Properties:      d.Properties(),
	}
}
