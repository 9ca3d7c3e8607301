package device

import (
	"fmt"

	"grimm.is/netdevd/internal/platform"
)

// Property is one published device attribute.
type Property struct {
	Name       string
	Deprecated bool
	Get        func(d *Device) string
}

// Options are passed to a kind's constructor.
type Options struct {
	// PluginMissing marks a device created by the fallback kind for a
	// link whose specialized kind is disabled.
	PluginMissing bool
}

// Kind describes one kind of device: which links it claims, which
// profiles it accepts and how to build it.
type Kind struct {
	Name        string
	Description string
	// ConnectionType is the profile type the kind accepts.
	ConnectionType string
	// LinkTypes are the link types the kind claims. LinkTypeAny makes the
	// kind the fallback.
	LinkTypes []platform.LinkType
	// Properties is the kind's published attribute table.
	Properties []Property

	New func(kind *Kind, link *platform.Link, p platform.Platform, opts Options) (*Device, error)
}

// Create builds an unrealized device of this kind for link.
func (k *Kind) Create(link *platform.Link, p platform.Platform, opts Options) (*Device, error) {
	return k.New(k, link, p, opts)
}

// Claims reports whether the kind explicitly claims lt.
func (k *Kind) Claims(lt platform.LinkType) bool {
	for _, t := range k.LinkTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// IsFallback reports whether the kind matches any link type.
func (k *Kind) IsFallback() bool {
	return k.Claims(platform.LinkTypeAny)
}

// Registry dispatches links to device kinds.
type Registry struct {
	kinds    []*Kind
	disabled map[string]bool
}

// NewRegistry returns a registry over kinds. Order matters only among
// specialized kinds claiming the same link type.
func NewRegistry(kinds ...*Kind) *Registry {
	return &Registry{
		kinds:    kinds,
		disabled: make(map[string]bool),
	}
}

// DefaultRegistry returns a registry with every built-in kind.
func DefaultRegistry() *Registry {
	return NewRegistry(LoopbackKind, GenericKind)
}

// Kinds returns the registered kinds.
func (r *Registry) Kinds() []*Kind {
	return append([]*Kind(nil), r.kinds...)
}

// Disable stops a specialized kind from claiming links.
func (r *Registry) Disable(name string) error {
	for _, k := range r.kinds {
		if k.Name != name {
			continue
		}
		if k.IsFallback() {
			return fmt.Errorf("kind %q is the fallback and cannot be disabled", name)
		}
		r.disabled[name] = true
		return nil
	}
	return fmt.Errorf("unknown device kind %q", name)
}

// KindFor returns the kind that handles links of type lt: the first
// enabled specialized kind claiming it, else the fallback kind. When the
// fallback is chosen because the specialized kind is disabled,
// Options.PluginMissing is set. KindFor returns nil if nothing matches.
func (r *Registry) KindFor(lt platform.LinkType) (*Kind, Options) {
	var opts Options
	for _, k := range r.kinds {
		if k.IsFallback() || !k.Claims(lt) {
			continue
		}
		if r.disabled[k.Name] {
			opts.PluginMissing = true
			continue
		}
		return k, Options{}
	}
	for _, k := range r.kinds {
		if k.IsFallback() {
			return k, opts
		}
	}
	return nil, opts
}
