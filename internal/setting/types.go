package setting

// Type names for the supported connection types.
const (
	TypeGeneric  = "generic"
	TypeLoopback = "loopback"
)

// TypeSetting is the connection-type variant of a profile.
type TypeSetting interface {
	// Name returns the connection type name, e.g. "generic".
	Name() string
	clone() TypeSetting
	typeSetting()
}

// Generic marks a profile as applicable to generic devices. It has no
// fields; only its presence matters.
type Generic struct{}

// NewGeneric returns an empty generic marker.
func NewGeneric() *Generic {
	return &Generic{}
}

func (*Generic) Name() string { return TypeGeneric }
func (*Generic) clone() TypeSetting { return &Generic{} }
func (*Generic) typeSetting() {}

// Loopback is the type setting for the loopback device.
type Loopback struct {
	MTU int `json:"mtu,omitempty"`
}

func (*Loopback) Name() string { return TypeLoopback }
func (l *Loopback) clone() TypeSetting {
	c := *l
	return &c
}
func (*Loopback) typeSetting() {}

// NewTypeSetting returns an empty type setting for a type name.
func NewTypeSetting(name string) (TypeSetting, bool) {
	switch name {
	case TypeGeneric:
		return NewGeneric(), true
	case TypeLoopback:
		return &Loopback{}, true
	}
	return nil, false
}
