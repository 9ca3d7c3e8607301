package setting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SettingConnection holds the identity of a profile.
type SettingConnection struct {
	ID   string `json:"id"`
	UUID string `json:"uuid"`
	// Type is the declared connection type. It may be set before the
	// matching type setting has been added.
	Type          string `json:"type"`
	InterfaceName string `json:"interface_name,omitempty"`
	Autoconnect   bool   `json:"autoconnect"`
}

// Connection is a connection profile.
type Connection struct {
	Conn        SettingConnection
	TypeSetting TypeSetting
}

// New returns a profile with a fresh UUID and the given declared type.
func New(id, connType string) *Connection {
	return &Connection{
		Conn: SettingConnection{
			ID:          id,
			UUID:        uuid.NewString(),
			Type:        connType,
			Autoconnect: true,
		},
	}
}

// Type returns the type setting's name when present, else the declared type.
func (c *Connection) Type() string {
	if c.TypeSetting != nil {
		return c.TypeSetting.Name()
	}
	return c.Conn.Type
}

// InterfaceName returns the interface the profile is bound to, or "".
func (c *Connection) InterfaceName() string {
	return c.Conn.InterfaceName
}

// SetInterfaceName binds the profile to an interface.
func (c *Connection) SetInterfaceName(name string) {
	c.Conn.InterfaceName = name
}

// Generic returns the generic marker, or nil.
func (c *Connection) Generic() *Generic {
	g, _ := c.TypeSetting.(*Generic)
	return g
}

// HasGeneric reports whether the profile carries the generic marker.
func (c *Connection) HasGeneric() bool {
	return c.Generic() != nil
}

// EnsureGeneric adds the generic marker if it is absent. It returns true
// when the marker was added. Any other type setting is replaced, and the
// declared type follows.
func (c *Connection) EnsureGeneric() bool {
	if c.HasGeneric() {
		return false
	}
	c.SetTypeSetting(NewGeneric())
	return true
}

// SetTypeSetting replaces the type setting and keeps the declared type in sync.
func (c *Connection) SetTypeSetting(ts TypeSetting) {
	c.TypeSetting = ts
	if ts != nil {
		c.Conn.Type = ts.Name()
	}
}

// Clone returns a deep copy.
func (c *Connection) Clone() *Connection {
	out := &Connection{Conn: c.Conn}
	if c.TypeSetting != nil {
		out.TypeSetting = c.TypeSetting.clone()
	}
	return out
}

// String identifies the profile in logs.
func (c *Connection) String() string {
	return fmt.Sprintf("%s (%s)", c.Conn.ID, c.Conn.UUID)
}

// VerifyError describes why a profile is invalid.
type VerifyError struct {
	Property string
	Message  string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("connection.%s: %s", e.Property, e.Message)
}

// ErrInvalidInterfaceName is wrapped by ValidateInterfaceName failures.
var ErrInvalidInterfaceName = errors.New("invalid interface name")

// Verify checks the profile's properties.
func (c *Connection) Verify() error {
	if strings.TrimSpace(c.Conn.ID) == "" {
		return &VerifyError{Property: "id", Message: "property is missing"}
	}
	if _, err := uuid.Parse(c.Conn.UUID); err != nil {
		return &VerifyError{Property: "uuid", Message: fmt.Sprintf("%q is not a valid UUID", c.Conn.UUID)}
	}
	if c.Conn.Type == "" && c.TypeSetting == nil {
		return &VerifyError{Property: "type", Message: "property is missing"}
	}
	if c.TypeSetting != nil && c.Conn.Type != "" && c.Conn.Type != c.TypeSetting.Name() {
		return &VerifyError{
			Property: "type",
			Message:  fmt.Sprintf("declared type %q does not match %q setting", c.Conn.Type, c.TypeSetting.Name()),
		}
	}
	if _, ok := NewTypeSetting(c.Type()); !ok {
		return &VerifyError{Property: "type", Message: fmt.Sprintf("unknown connection type %q", c.Type())}
	}
	if c.Conn.InterfaceName != "" {
		if err := ValidateInterfaceName(c.Conn.InterfaceName); err != nil {
			return &VerifyError{Property: "interface-name", Message: err.Error()}
		}
	}
	return nil
}

// ValidateInterfaceName checks a kernel interface name: 1-15 bytes, no
// whitespace, no '/' or ':', and not "." or "..".
func ValidateInterfaceName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidInterfaceName)
	case len(name) > 15:
		return fmt.Errorf("%w: %q is longer than 15 bytes", ErrInvalidInterfaceName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidInterfaceName, name)
	case strings.ContainsAny(name, "/: \t\n"):
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidInterfaceName, name)
	}
	return nil
}
