package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"grimm.is/netdevd/internal/setting"
)

// ErrMultipleTypes is returned for documents carrying more than one type block.
var ErrMultipleTypes = errors.New("profile declares more than one connection type")

// Document is the serialized form of a profile shared by the store, the
// profile files and the API.
type Document struct {
	Connection ConnectionDoc `json:"connection" yaml:"connection"`
	Generic    *GenericDoc   `json:"generic,omitempty" yaml:"generic,omitempty"`
	Loopback   *LoopbackDoc  `json:"loopback,omitempty" yaml:"loopback,omitempty"`
}

// ConnectionDoc mirrors setting.SettingConnection.
type ConnectionDoc struct {
	ID            string `json:"id" yaml:"id"`
	UUID          string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	InterfaceName string `json:"interface_name,omitempty" yaml:"interface_name,omitempty"`
	Autoconnect   *bool  `json:"autoconnect,omitempty" yaml:"autoconnect,omitempty"`
}

// GenericDoc is the generic marker. It has no fields.
type GenericDoc struct{}

// LoopbackDoc carries the loopback type setting.
type LoopbackDoc struct {
	MTU int `json:"mtu,omitempty" yaml:"mtu,omitempty"`
}

// NewDocument converts a profile to its document form.
func NewDocument(c *setting.Connection) *Document {
	autoconnect := c.Conn.Autoconnect
	doc := &Document{
		Connection: ConnectionDoc{
			ID:            c.Conn.ID,
			UUID:          c.Conn.UUID,
			Type:          c.Conn.Type,
			InterfaceName: c.Conn.InterfaceName,
			Autoconnect:   &autoconnect,
		},
	}
	switch ts := c.TypeSetting.(type) {
	case *setting.Generic:
		doc.Generic = &GenericDoc{}
	case *setting.Loopback:
		doc.Loopback = &LoopbackDoc{MTU: ts.MTU}
	}
	return doc
}

// ToConnection converts the document back to a profile. A missing UUID is
// derived from the profile ID so that re-importing the same file yields
// the same profile.
func (d *Document) ToConnection() (*setting.Connection, error) {
	var ts setting.TypeSetting
	n := 0
	if d.Generic != nil {
		ts = setting.NewGeneric()
		n++
	}
	if d.Loopback != nil {
		ts = &setting.Loopback{MTU: d.Loopback.MTU}
		n++
	}
	if n > 1 {
		return nil, ErrMultipleTypes
	}

	c := &setting.Connection{
		Conn: setting.SettingConnection{
			ID:            d.Connection.ID,
			UUID:          d.Connection.UUID,
			Type:          d.Connection.Type,
			InterfaceName: d.Connection.InterfaceName,
			Autoconnect:   true,
		},
	}
	if d.Connection.Autoconnect != nil {
		c.Conn.Autoconnect = *d.Connection.Autoconnect
	}
	if c.Conn.UUID == "" {
		if c.Conn.ID == "" {
			return nil, fmt.Errorf("profile has neither id nor uuid")
		}
		c.Conn.UUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("netdevd:profile:"+c.Conn.ID)).String()
	}
	if ts != nil {
		if c.Conn.Type != "" && c.Conn.Type != ts.Name() {
			return nil, fmt.Errorf("profile %q: declared type %q conflicts with %s block", c.Conn.ID, c.Conn.Type, ts.Name())
		}
		c.SetTypeSetting(ts)
	}
	return c, nil
}
