package platform

import (
	"net"

	"github.com/vishvananda/netlink"
)

// LinkType names a class of kernel link, e.g. "ethernet" or "dummy".
type LinkType string

const (
	LinkTypeAny      LinkType = "*"
	LinkTypeUnknown  LinkType = "unknown"
	LinkTypeEthernet LinkType = "ethernet"
	LinkTypeLoopback LinkType = "loopback"
)

// encapTypeNames maps ARPHRD names reported by netlink to link type names
// for links that carry no IFLA_INFO_KIND.
var encapTypeNames = map[string]string{
	"ether":      "ethernet",
	"loopback":   "loopback",
	"infiniband": "infiniband",
	"ipip":       "ipip",
	"sit":        "sit",
	"ipgre":      "gre",
	"ip6gre":     "ip6gre",
	"tunnel6":    "ip6tnl",
	"ppp":        "ppp",
	"ieee802.11": "wifi",
	"ieee802154": "wpan",
	"6lowpan":    "6lowpan",
	"can":        "can",
	"none":       "unknown",
}

// Link is one mirrored kernel link.
type Link struct {
	Index        int              `json:"index"`
	Name         string           `json:"name"`
	Kind         string           `json:"kind,omitempty"`
	EncapType    string           `json:"encap_type,omitempty"`
	HardwareAddr net.HardwareAddr `json:"hw_address,omitempty"`
	MTU          int              `json:"mtu"`
	Up           bool             `json:"up"`
	Carrier      bool             `json:"carrier"`

	// CarrierDetect records whether the link can report carrier changes.
	// It is probed once when the link enters the mirror.
	CarrierDetect bool `json:"carrier_detect"`
}

// TypeName returns the link's kind, or a name derived from its
// encapsulation, or "unknown".
func (l *Link) TypeName() string {
	if l.Kind != "" {
		return l.Kind
	}
	if name, ok := encapTypeNames[l.EncapType]; ok {
		return name
	}
	return string(LinkTypeUnknown)
}

// Type returns the link type used to pick a device kind.
func (l *Link) Type() LinkType {
	return LinkType(l.TypeName())
}

// Clone returns a copy that shares nothing with l.
func (l *Link) Clone() *Link {
	c := *l
	if l.HardwareAddr != nil {
		c.HardwareAddr = append(net.HardwareAddr(nil), l.HardwareAddr...)
	}
	return &c
}

// FromNetlink converts a netlink link into a mirror record.
func FromNetlink(nl netlink.Link) *Link {
	attrs := nl.Attrs()
	kind := nl.Type()
	if kind == "device" {
		// netlink reports "device" for links without IFLA_INFO_KIND.
		kind = ""
	}
	return &Link{
		Index:        attrs.Index,
		Name:         attrs.Name,
		Kind:         kind,
		EncapType:    attrs.EncapType,
		HardwareAddr: attrs.HardwareAddr,
		MTU:          attrs.MTU,
		Up:           attrs.Flags&net.FlagUp != 0,
		Carrier:      attrs.OperState == netlink.OperUp,
	}
}
