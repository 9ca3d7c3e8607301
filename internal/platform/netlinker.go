package platform

import (
	"github.com/vishvananda/netlink"
)

// LinkUpdate is a link notification from the kernel.
type LinkUpdate struct {
	Deleted bool
	Link    netlink.Link
}

// Netlinker abstracts the netlink calls the mirror needs.
// This allows for mocking netlink during unit testing.
type Netlinker interface {
	LinkList() ([]netlink.Link, error)
	LinkByIndex(index int) (netlink.Link, error)
	// LinkSubscribe delivers updates on ch until done is closed.
	LinkSubscribe(ch chan<- LinkUpdate, done <-chan struct{}) error
	Close()
}

// CarrierProber tells whether a link can report carrier state.
type CarrierProber interface {
	SupportsCarrierDetect(name string) bool
}
