//go:build !linux

package platform

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// RealNetlinker is a stub; there is no netlink outside Linux.
type RealNetlinker struct{}

// NewNetlinker returns a stub that reports no links.
func NewNetlinker(nsPath string) (*RealNetlinker, error) {
	if nsPath != "" {
		return nil, fmt.Errorf("network namespaces are not supported on this platform")
	}
	return &RealNetlinker{}, nil
}

func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return nil, nil
}

func (r *RealNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	return nil, fmt.Errorf("LinkByIndex not supported on this platform")
}

func (r *RealNetlinker) LinkSubscribe(ch chan<- LinkUpdate, done <-chan struct{}) error {
	return nil
}

func (r *RealNetlinker) Close() {}
