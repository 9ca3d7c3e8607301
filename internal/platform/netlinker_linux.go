//go:build linux

package platform

import (
	"fmt"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// RealNetlinker implements Netlinker with the netlink package. With a
// namespace it operates inside that namespace.
type RealNetlinker struct {
	handle *netlink.Handle
	ns     netns.NsHandle
}

// NewNetlinker opens a netlink handle. nsPath selects a network namespace
// (e.g. /run/netns/lab); empty means the current one.
func NewNetlinker(nsPath string) (*RealNetlinker, error) {
	if nsPath == "" {
		h, err := netlink.NewHandle()
		if err != nil {
			return nil, fmt.Errorf("failed to open netlink handle: %w", err)
		}
		return &RealNetlinker{handle: h, ns: netns.None()}, nil
	}

	ns, err := netns.GetFromPath(nsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open namespace %s: %w", nsPath, err)
	}
	h, err := netlink.NewHandleAt(ns)
	if err != nil {
		ns.Close()
		return nil, fmt.Errorf("failed to open netlink handle in %s: %w", nsPath, err)
	}
	return &RealNetlinker{handle: h, ns: ns}, nil
}

// LinkList retrieves all links.
func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return r.handle.LinkList()
}

// LinkByIndex retrieves a link by index.
func (r *RealNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	return r.handle.LinkByIndex(index)
}

// LinkSubscribe forwards RTM_NEWLINK/RTM_DELLINK notifications to ch.
func (r *RealNetlinker) LinkSubscribe(ch chan<- LinkUpdate, done <-chan struct{}) error {
	raw := make(chan netlink.LinkUpdate, 64)
	opts := netlink.LinkSubscribeOptions{}
	if r.ns.IsOpen() {
		ns := r.ns
		opts.Namespace = &ns
	}
	if err := netlink.LinkSubscribeWithOptions(raw, done, opts); err != nil {
		return fmt.Errorf("failed to subscribe to link updates: %w", err)
	}

	go func() {
		for u := range raw {
			update := LinkUpdate{
				Deleted: u.Header.Type == unix.RTM_DELLINK,
				Link:    u.Link,
			}
			select {
			case ch <- update:
			case <-done:
				return
			}
		}
	}()
	return nil
}

// Close releases the handle and namespace.
func (r *RealNetlinker) Close() {
	r.handle.Close()
	if r.ns.IsOpen() {
		r.ns.Close()
	}
}
