package platform

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vishvananda/netlink"
	"grimm.is/netdevd/internal/logging"
)

// Cache is the in-memory mirror of kernel links. Writers are Refresh and the
// Watch goroutine; Platform queries only read.
type Cache struct {
	nl     Netlinker
	prober CarrierProber
	log    *logging.Logger

	// syncMu orders full dumps against incremental updates so an update
	// received while Refresh runs is applied on top of the dump.
	syncMu sync.Mutex

	mu    sync.RWMutex
	links map[int]*Link
	subs  []chan LinkEvent
}

var _ Platform = (*Cache)(nil)

// NewCache creates an empty mirror. prober may be nil, in which case no
// link reports carrier-detect support.
func NewCache(nl Netlinker, prober CarrierProber) *Cache {
	return &Cache{
		nl:     nl,
		prober: prober,
		log:    logging.WithComponent("platform"),
		links:  make(map[int]*Link),
	}
}

// Refresh rebuilds the mirror from a full link dump and emits events for
// the differences. Removals are published before additions and changes, so
// a name that moved to a new index is never removed after it was re-added.
func (c *Cache) Refresh() error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	nlLinks, err := c.nl.LinkList()
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	fresh := make(map[int]*Link, len(nlLinks))
	for _, nl := range nlLinks {
		l := c.convert(nl)
		fresh[l.Index] = l
	}

	c.mu.Lock()
	var removed, updated []LinkEvent
	for idx, old := range c.links {
		if _, ok := fresh[idx]; !ok {
			removed = append(removed, LinkEvent{Type: LinkRemoved, Link: old.Clone()})
		}
	}
	for idx, l := range fresh {
		if old, ok := c.links[idx]; !ok {
			updated = append(updated, LinkEvent{Type: LinkAdded, Link: l.Clone()})
		} else if !sameLink(old, l) {
			updated = append(updated, LinkEvent{Type: LinkChanged, Link: l.Clone()})
		}
	}
	c.links = fresh
	c.mu.Unlock()

	sortByIndex(removed)
	sortByIndex(updated)
	for _, e := range removed {
		c.publish(e)
	}
	for _, e := range updated {
		c.publish(e)
	}
	c.log.Debug("mirror refreshed", "links", len(fresh), "changes", len(removed)+len(updated))
	return nil
}

func sortByIndex(events []LinkEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].Link.Index < events[j].Link.Index })
}

// Watch applies kernel link notifications until ctx is cancelled. Call it
// before the first Refresh so no change between the dump and the
// subscription is missed.
func (c *Cache) Watch(ctx context.Context) error {
	updates := make(chan LinkUpdate, 64)
	if err := c.nl.LinkSubscribe(updates, ctx.Done()); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				c.apply(u)
			}
		}
	}()

	c.log.Info("watching link updates")
	return nil
}

func (c *Cache) apply(u LinkUpdate) {
	if u.Link == nil {
		return
	}
	l := c.convert(u.Link)

	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	c.mu.Lock()
	old, existed := c.links[l.Index]
	var ev LinkEvent
	switch {
	case u.Deleted:
		if !existed {
			c.mu.Unlock()
			return
		}
		delete(c.links, l.Index)
		ev = LinkEvent{Type: LinkRemoved, Link: old.Clone()}
	case !existed:
		c.links[l.Index] = l
		ev = LinkEvent{Type: LinkAdded, Link: l.Clone()}
	default:
		c.links[l.Index] = l
		if sameLink(old, l) {
			c.mu.Unlock()
			return
		}
		ev = LinkEvent{Type: LinkChanged, Link: l.Clone()}
	}
	c.mu.Unlock()

	c.log.Debug("link "+string(ev.Type), "iface", l.Name, "ifindex", l.Index, "type", l.TypeName())
	c.publish(ev)
}

func (c *Cache) convert(nl netlink.Link) *Link {
	l := FromNetlink(nl)
	if c.prober != nil && l.Name != "" {
		l.CarrierDetect = c.prober.SupportsCarrierDetect(l.Name)
	}
	return l
}

func sameLink(a, b *Link) bool {
	return a.Name == b.Name &&
		a.Kind == b.Kind &&
		a.EncapType == b.EncapType &&
		a.HardwareAddr.String() == b.HardwareAddr.String() &&
		a.MTU == b.MTU &&
		a.Up == b.Up &&
		a.Carrier == b.Carrier &&
		a.CarrierDetect == b.CarrierDetect
}

// Subscribe returns a channel receiving mirror changes. Events are dropped
// when the channel is full; consumers that must see every link resync from
// Links after a Refresh.
func (c *Cache) Subscribe(bufSize int) <-chan LinkEvent {
	if bufSize <= 0 {
		bufSize = 64
	}
	ch := make(chan LinkEvent, bufSize)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

func (c *Cache) publish(e LinkEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- e:
		default:
			c.log.Warn("dropping link event for slow subscriber", "iface", e.Link.Name, "event", e.Type)
		}
	}
}

// Link returns a copy of the link with the given index.
func (c *Cache) Link(ifindex int) (*Link, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.links[ifindex]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// LinkByName returns a copy of the link with the given name.
func (c *Cache) LinkByName(name string) (*Link, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.links {
		if l.Name == name {
			return l.Clone(), true
		}
	}
	return nil, false
}

// Links returns copies of every link ordered by index.
func (c *Cache) Links() []*Link {
	c.mu.RLock()
	out := make([]*Link, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l.Clone())
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// LinkSupportsCarrierDetect implements Platform.
func (c *Cache) LinkSupportsCarrierDetect(ifindex int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.links[ifindex]
	return ok && l.CarrierDetect
}

// LinkTypeName implements Platform.
func (c *Cache) LinkTypeName(ifindex int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.links[ifindex]
	if !ok {
		return "", false
	}
	return l.TypeName(), true
}
