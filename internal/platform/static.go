package platform

import (
	"sort"
	"sync"
)

// Static is a Platform backed by a fixed set of links. It is used for dry
// runs and tests.
type Static struct {
	mu    sync.RWMutex
	links map[int]*Link
}

var _ Platform = (*Static)(nil)

// NewStatic returns a Static platform holding the given links.
func NewStatic(links ...*Link) *Static {
	s := &Static{links: make(map[int]*Link)}
	for _, l := range links {
		s.Set(l)
	}
	return s
}

// Set adds or replaces a link.
func (s *Static) Set(l *Link) {
	s.mu.Lock()
	s.links[l.Index] = l.Clone()
	s.mu.Unlock()
}

// Remove deletes the link with the given index.
func (s *Static) Remove(ifindex int) {
	s.mu.Lock()
	delete(s.links, ifindex)
	s.mu.Unlock()
}

func (s *Static) Link(ifindex int) (*Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[ifindex]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

func (s *Static) LinkByName(name string) (*Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.Name == name {
			return l.Clone(), true
		}
	}
	return nil, false
}

func (s *Static) Links() []*Link {
	s.mu.RLock()
	out := make([]*Link, 0, len(s.links))
	for _, l := range s.links {
		out = append(out, l.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (s *Static) LinkSupportsCarrierDetect(ifindex int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[ifindex]
	return ok && l.CarrierDetect
}

func (s *Static) LinkTypeName(ifindex int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[ifindex]
	if !ok {
		return "", false
	}
	return l.TypeName(), true
}
