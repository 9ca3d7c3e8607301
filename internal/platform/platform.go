package platform

// Platform answers link queries from the kernel-state mirror.
type Platform interface {
	// Link returns the link with the given index.
	Link(ifindex int) (*Link, bool)
	// LinkByName returns the link with the given name.
	LinkByName(name string) (*Link, bool)
	// Links returns every mirrored link ordered by index.
	Links() []*Link
	// LinkSupportsCarrierDetect reports whether the link can signal
	// carrier changes. Unknown indexes report false.
	LinkSupportsCarrierDetect(ifindex int) bool
	// LinkTypeName returns the link's type name, e.g. "dummy".
	LinkTypeName(ifindex int) (string, bool)
}

// LinkEventType is the kind of change a LinkEvent reports.
type LinkEventType string

const (
	LinkAdded   LinkEventType = "added"
	LinkChanged LinkEventType = "changed"
	LinkRemoved LinkEventType = "removed"
)

// LinkEvent reports a change to the mirror.
type LinkEvent struct {
	Type LinkEventType
	Link *Link
}

// Watcher delivers mirror changes.
type Watcher interface {
	Subscribe(bufSize int) <-chan LinkEvent
}
