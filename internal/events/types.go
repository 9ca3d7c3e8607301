// Package events provides the pub/sub bus that carries device and profile
// notifications from the device manager to API clients.
package events

import "time"

// EventType identifies the category of event.
type EventType string

const (
	// Device lifecycle
	EventDeviceAdded    EventType = "device.added"
	EventDeviceRealized EventType = "device.realized"
	EventDeviceRemoved  EventType = "device.removed"
	EventDeviceManaged  EventType = "device.managed"

	// Published property changes (HwAddress, TypeDescription, ...)
	EventDeviceProperty EventType = "device.property"

	// Profile matching
	EventProfileUpdated     EventType = "profile.updated"
	EventProfileUnavailable EventType = "profile.unavailable"
	EventProfileCompatible  EventType = "profile.compatible"
)

// Event is the core message passed through the event bus.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"` // "device", "profile", ...
	Data      interface{} `json:"data"`
}

// DeviceData is the payload for device lifecycle events.
type DeviceData struct {
	Name    string `json:"name"`
	Ifindex int    `json:"ifindex"`
	Kind    string `json:"kind"`
	Managed bool   `json:"managed"`
}

// PropertyData is the payload for EventDeviceProperty.
type PropertyData struct {
	Device   string `json:"device"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// ProfileData is the payload for profile matching events. Reason is set
// when a profile was rejected.
type ProfileData struct {
	UUID   string `json:"uuid"`
	ID     string `json:"id"`
	Device string `json:"device"`
	Reason string `json:"reason,omitempty"`
}
