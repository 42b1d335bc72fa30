// Package collection models the contract boundary between the engine
// and removable-media track storage (spec.md §6: "USB device discovery
// and mounting" is an external collaborator). It defines the
// mount-state shape the loader depends on without touching any real
// USB stack (SPEC_FULL.md §C.5, grounded in
// original_source's mesh-core/src/usb/manager.rs, whose background
// manager thread communicates device state over exactly this kind of
// command/message channel pair).
package collection

// MountState is a device's lifecycle stage.
type MountState int

const (
	Disconnected MountState = iota
	Connected               // enumerated, not yet mounted
	Mounted                 // mounted, its tracks are browsable
	Unmounting
)

// String names a MountState for logging.
func (s MountState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Mounted:
		return "mounted"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// Device is a removable volume the collection layer knows about.
type Device struct {
	Path       string // OS device path, e.g. "/dev/sda1"
	MountPoint string // empty unless State == Mounted
	State      MountState
}

// EventKind discriminates an Event's meaning.
type EventKind int

const (
	DeviceConnected EventKind = iota
	DeviceMounted
	DeviceUnmounted
	DeviceDisconnected
)

// Event is one device-state transition, delivered in order on a
// Watcher's channel.
type Event struct {
	Kind   EventKind
	Device Device
}

// Watcher is the contract a collection-backed loader depends on: a
// stream of mount-state transitions plus the current device snapshot.
// A real implementation would wrap platform USB/udev APIs, which are
// out of this repo's scope; only the in-memory FakeWatcher below
// exists here.
type Watcher interface {
	// Events returns the channel of mount-state transitions. It is
	// closed when the watcher is closed.
	Events() <-chan Event
	// Devices returns a snapshot of currently known devices.
	Devices() []Device
	// Close stops the watcher and closes its Events channel.
	Close()
}
