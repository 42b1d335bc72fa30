package collection

import "sync"

// FakeWatcher is an in-memory Watcher for tests and for driving the
// engine's collection-dependent code paths without real hardware. Its
// Connect/Mount/Unmount/Disconnect methods simulate the transitions a
// real udev-backed watcher would report.
type FakeWatcher struct {
	mu      sync.Mutex
	devices map[string]Device
	events  chan Event
	closed  bool
}

// NewFakeWatcher constructs an empty watcher. bufferSize sizes the
// Events channel; a full channel causes Connect/Mount/Unmount/
// Disconnect to drop the oldest undelivered event rather than block,
// since a watcher is a non-audio-thread collaborator but must still
// never wedge its caller.
func NewFakeWatcher(bufferSize int) *FakeWatcher {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &FakeWatcher{
		devices: make(map[string]Device),
		events:  make(chan Event, bufferSize),
	}
}

func (w *FakeWatcher) Events() <-chan Event { return w.events }

func (w *FakeWatcher) Devices() []Device {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Device, 0, len(w.devices))
	for _, d := range w.devices {
		out = append(out, d)
	}
	return out
}

func (w *FakeWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.events)
}

func (w *FakeWatcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
		// Drop the oldest queued event to make room, matching a
		// watcher's "latest state wins" guarantee over strict delivery.
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- e:
		default:
		}
	}
}

// Connect simulates a device appearing, unmounted.
func (w *FakeWatcher) Connect(path string) {
	w.mu.Lock()
	w.devices[path] = Device{Path: path, State: Connected}
	w.mu.Unlock()
	if !w.isClosed() {
		w.emit(Event{Kind: DeviceConnected, Device: w.snapshot(path)})
	}
}

// Mount simulates the OS mounting a known device at mountPoint.
func (w *FakeWatcher) Mount(path, mountPoint string) {
	w.mu.Lock()
	d := w.devices[path]
	d.Path = path
	d.MountPoint = mountPoint
	d.State = Mounted
	w.devices[path] = d
	w.mu.Unlock()
	if !w.isClosed() {
		w.emit(Event{Kind: DeviceMounted, Device: w.snapshot(path)})
	}
}

// Unmount simulates the OS unmounting a device; it remains connected.
func (w *FakeWatcher) Unmount(path string) {
	w.mu.Lock()
	d := w.devices[path]
	d.MountPoint = ""
	d.State = Connected
	w.devices[path] = d
	w.mu.Unlock()
	if !w.isClosed() {
		w.emit(Event{Kind: DeviceUnmounted, Device: w.snapshot(path)})
	}
}

// Disconnect simulates physical removal.
func (w *FakeWatcher) Disconnect(path string) {
	w.mu.Lock()
	d := w.devices[path]
	d.MountPoint = ""
	d.State = Disconnected
	w.devices[path] = d
	delete(w.devices, path)
	w.mu.Unlock()
	if !w.isClosed() {
		w.emit(Event{Kind: DeviceDisconnected, Device: Device{Path: path, State: Disconnected}})
	}
}

func (w *FakeWatcher) snapshot(path string) Device {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.devices[path]
}

func (w *FakeWatcher) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
