package device

import (
	"sort"
	"sync"
)

// Registry is the MAC-keyed catalogue of bridged devices.
//
// Devices are registered once at startup from the cloud snapshot and
// looked up by the inbound router on every transport message. There is
// no backing repository: the cloud is the source of truth and devices
// are rebuilt on restart.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
	logger  Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers a device under its hardware address.
// Returns ErrDeviceExists for a duplicate MAC.
func (r *Registry) Add(d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[d.MAC]; exists {
		return ErrDeviceExists
	}
	r.devices[d.MAC] = d

	r.logger.Info("device registered",
		"mac", d.MAC,
		"name", d.Name,
		"model", d.Model,
		"online", d.Online,
	)
	return nil
}

// Get looks a device up by its hardware address.
func (r *Registry) Get(mac string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[mac]
	return d, ok
}

// All returns every registered device, ordered by MAC for deterministic
// iteration.
func (r *Registry) All() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].MAC < devices[j].MAC })
	return devices
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
