package entity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/topband-bridge/internal/device"
	"github.com/nerrad567/topband-bridge/internal/point"
)

// base carries the identity and listener plumbing shared by every
// adapter. Identity fields are immutable; the listener registrations
// are guarded by mu.
type base struct {
	dev    *device.Device
	name   string
	icon   string
	points []*point.Point

	mu      sync.Mutex
	handles map[*point.Point]point.Handle
}

func newBase(dev *device.Device, name, icon string, points ...*point.Point) base {
	return base{
		dev:    dev,
		name:   name,
		icon:   icon,
		points: points,
	}
}

// UniqueID returns a stable identifier built from the device and entity
// names, lowercased with spaces collapsed to underscores.
func (b *base) UniqueID() string {
	return slug(b.dev.Name) + "_" + slug(b.name)
}

// Name returns the display name.
func (b *base) Name() string { return b.name }

// Icon returns the display icon hint.
func (b *base) Icon() string { return b.icon }

// Device returns the owning device.
func (b *base) Device() *device.Device { return b.dev }

// Available reports whether the backing device was online in the cloud
// snapshot.
func (b *base) Available() bool { return b.dev.Online }

// Attach registers refresh on every backing point so the host is
// notified of inbound updates. Attaching twice replaces the previous
// registration.
func (b *base) Attach(refresh func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.detachLocked()
	b.handles = make(map[*point.Point]point.Handle, len(b.points))
	for _, p := range b.points {
		b.handles[p] = p.AddListener(refresh)
	}
}

// Detach removes the registrations made by Attach. Safe to call when
// nothing is attached.
func (b *base) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detachLocked()
}

func (b *base) detachLocked() {
	for p, h := range b.handles {
		p.RemoveListener(h)
	}
	b.handles = nil
}

// slug lowercases and underscores a display name.
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// floatValue decodes a point and coerces the result to float64.
func floatValue(p *point.Point) (float64, error) {
	v, err := p.Value()
	if err != nil {
		return 0, err
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: point %s decoded to %T", ErrNotNumeric, p.Name(), v)
	}
	return f, nil
}

// intValue decodes a point and coerces the result to int64.
func intValue(p *point.Point) (int64, error) {
	v, err := p.Value()
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: point %s decoded to %T", ErrNotNumeric, p.Name(), v)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Set holds every adapter built from one device's capability groups.
type Set struct {
	WaterHeaters  []*WaterHeater
	Climates      []*Climate
	Switches      []*Switch
	Selects       []*Select
	Numbers       []*Number
	Sensors       []*Sensor
	BinarySensors []*BinarySensor
}

// FromDevice builds the full adapter set for a classified device.
func FromDevice(dev *device.Device) *Set {
	g := dev.Groups()
	set := &Set{}

	for i := range g.WaterHeaters {
		set.WaterHeaters = append(set.WaterHeaters, newWaterHeater(dev, g.WaterHeaters[i]))
	}
	for i := range g.Climates {
		set.Climates = append(set.Climates, newClimate(dev, g.Climates[i]))
	}
	for i := range g.Switches {
		set.Switches = append(set.Switches, newSwitch(dev, g.Switches[i]))
	}
	for i := range g.Selects {
		set.Selects = append(set.Selects, newSelect(dev, g.Selects[i]))
	}
	for i := range g.Numbers {
		set.Numbers = append(set.Numbers, newNumber(dev, g.Numbers[i]))
	}
	for i := range g.Sensors {
		set.Sensors = append(set.Sensors, newSensor(dev, g.Sensors[i]))
	}
	for i := range g.BinarySensors {
		set.BinarySensors = append(set.BinarySensors, newBinarySensor(dev, g.BinarySensors[i]))
	}

	return set
}
