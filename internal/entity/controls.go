package entity

import (
	"fmt"
	"sort"

	"github.com/nerrad567/topband-bridge/internal/device"
)

// Switch adapts a single on/off control point.
type Switch struct {
	base
	data device.Switch
}

func newSwitch(dev *device.Device, data device.Switch) *Switch {
	return &Switch{
		base: newBase(dev, data.Name, data.Icon, data.Point),
		data: data,
	}
}

// DeviceClass returns the host framework class hint.
func (s *Switch) DeviceClass() string { return s.data.DeviceClass }

// IsOn reports whether the switch is on.
func (s *Switch) IsOn() (bool, error) {
	v, err := intValue(s.data.Point)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// TurnOn writes the on state.
func (s *Switch) TurnOn() error { return s.data.Point.SetValue(int64(1)) }

// TurnOff writes the off state.
func (s *Switch) TurnOff() error { return s.data.Point.SetValue(int64(0)) }

// Select adapts a single enumerated control point.
type Select struct {
	base
	data device.Select
}

func newSelect(dev *device.Device, data device.Select) *Select {
	return &Select{
		base: newBase(dev, data.Name, data.Icon, data.Point),
		data: data,
	}
}

// Current returns the label for the current wire value.
func (s *Select) Current() (string, error) {
	wire, err := intValue(s.data.Point)
	if err != nil {
		return "", err
	}
	label, ok := s.data.Options[wire]
	if !ok {
		return "", fmt.Errorf("%w: wire value %d", ErrUnknownOption, wire)
	}
	return label, nil
}

// Options returns the selectable labels, ordered by wire value.
func (s *Select) Options() []string {
	wires := make([]int64, 0, len(s.data.Options))
	for w := range s.data.Options {
		wires = append(wires, w)
	}
	sort.Slice(wires, func(i, j int) bool { return wires[i] < wires[j] })

	labels := make([]string, 0, len(wires))
	for _, w := range wires {
		labels = append(labels, s.data.Options[w])
	}
	return labels
}

// Select writes the wire value for a label via reverse table lookup.
func (s *Select) Select(label string) error {
	for wire, l := range s.data.Options {
		if l == label {
			return s.data.Point.SetValue(wire)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownOption, label)
}

// Number adapts a single bounded numeric control point.
type Number struct {
	base
	data device.Number
}

func newNumber(dev *device.Device, data device.Number) *Number {
	return &Number{
		base: newBase(dev, data.Name, data.Icon, data.Point),
		data: data,
	}
}

// Value returns the current value.
func (n *Number) Value() (float64, error) {
	return floatValue(n.data.Point)
}

// Min returns the lower bound.
func (n *Number) Min() float64 { return n.data.Min }

// Max returns the upper bound.
func (n *Number) Max() float64 { return n.data.Max }

// Step returns the step size.
func (n *Number) Step() float64 { return n.data.Step }

// Unit returns the measurement unit.
func (n *Number) Unit() string { return n.data.Unit }

// SetValue validates the bounds and writes the value.
func (n *Number) SetValue(value float64) error {
	if value < n.data.Min || value > n.data.Max {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrOutOfRange, value, n.data.Min, n.data.Max)
	}
	return n.data.Point.SetValue(value)
}
