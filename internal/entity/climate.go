package entity

import (
	"fmt"
	"sort"

	"github.com/nerrad567/topband-bridge/internal/device"
)

// Climate adapts the room thermostat.
type Climate struct {
	base
	data device.Climate
}

func newClimate(dev *device.Device, data device.Climate) *Climate {
	return &Climate{
		base: newBase(dev, data.Name, data.Icon, data.CurrentTemp, data.TargetTemp, data.ModePoint),
		data: data,
	}
}

// CurrentTemperature returns the measured room temperature.
func (c *Climate) CurrentTemperature() (float64, error) {
	return floatValue(c.data.CurrentTemp)
}

// TargetTemperature returns the room setpoint.
func (c *Climate) TargetTemperature() (float64, error) {
	return floatValue(c.data.TargetTemp)
}

// Step returns the setpoint step size.
func (c *Climate) Step() float64 { return c.data.TargetTempStep }

// Unit returns the temperature unit.
func (c *Climate) Unit() string { return c.data.TempUnit }

// Mode returns the current operating mode.
func (c *Climate) Mode() (device.HVACMode, error) {
	wire, err := intValue(c.data.ModePoint)
	if err != nil {
		return "", err
	}
	mode, ok := c.data.Modes[wire]
	if !ok {
		return "", fmt.Errorf("%w: wire value %d", ErrUnknownMode, wire)
	}
	return mode, nil
}

// Modes returns the supported operating modes, ordered by wire value.
func (c *Climate) Modes() []device.HVACMode {
	wires := make([]int64, 0, len(c.data.Modes))
	for w := range c.data.Modes {
		wires = append(wires, w)
	}
	sort.Slice(wires, func(i, j int) bool { return wires[i] < wires[j] })

	modes := make([]device.HVACMode, 0, len(wires))
	for _, w := range wires {
		modes = append(modes, c.data.Modes[w])
	}
	return modes
}

// SetTemperature writes a new room setpoint.
func (c *Climate) SetTemperature(value float64) error {
	return c.data.TargetTemp.SetValue(value)
}

// SetMode writes a new operating mode via reverse table lookup.
func (c *Climate) SetMode(mode device.HVACMode) error {
	for wire, m := range c.data.Modes {
		if m == mode {
			return c.data.ModePoint.SetValue(wire)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
}

// TurnOff is accepted but does nothing. The thermostat's off behaviour
// is driven through SetMode; this exists for host-framework call
// symmetry.
func (c *Climate) TurnOff() error { return nil }
