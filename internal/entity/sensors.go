package entity

import "github.com/nerrad567/topband-bridge/internal/device"

// Sensor adapts a single read-only point.
type Sensor struct {
	base
	data device.Sensor
}

func newSensor(dev *device.Device, data device.Sensor) *Sensor {
	return &Sensor{
		base: newBase(dev, data.Name, data.Icon, data.Point),
		data: data,
	}
}

// DeviceClass returns the host framework class hint.
func (s *Sensor) DeviceClass() string { return s.data.DeviceClass }

// Unit returns the measurement unit.
func (s *Sensor) Unit() string { return s.data.Unit }

// Diagnostic reports whether the sensor belongs on a diagnostics page.
func (s *Sensor) Diagnostic() bool { return s.data.Category == device.CategoryDiagnostic }

// State returns the decoded value. When the sensor carries an options
// table and the value has a label, the label is returned instead of the
// number; an unlabelled value passes through unchanged.
func (s *Sensor) State() (any, error) {
	v, err := s.data.Point.Value()
	if err != nil {
		return nil, err
	}
	if s.data.Options == nil {
		return v, nil
	}
	if wire, ok := v.(int64); ok {
		if label, ok := s.data.Options[wire]; ok {
			return label, nil
		}
	}
	return v, nil
}

// BinarySensor adapts a single read-only boolean point.
type BinarySensor struct {
	base
	data device.BinarySensor
}

func newBinarySensor(dev *device.Device, data device.BinarySensor) *BinarySensor {
	return &BinarySensor{
		base: newBase(dev, data.Name, data.Icon, data.Point),
		data: data,
	}
}

// DeviceClass returns the host framework class hint.
func (b *BinarySensor) DeviceClass() string { return b.data.DeviceClass }

// IsOn reports whether the point is truthy.
func (b *BinarySensor) IsOn() (bool, error) {
	v, err := intValue(b.data.Point)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
